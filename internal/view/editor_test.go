package view

import (
	"testing"

	"github.com/nivke/invoiceflow/internal/model"
)

func TestDeriveVAT(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		want  float64
	}{
		{"round total", 118, 18},
		{"zero", 0, 0},
		{"needs rounding", 100, 15.25},
		{"large amount", 1180, 180},
		{"small amount", 1, 0.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveVAT(tt.total); got != tt.want {
				t.Errorf("DeriveVAT(%v) = %v, want %v", tt.total, got, tt.want)
			}
		})
	}
}

func TestEditBuffer_SetTotalDerivesVAT(t *testing.T) {
	buf := NewEditBuffer(model.Invoice{ID: "a"})

	buf.SetTotal(118)
	if buf.TotalAmount == nil || *buf.TotalAmount != 118 {
		t.Fatalf("TotalAmount = %v, want 118", buf.TotalAmount)
	}
	if buf.VatAmount == nil || *buf.VatAmount != 18 {
		t.Fatalf("VatAmount = %v, want 18", buf.VatAmount)
	}

	// An explicit VAT afterwards wins over the derived value.
	buf.SetVAT(20)
	if *buf.VatAmount != 20 {
		t.Fatalf("VatAmount = %v, want 20", *buf.VatAmount)
	}
	if *buf.TotalAmount != 118 {
		t.Fatalf("TotalAmount changed to %v", *buf.TotalAmount)
	}
}

func TestEditBuffer_MergeKeepsUntouchedFields(t *testing.T) {
	original := model.Invoice{
		ID:          "inv-1",
		Filename:    "scan.pdf",
		SenderEmail: "billing@vendor.example",
		Subject:     "March invoice",
		VendorName:  "Old Vendor",
		InvoiceDate: "2025-03-10",
		Currency:    model.CurrencyILS,
		Status:      model.StatusPending,
		DownloadURL: "https://files.example/scan.pdf",
		Labels:      []string{"office"},
	}

	buf := NewEditBuffer(original)
	buf.VendorName = "New Vendor"
	buf.SetTotal(236)
	buf.Status = model.StatusProcessed

	merged := buf.Merge(original)

	if merged.VendorName != "New Vendor" {
		t.Errorf("VendorName = %s", merged.VendorName)
	}
	if merged.Status != model.StatusProcessed {
		t.Errorf("Status = %s", merged.Status)
	}
	if merged.Total() != 236 || merged.VAT() != 36 {
		t.Errorf("amounts = %v / %v, want 236 / 36", merged.Total(), merged.VAT())
	}

	// Fields the buffer does not cover pass through untouched.
	if merged.Filename != original.Filename ||
		merged.SenderEmail != original.SenderEmail ||
		merged.DownloadURL != original.DownloadURL ||
		merged.Subject != original.Subject {
		t.Error("immutable fields changed during merge")
	}

	// The original record is not mutated until the merge result is adopted.
	if original.VendorName != "Old Vendor" || original.TotalAmount != nil {
		t.Error("original mutated by edit buffer")
	}
}

func TestEditBuffer_CancelIsDroppingTheBuffer(t *testing.T) {
	original := model.Invoice{ID: "inv-1", VendorName: "Vendor", Labels: []string{"a"}}

	buf := NewEditBuffer(original)
	buf.VendorName = "Changed"
	buf.Labels = append(buf.Labels, "b")

	// No Merge call: the original must be untouched.
	if original.VendorName != "Vendor" || len(original.Labels) != 1 {
		t.Fatalf("original changed: %+v", original)
	}
}
