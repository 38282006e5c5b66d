package model

import (
	"encoding/json"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "Pending", want: StatusPending},
		{in: "pending", want: StatusPending},
		{in: "PROCESSED", want: StatusProcessed},
		{in: "warning", want: StatusWarning},
		{in: "cancelled", want: StatusCancelled},
		{in: "done", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStatus(%q) = %s, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestInvoice_Labels(t *testing.T) {
	inv := Invoice{ID: "a"}

	if !inv.AddLabel("office") {
		t.Fatal("first AddLabel returned false")
	}
	if inv.AddLabel("office") {
		t.Fatal("duplicate AddLabel returned true")
	}
	if !inv.HasLabel("office") {
		t.Fatal("HasLabel missed an added label")
	}
	if inv.HasLabel("Office") {
		t.Fatal("label comparison should be case-sensitive")
	}

	inv.AddLabel("cloud")
	if !inv.RemoveLabel("office") {
		t.Fatal("RemoveLabel missed an existing label")
	}
	if inv.RemoveLabel("office") {
		t.Fatal("RemoveLabel of a missing label returned true")
	}
	if len(inv.Labels) != 1 || inv.Labels[0] != "cloud" {
		t.Fatalf("Labels = %v, want [cloud]", inv.Labels)
	}
}

func TestInvoice_CloneIsDeep(t *testing.T) {
	amount := 118.0
	vat := 18.0
	original := Invoice{
		ID:          "a",
		TotalAmount: &amount,
		VatAmount:   &vat,
		Labels:      []string{"office"},
	}

	clone := original.Clone()
	*clone.TotalAmount = 999
	clone.Labels[0] = "changed"
	clone.AddLabel("extra")

	if *original.TotalAmount != 118 {
		t.Errorf("clone shares TotalAmount pointer")
	}
	if original.Labels[0] != "office" || len(original.Labels) != 1 {
		t.Errorf("clone shares Labels backing array: %v", original.Labels)
	}
}

func TestInvoice_NilAmountAccessors(t *testing.T) {
	inv := Invoice{}
	if inv.Total() != 0 || inv.VAT() != 0 {
		t.Fatalf("nil amounts should read as zero, got %v / %v", inv.Total(), inv.VAT())
	}
}

func TestInvoice_JSONRoundTrip(t *testing.T) {
	amount := 118.5
	original := Invoice{
		ID:          "inv-1",
		SenderEmail: "billing@vendor.example",
		Subject:     "March",
		InvoiceDate: "2025-03-10",
		VendorName:  "Vendor",
		TotalAmount: &amount,
		Currency:    CurrencyILS,
		Status:      StatusPending,
		Labels:      []string{"office"},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// Wire format uses snake_case and omits unknown amounts entirely.
	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal to map: %v", err)
	}
	if _, ok := wire["invoice_date"]; !ok {
		t.Error("missing invoice_date key")
	}
	if _, ok := wire["vat_amount"]; ok {
		t.Error("nil vat_amount should be omitted")
	}

	var decoded Invoice
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.TotalAmount == nil || *decoded.TotalAmount != 118.5 {
		t.Errorf("TotalAmount = %v", decoded.TotalAmount)
	}
	if decoded.VatAmount != nil {
		t.Errorf("VatAmount = %v, want nil after round trip", decoded.VatAmount)
	}
}
