package view

import (
	"math"

	"github.com/nivke/invoiceflow/internal/model"
)

// VATRate is the VAT rate embedded in invoice totals (18%).
const VATRate = 1.18

// DeriveVAT extracts the VAT portion from a VAT-inclusive total, rounded to
// two decimals: total − total/1.18.
func DeriveVAT(total float64) float64 {
	return math.Round((total-total/VATRate)*100) / 100
}

// EditBuffer snapshots one row's mutable fields while it is under inline
// edit. The underlying invoice stays untouched until Merge; Cancel is simply
// dropping the buffer.
type EditBuffer struct {
	ID          string
	VendorName  string
	InvoiceDate string
	TotalAmount *float64
	VatAmount   *float64
	Currency    model.Currency
	Status      model.Status
	Labels      []string
	Comments    string
}

// NewEditBuffer seeds an edit buffer from the invoice's current values.
func NewEditBuffer(inv model.Invoice) EditBuffer {
	clone := inv.Clone()
	return EditBuffer{
		ID:          clone.ID,
		VendorName:  clone.VendorName,
		InvoiceDate: clone.InvoiceDate,
		TotalAmount: clone.TotalAmount,
		VatAmount:   clone.VatAmount,
		Currency:    clone.Currency,
		Status:      clone.Status,
		Labels:      clone.Labels,
		Comments:    clone.Comments,
	}
}

// SetTotal updates the total and auto-derives the VAT amount from it. The
// derived VAT is a convenience default; SetVAT afterwards overrides it.
func (b *EditBuffer) SetTotal(total float64) {
	b.TotalAmount = &total
	vat := DeriveVAT(total)
	b.VatAmount = &vat
}

// SetVAT overrides the VAT amount directly.
func (b *EditBuffer) SetVAT(vat float64) {
	b.VatAmount = &vat
}

// Merge lays the buffer's fields over the original record and returns the
// merged copy to send as a full update. Fields outside the buffer keep the
// original's values.
func (b EditBuffer) Merge(original model.Invoice) model.Invoice {
	out := original.Clone()
	out.VendorName = b.VendorName
	out.InvoiceDate = b.InvoiceDate
	out.TotalAmount = b.TotalAmount
	out.VatAmount = b.VatAmount
	out.Currency = b.Currency
	out.Status = b.Status
	out.Labels = append([]string(nil), b.Labels...)
	out.Comments = b.Comments
	return out
}
