// Package export renders the filtered invoice view as a CSV document.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/nivke/invoiceflow/internal/model"
)

// csvHeader lists the export columns in order.
var csvHeader = []string{"ID", "Date", "Vendor", "Subject", "Amount", "Currency", "VAT", "Status", "Labels", "Comments"}

// CSV renders every row of the filtered view, ignoring pagination, as a
// UTF-8 CSV with a leading BOM so spreadsheet tools detect the encoding.
// Rows are CRLF-separated; every field is double-quoted with embedded quotes
// doubled and embedded newlines collapsed to single spaces.
func CSV(invoices []model.Invoice) []byte {
	var buf bytes.Buffer
	buf.WriteString("\uFEFF")

	writeRow(&buf, csvHeader)
	for i := range invoices {
		inv := &invoices[i]
		writeRow(&buf, []string{
			inv.ID,
			inv.InvoiceDate,
			inv.VendorName,
			inv.Subject,
			formatAmount(inv.TotalAmount),
			string(inv.Currency),
			formatAmount(inv.VatAmount),
			string(inv.Status),
			strings.Join(inv.Labels, ", "),
			inv.Comments,
		})
	}

	return buf.Bytes()
}

func writeRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(escapeField(f))
	}
	buf.WriteString("\r\n")
}

// escapeField always quotes: embedded quotes are doubled and CR/LF runs
// become single spaces so a row never spans lines.
func escapeField(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, `"`, `""`)
	return `"` + s + `"`
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
