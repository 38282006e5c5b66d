package model

// ScanResult is the backend's summary of one email scan over a date range.
type ScanResult struct {
	TotalEmailsScanned int       `json:"total_emails_scanned"`
	InvoicesFound      int       `json:"invoices_found"`
	Invoices           []Invoice `json:"invoices"`
}
