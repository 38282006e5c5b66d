package model

// MonthlyBucket is one month's aggregate spend, keyed by YYYY-MM.
type MonthlyBucket struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// LabelBucket is one label's aggregate spend. Invoices without labels are
// grouped by the backend under "Uncategorized".
type LabelBucket struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// AnalyticsSummary holds the aggregate figures the backend computes for a
// date range.
type AnalyticsSummary struct {
	TotalAmount      float64         `json:"total_amount"`
	TotalCount       int             `json:"total_count"`
	MonthlyBreakdown []MonthlyBucket `json:"monthly_breakdown"`
	LabelBreakdown   []LabelBucket   `json:"label_breakdown"`
}
