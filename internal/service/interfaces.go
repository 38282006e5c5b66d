// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"io"
	"time"

	"github.com/nivke/invoiceflow/internal/model"
)

// InvoiceAPI is the contract the REST backend exposes to the rest of the
// application. Implemented by the api package; mocked in tests.
type InvoiceAPI interface {
	// Scan operations
	Scan(ctx context.Context, startDate, endDate string) (*model.ScanResult, error)

	// Invoice operations
	Invoices(ctx context.Context) ([]model.Invoice, error)
	UpdateInvoice(ctx context.Context, inv model.Invoice) (*model.Invoice, error)
	DeleteInvoice(ctx context.Context, id string) error
	UploadFile(ctx context.Context, id, filename string, file io.Reader) (*model.Invoice, error)
	CreateManual(ctx context.Context, inv model.Invoice, filename string, file io.Reader) (*model.Invoice, error)

	// Label operations
	Labels(ctx context.Context) ([]string, error)
	CreateLabel(ctx context.Context, name string) ([]string, error)
	DeleteLabel(ctx context.Context, name string) ([]string, error)

	// Rule operations
	Rules(ctx context.Context) ([]model.Rule, error)
	CreateRule(ctx context.Context, rule model.Rule) (*model.Rule, error)
	UpdateRule(ctx context.Context, rule model.Rule) (*model.Rule, error)
	DeleteRule(ctx context.Context, id string) error
	ApplyAllRules(ctx context.Context) (string, error)

	// Export operations
	ExportPDF(ctx context.Context, invoiceIDs []string) ([]byte, error)
	ExportZIP(ctx context.Context, invoiceIDs []string) ([]byte, error)

	// Auth operations
	Profile(ctx context.Context) (string, error)
	Login(ctx context.Context) (string, error)
	Logout(ctx context.Context) error

	// Analytics
	Analytics(ctx context.Context, startDate, endDate string) (*model.AnalyticsSummary, error)
}

// SnapshotStore persists the last fetched invoice history locally, serving
// offline listings and the known-good snapshot used for rollback after a
// failed optimistic mutation.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, invoices []model.Invoice) error
	LoadSnapshot(ctx context.Context) ([]model.Invoice, time.Time, error)
	Close() error
}

// RetryOptions configures retry behavior for operations that may fail transiently.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
