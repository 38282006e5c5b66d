package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nivke/invoiceflow/internal/api"
	"github.com/nivke/invoiceflow/internal/common"
	"github.com/nivke/invoiceflow/internal/daterange"
	"github.com/nivke/invoiceflow/internal/storage"
)

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "invoiceflow.db"
	}
	return filepath.Join(home, ".local", "share", "invoiceflow", "invoiceflow.db")
}

// newClient builds the REST client from configuration.
func newClient() (*api.Client, error) {
	baseURL := viper.GetString("api.base_url")
	if baseURL == "" {
		return nil, fmt.Errorf("api.base_url: %w", common.ErrMissingConfig)
	}
	return api.New(baseURL), nil
}

// openSnapshots opens the local invoice snapshot cache. Callers must Close.
func openSnapshots() (*storage.SQLiteStore, error) {
	path := viper.GetString("database.path")
	store, err := storage.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store at %s: %w", path, err)
	}
	return store, nil
}

func bulkWorkers() int {
	workers := viper.GetInt("bulk.workers")
	if workers <= 0 {
		workers = 4
	}
	return workers
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("amount must not be negative")
	}
	return v, nil
}

// fileReader avoids passing a typed-nil *os.File through an io.Reader.
func fileReader(f *os.File) io.Reader {
	if f == nil {
		return nil
	}
	return f
}

// resolveRange turns either a named quick range or explicit --from/--to
// DD/MM/YYYY bounds into an ISO range. All parts are optional; open bounds
// stay empty.
func resolveRange(quick, from, to string) (daterange.Range, error) {
	if quick != "" {
		if from != "" || to != "" {
			return daterange.Range{}, fmt.Errorf("--range cannot be combined with --from/--to")
		}
		now := time.Now()
		switch strings.ToLower(quick) {
		case "this-month":
			return daterange.ThisMonth(now), nil
		case "last-month":
			return daterange.LastMonth(now), nil
		case "this-year":
			return daterange.ThisYear(now), nil
		case "last-year":
			return daterange.LastYear(now), nil
		default:
			return daterange.Range{}, fmt.Errorf("unknown range %q (want this-month, last-month, this-year, or last-year)", quick)
		}
	}

	var r daterange.Range
	var err error
	if from != "" {
		if r.Start, err = daterange.ParseDisplay(from); err != nil {
			return daterange.Range{}, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if to != "" {
		if r.End, err = daterange.ParseDisplay(to); err != nil {
			return daterange.Range{}, fmt.Errorf("invalid --to: %w", err)
		}
	}
	if err := r.Valid(); err != nil {
		return daterange.Range{}, fmt.Errorf("--from %s to --to %s: %w", from, to, err)
	}
	return r, nil
}
