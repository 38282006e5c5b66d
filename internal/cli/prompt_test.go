package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"lowercase y", "y\n", true},
		{"yes word", "yes\n", true},
		{"uppercase", "YES\n", true},
		{"padded", "  y  \n", true},
		{"n declines", "n\n", false},
		{"empty line declines", "\n", false},
		{"anything else declines", "sure\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := Confirm(context.Background(), strings.NewReader(tt.input), &out, "Proceed?")
			if err != nil {
				t.Fatalf("Confirm() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "Proceed?") {
				t.Errorf("prompt not written: %q", out.String())
			}
		})
	}
}

func TestConfirm_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A reader that never delivers a line.
	blocked, _ := newBlockedReader()
	var out bytes.Buffer

	done := make(chan struct{})
	var got bool
	var err error
	go func() {
		got, err = Confirm(ctx, blocked, &out, "Proceed?")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Confirm did not return on cancelled context")
	}

	if !errors.Is(err, ErrInputCancelled) {
		t.Fatalf("err = %v, want ErrInputCancelled", err)
	}
	if got {
		t.Fatal("cancelled confirm must decline")
	}
}

// newBlockedReader returns a reader whose Read blocks until the returned
// func is called.
func newBlockedReader() (*blockedReader, func()) {
	ch := make(chan struct{})
	return &blockedReader{ch: ch}, func() { close(ch) }
}

type blockedReader struct {
	ch chan struct{}
}

func (r *blockedReader) Read(_ []byte) (int, error) {
	<-r.ch
	return 0, context.Canceled
}
