package scan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mmynk/billsplit/internal/models"
)

// DefaultTimeout bounds a scan when none is configured.
const DefaultTimeout = 60 * time.Second

// ErrScanInProgress is returned when a scan is requested while another one
// started by the same Scanner is still pending.
var ErrScanInProgress = errors.New("scan already in progress")

// BillScanner returns the items found on a bill image.
type BillScanner interface {
	ScanBill(ctx context.Context, filename string, image io.Reader) ([]models.LineItem, error)
}

// Importer receives scanned items. *bill.Session implements it.
type Importer interface {
	ImportItems(batch []models.LineItem) int
}

// Result describes a finished scan.
type Result struct {
	Outcome  Outcome
	Imported int
	Err      error
}

// Scanner runs at most one scan at a time and imports what it finds.
type Scanner struct {
	scanner  BillScanner
	timeout  time.Duration
	inFlight atomic.Bool

	// Observe, if set, is called with the outcome of every scan attempt.
	Observe func(Outcome, time.Duration)
}

// NewScanner wraps scanner. A non-positive timeout uses DefaultTimeout.
func NewScanner(scanner BillScanner, timeout time.Duration) *Scanner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Scanner{scanner: scanner, timeout: timeout}
}

// InFlight reports whether a scan is pending.
func (s *Scanner) InFlight() bool {
	return s.inFlight.Load()
}

// Scan uploads image and, on success, appends the items to dst. Failures
// leave dst untouched and are reported in the result, never panicked or
// returned as errors. Cancelling ctx aborts the request.
func (s *Scanner) Scan(ctx context.Context, dst Importer, filename string, image io.Reader) Result {
	start := time.Now()
	if !s.inFlight.CompareAndSwap(false, true) {
		return s.finish(Result{Outcome: Busy, Err: ErrScanInProgress}, start)
	}
	defer s.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.scanner.ScanBill(ctx, filename, image)
	if err != nil {
		return s.finish(Result{Outcome: OutcomeOf(err), Err: err}, start)
	}

	n := dst.ImportItems(items)
	return s.finish(Result{Outcome: Succeeded, Imported: n}, start)
}

func (s *Scanner) finish(res Result, start time.Time) Result {
	elapsed := time.Since(start)
	if res.Err != nil {
		slog.Warn("Bill scan did not import items",
			"outcome", res.Outcome.String(),
			"error", res.Err,
			"duration_ms", elapsed.Milliseconds(),
		)
	} else {
		slog.Info("Bill scan imported items",
			"count", res.Imported,
			"duration_ms", elapsed.Milliseconds(),
		)
	}
	if s.Observe != nil {
		s.Observe(res.Outcome, elapsed)
	}
	return res
}
