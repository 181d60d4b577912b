package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordOperation_CountsByOutcome(t *testing.T) {
	baseOK := testutil.ToFloat64(repoOps.WithLabelValues("trusts", "create", OutcomeOK))
	baseConflict := testutil.ToFloat64(repoOps.WithLabelValues("trusts", "create", OutcomeConflict))

	RecordOperation("trusts", "create", OutcomeOK, 2*time.Millisecond)
	RecordOperation("trusts", "create", OutcomeConflict, time.Millisecond)
	RecordOperation("trusts", "create", OutcomeOK, time.Millisecond)

	if got := testutil.ToFloat64(repoOps.WithLabelValues("trusts", "create", OutcomeOK)); got != baseOK+2 {
		t.Fatalf("ok count = %v; want %v", got, baseOK+2)
	}
	if got := testutil.ToFloat64(repoOps.WithLabelValues("trusts", "create", OutcomeConflict)); got != baseConflict+1 {
		t.Fatalf("conflict count = %v; want %v", got, baseConflict+1)
	}
}

func TestRecordOperation_ObservesLatency(t *testing.T) {
	RecordOperation("quotes", "create", OutcomeOK, 10*time.Millisecond)

	if c := testutil.CollectAndCount(repoLat, "repository_operation_duration_seconds"); c < 1 {
		t.Fatalf("expected at least one latency series, got %d", c)
	}
}

func TestObserveLockWait(t *testing.T) {
	ObserveLockWait(3 * time.Millisecond)
	if c := testutil.CollectAndCount(lockWait); c != 1 {
		t.Fatalf("expected one lock wait series, got %d", c)
	}
}
