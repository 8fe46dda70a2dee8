package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordEventRecorded(t *testing.T) {
	before := testutil.ToFloat64(eventsRecordedCounter.WithLabelValues("weight.logged"))
	RecordEventRecorded("weight.logged")
	after := testutil.ToFloat64(eventsRecordedCounter.WithLabelValues("weight.logged"))
	if after != before+1 {
		t.Fatalf("expected counter to increase by one, got %v -> %v", before, after)
	}
}

func TestRecordWeightLoggedIgnoresZero(t *testing.T) {
	ts := time.Unix(1_700_000_000, 0)
	RecordWeightLogged(ts)
	RecordWeightLogged(time.Time{})
	if got := testutil.ToFloat64(weightLoggedGauge); got != float64(ts.Unix()) {
		t.Fatalf("expected gauge %d, got %v", ts.Unix(), got)
	}
}

func TestObserveJobLabelsOutcome(t *testing.T) {
	ObserveJob("finalize", time.Now(), errors.New("boom"))
	if n := testutil.CollectAndCount(jobDuration, "habitkick_scheduler_job_duration_seconds"); n == 0 {
		t.Fatal("expected job histogram samples")
	}
}
