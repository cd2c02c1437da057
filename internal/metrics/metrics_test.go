package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAreaResolvedIncrementsOutcome(t *testing.T) {
	before := testutil.ToFloat64(areaResolutions.WithLabelValues("resolved"))
	AreaResolved("resolved")
	after := testutil.ToFloat64(areaResolutions.WithLabelValues("resolved"))
	if after-before != 1 {
		t.Errorf("resolved: got delta %f, want 1", after-before)
	}
}

func TestImportRecordSplitsResults(t *testing.T) {
	okBefore := testutil.ToFloat64(importRecords.WithLabelValues("area/info", "imported"))
	failBefore := testutil.ToFloat64(importRecords.WithLabelValues("area/info", "failed"))

	ImportRecord("area/info", true)
	ImportRecord("area/info", false)
	ImportRecord("area/info", false)

	if got := testutil.ToFloat64(importRecords.WithLabelValues("area/info", "imported")) - okBefore; got != 1 {
		t.Errorf("imported: got delta %f, want 1", got)
	}
	if got := testutil.ToFloat64(importRecords.WithLabelValues("area/info", "failed")) - failBefore; got != 2 {
		t.Errorf("failed: got delta %f, want 2", got)
	}
}

func TestSetHoldGeometryEntries(t *testing.T) {
	SetHoldGeometryEntries(42)
	if got := testutil.ToFloat64(holdGeometryEntries); got != 42 {
		t.Errorf("entries: got %f, want 42", got)
	}
}
