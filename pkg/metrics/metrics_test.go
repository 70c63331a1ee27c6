package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRESTStep(t *testing.T) {
	before := testutil.ToFloat64(restSteps.WithLabelValues("get", "success"))
	ObserveRESTStep("get", "success", 10*time.Millisecond)
	after := testutil.ToFloat64(restSteps.WithLabelValues("get", "success"))
	if after-before != 1 {
		t.Errorf("expected counter to grow by 1, got %v -> %v", before, after)
	}
}

func TestObserveProcess(t *testing.T) {
	before := testutil.ToFloat64(processExitCodes.WithLabelValues("blocking", "3"))
	ObserveProcessStart("blocking")
	ObserveProcessExit("blocking", 3)
	if got := testutil.ToFloat64(processExitCodes.WithLabelValues("blocking", "3")); got-before != 1 {
		t.Errorf("expected exit code counter to grow by 1, got %v", got-before)
	}
}

func TestHandler(t *testing.T) {
	ObserveOutputLine()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "skillet_process_output_lines_total") {
		t.Error("expected output line counter in exposition")
	}
}
