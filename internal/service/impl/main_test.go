package impl

import (
	"os"
	"testing"

	"accountd/internal/observability/metrics"
)

func TestMain(m *testing.M) {
	metrics.MustRegister("accountd-test")
	os.Exit(m.Run())
}
