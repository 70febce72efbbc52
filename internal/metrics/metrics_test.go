// ABOUTME: Tests for the metrics helpers.
// ABOUTME: Reads counter and histogram values back with prometheus testutil.
package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveQueryCountsErrors(t *testing.T) {
	before := testutil.ToFloat64(StoreErrorsTotal.WithLabelValues("test_table", "find"))

	ObserveQuery("test_table", "find", time.Now(), nil)
	ObserveQuery("test_table", "find", time.Now(), errors.New("boom"))

	after := testutil.ToFloat64(StoreErrorsTotal.WithLabelValues("test_table", "find"))
	assert.Equal(t, before+1, after)
}

func TestObserveMCPResultLabel(t *testing.T) {
	okBefore := testutil.ToFloat64(MCPRequestsTotal.WithLabelValues("ep", "tools/call", "ok"))
	errBefore := testutil.ToFloat64(MCPRequestsTotal.WithLabelValues("ep", "tools/call", "error"))

	ObserveMCP("ep", "tools/call", time.Now(), nil)
	ObserveMCP("ep", "tools/call", time.Now(), errors.New("nope"))
	ObserveMCP("ep", "tools/call", time.Now(), errors.New("nope"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(MCPRequestsTotal.WithLabelValues("ep", "tools/call", "ok")))
	assert.Equal(t, errBefore+2, testutil.ToFloat64(MCPRequestsTotal.WithLabelValues("ep", "tools/call", "error")))
}
