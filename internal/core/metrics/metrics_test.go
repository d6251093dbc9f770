package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/solatis/craftbook/internal/types"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveParse("textual", nil)
	m.ObserveParse("textual", nil)
	m.ObserveParse("textual", errors.New("bad"))
	m.IncrementRender()
	m.IncrementLookupFailure(types.MeaningItem)

	require.Equal(t, 2.0, testutil.ToFloat64(m.ParseTotal.WithLabelValues("textual", ResultOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ParseTotal.WithLabelValues("textual", ResultError)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RenderTotal))
	require.Equal(t, 1.0, testutil.ToFloat64(m.LookupFailuresTotal.WithLabelValues("item")))
	require.Zero(t, testutil.ToFloat64(m.LookupFailuresTotal.WithLabelValues("param")))
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.IncrementRender()
	require.Equal(t, 1.0, testutil.ToFloat64(a.RenderTotal))
	require.Zero(t, testutil.ToFloat64(b.RenderTotal))
}

func TestHandler(t *testing.T) {
	m := New()
	m.IncrementRender()
	m.ObserveRequest("Render", time.Now())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "craftbook_render_total 1"))
	require.True(t, strings.Contains(string(body), `craftbook_request_duration_seconds_count{method="Render"} 1`))
}
