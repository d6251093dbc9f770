package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/solatis/craftbook/internal/core/db"
	"github.com/solatis/craftbook/internal/core/metrics"
	"github.com/solatis/craftbook/internal/dictionary"
	"github.com/solatis/craftbook/internal/logic"
	"github.com/solatis/craftbook/internal/render"
	"github.com/solatis/craftbook/internal/types"
)

func newService(t *testing.T, lookup dictionary.Lookup) (*LogicService, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	svc, err := NewLogicService(Options{
		Render:           render.Default(),
		Lookup:           StaticLookup(lookup),
		Metrics:          m,
		MaxExpressionLen: 64,
	})
	require.NoError(t, err)
	return svc, m
}

func itemTable(t *testing.T) *dictionary.Table {
	t.Helper()
	table := dictionary.NewTable()
	require.NoError(t, table.AddAll(types.MeaningItem, []dictionary.Entry{
		{ID: 125, Name: "PID_SPIRIT"},
		{ID: 284, Name: "PID_MEAT_JERKY"},
		{ID: 1440, Name: "PID_RAD_MEAT"},
	}))
	return table
}

func requireCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "not a status error: %v", err)
	require.Equal(t, want, st.Code(), st.Message())
}

func TestNewLogicService_RequiresConnectives(t *testing.T) {
	_, err := NewLogicService(Options{})
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	svc, m := newService(t, nil)
	ctx := context.Background()

	tests := []struct {
		in, want string
	}{
		{"SK_REPAIR 1", "SK_REPAIR: 1"},
		{"A 1 | B 2 & C 3", "(A: 1 or B: 2) and C: 3"},
		{"A 1 & B 2 | C 3 | D 4", "A: 1 and (B: 2 or C: 3 or D: 4)"},
		{"A 1 | B 2 | C 3", "A: 1 or B: 2 or C: 3"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out, err := svc.Render(ctx, wrapperspb.String(tt.in))
			require.NoError(t, err)
			require.Equal(t, tt.want, out.GetValue())
		})
	}
	require.Equal(t, float64(len(tests)), testutil.ToFloat64(m.RenderTotal))
	require.Equal(t, float64(len(tests)), testutil.ToFloat64(m.ParseTotal.WithLabelValues(GrammarTextual, "ok")))
}

func TestRender_InvalidArgument(t *testing.T) {
	svc, m := newService(t, nil)
	ctx := context.Background()

	for _, in := range []string{"", "A", "A 1 &", "A x", "A 1 B 2"} {
		t.Run(fmt.Sprintf("%q", in), func(t *testing.T) {
			_, err := svc.Render(ctx, wrapperspb.String(in))
			requireCode(t, err, codes.InvalidArgument)
		})
	}
	require.Equal(t, 5.0, testutil.ToFloat64(m.ParseTotal.WithLabelValues(GrammarTextual, "error")))
	require.Zero(t, testutil.ToFloat64(m.RenderTotal))
}

func TestRender_TooLong(t *testing.T) {
	svc, _ := newService(t, nil)
	long := "A 1"
	for len(long) <= 64 {
		long += " & A 1"
	}
	_, err := svc.Render(context.Background(), wrapperspb.String(long))
	requireCode(t, err, codes.InvalidArgument)
}

func TestTree(t *testing.T) {
	svc, _ := newService(t, nil)

	out, err := svc.Tree(context.Background(), wrapperspb.String("A 1 | B 2 & C 3"))
	require.NoError(t, err)

	want := map[string]any{
		"and": []any{
			map[string]any{"or": []any{
				map[string]any{"key": "A", "value": 1.0},
				map[string]any{"key": "B", "value": 2.0},
			}},
			map[string]any{"key": "C", "value": 3.0},
		},
	}
	require.Equal(t, want, out.GetStructValue().AsMap())
}

func TestTreeValue_NumericKeys(t *testing.T) {
	tree := logic.ToTree(logic.Single[uint32](284, 1).And(125, 2))
	got := TreeValue(tree).GetStructValue().AsMap()
	want := map[string]any{
		"and": []any{
			map[string]any{"key": 284.0, "value": 1.0},
			map[string]any{"key": 125.0, "value": 2.0},
		},
	}
	require.Equal(t, want, got)

	leaf := TreeValue(logic.ToTree(logic.Single("A", 7))).GetStructValue().AsMap()
	require.Equal(t, map[string]any{"key": "A", "value": 7.0}, leaf)
}

func TestTranslate(t *testing.T) {
	svc, m := newService(t, itemTable(t))
	ctx := context.Background()

	out, err := svc.Translate(ctx, wrapperspb.String("1440 1 & 125 1 | 284 2"))
	require.NoError(t, err)
	require.Equal(t, "PID_RAD_MEAT: 1 and (PID_SPIRIT: 1 or PID_MEAT_JERKY: 2)", out.GetValue())

	_, err = svc.Translate(ctx, wrapperspb.String("1440 1 & 9 1"))
	requireCode(t, err, codes.NotFound)
	require.Equal(t, 1.0, testutil.ToFloat64(m.LookupFailuresTotal.WithLabelValues("item")))

	_, err = svc.Translate(ctx, wrapperspb.String("PID_SPIRIT 1"))
	requireCode(t, err, codes.InvalidArgument)
	require.Equal(t, 1.0, testutil.ToFloat64(m.ParseTotal.WithLabelValues(GrammarNumericTextual, "error")))
}

func TestTranslate_NoDictionary(t *testing.T) {
	svc, _ := newService(t, nil)
	_, err := svc.Translate(context.Background(), wrapperspb.String("1440 1"))
	requireCode(t, err, codes.FailedPrecondition)
}

type failingLookup struct{ err error }

func (f failingLookup) NameOf(uint32, types.Meaning) (string, error) { return "", f.err }
func (f failingLookup) IDOf(string, types.Meaning) (uint32, error)   { return 0, f.err }

func TestTranslate_StoreUnavailable(t *testing.T) {
	svc, _ := newService(t, failingLookup{err: fmt.Errorf("%w: connection refused", db.ErrUnavailable)})
	_, err := svc.Translate(context.Background(), wrapperspb.String("1440 1"))
	requireCode(t, err, codes.Unavailable)
}

func TestTranslate_LookupDeadline(t *testing.T) {
	svc, _ := newService(t, failingLookup{err: fmt.Errorf("%w: %w", db.ErrUnavailable, context.DeadlineExceeded)})
	_, err := svc.Translate(context.Background(), wrapperspb.String("1440 1"))
	requireCode(t, err, codes.DeadlineExceeded)
}

func TestTranslate_LookupCanceled(t *testing.T) {
	svc, _ := newService(t, failingLookup{err: fmt.Errorf("%w: %w", db.ErrUnavailable, context.Canceled)})
	_, err := svc.Translate(context.Background(), wrapperspb.String("1440 1"))
	requireCode(t, err, codes.Canceled)
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{types.NewParseError(0, types.KindExpectedToken, "x"), codes.InvalidArgument},
		{types.NewParseError(0, types.KindInsufficientLength, "x"), codes.InvalidArgument},
		{types.NewParseError(0, types.KindLengthMismatch, "x"), codes.InvalidArgument},
		{&types.NotFoundError{Key: "1", Meaning: types.MeaningItem}, codes.NotFound},
		{fmt.Errorf("wrapped: %w", db.ErrUnavailable), codes.Unavailable},
		{fmt.Errorf("%w: %w", db.ErrUnavailable, context.DeadlineExceeded), codes.DeadlineExceeded},
		{ErrNoDictionary, codes.FailedPrecondition},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{context.Canceled, codes.Canceled},
		{errors.New("boom"), codes.Internal},
		{status.Error(codes.AlreadyExists, "kept"), codes.AlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			requireCode(t, toStatus(tt.err), tt.want)
		})
	}
	require.NoError(t, toStatus(nil))
}
