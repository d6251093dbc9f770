// Package api implements the craftbook LogicService gRPC API.
package api

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/solatis/craftbook/internal/core/metrics"
	"github.com/solatis/craftbook/internal/dictionary"
	"github.com/solatis/craftbook/internal/logic"
	"github.com/solatis/craftbook/internal/parse"
	"github.com/solatis/craftbook/internal/render"
	"github.com/solatis/craftbook/internal/types"
)

// Grammar labels used in parse metrics.
const (
	GrammarTextual        = "textual"
	GrammarNumericTextual = "numeric-textual"
)

// LookupFunc returns the dictionary to use for one request.
// A nil result means no dictionary is configured.
type LookupFunc func(ctx context.Context) dictionary.Lookup

// StaticLookup serves every request from l.
func StaticLookup(l dictionary.Lookup) LookupFunc {
	return func(context.Context) dictionary.Lookup { return l }
}

// LogicService implements LogicServer.
// Thin orchestration over the parse, logic, render and dictionary packages.
type LogicService struct {
	render  render.Config
	lookup  LookupFunc
	metrics *metrics.Metrics
	log     *zap.Logger
	maxLen  int
}

var _ LogicServer = (*LogicService)(nil)

// Options configures a LogicService. Render is required; the rest are optional.
type Options struct {
	Render           render.Config
	Lookup           LookupFunc
	Metrics          *metrics.Metrics
	Log              *zap.Logger
	MaxExpressionLen int
}

// NewLogicService creates a service instance.
func NewLogicService(opts Options) (*LogicService, error) {
	if opts.Render.And == "" || opts.Render.Or == "" {
		return nil, fmt.Errorf("render connectives cannot be empty")
	}
	if opts.Lookup == nil {
		opts.Lookup = StaticLookup(nil)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &LogicService{
		render:  opts.Render,
		lookup:  opts.Lookup,
		metrics: opts.Metrics,
		log:     opts.Log,
		maxLen:  opts.MaxExpressionLen,
	}, nil
}

// Render parses a textual expression and renders its canonical form.
func (s *LogicService) Render(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	defer s.metrics.ObserveRequest("Render", time.Now())

	chain, err := s.parseTextual(req)
	if err != nil {
		return nil, err
	}
	out := render.Tree(logic.ToTree(chain), s.render)
	s.metrics.IncrementRender()
	return wrapperspb.String(out), nil
}

// Tree parses a textual expression and returns its canonical tree.
func (s *LogicService) Tree(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Value, error) {
	defer s.metrics.ObserveRequest("Tree", time.Now())

	chain, err := s.parseTextual(req)
	if err != nil {
		return nil, err
	}
	return TreeValue(logic.ToTree(chain)), nil
}

// Translate parses a numeric-key textual expression, replaces every key with
// its item name and renders the result.
func (s *LogicService) Translate(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	defer s.metrics.ObserveRequest("Translate", time.Now())

	if err := s.checkLen(req); err != nil {
		return nil, err
	}
	chain, err := parse.NumericTextChain(req.GetValue())
	s.metrics.ObserveParse(GrammarNumericTextual, err)
	if err != nil {
		return nil, toStatus(err)
	}

	lookup := s.lookup(ctx)
	if lookup == nil {
		return nil, toStatus(ErrNoDictionary)
	}
	named, err := logic.MapChain(chain, types.MeaningItem, dictionary.ToNames(lookup))
	if err != nil {
		s.metrics.IncrementLookupFailure(types.MeaningItem)
		s.log.Debug("translate failed", zap.Error(err))
		return nil, toStatus(err)
	}

	out := render.Tree(logic.ToTree(named), s.render)
	s.metrics.IncrementRender()
	return wrapperspb.String(out), nil
}

func (s *LogicService) parseTextual(req *wrapperspb.StringValue) (logic.Chain[string], error) {
	if err := s.checkLen(req); err != nil {
		return logic.Chain[string]{}, err
	}
	chain, err := parse.TextChain(req.GetValue())
	s.metrics.ObserveParse(GrammarTextual, err)
	if err != nil {
		return logic.Chain[string]{}, toStatus(err)
	}
	return chain, nil
}

func (s *LogicService) checkLen(req *wrapperspb.StringValue) error {
	if s.maxLen > 0 && len(req.GetValue()) > s.maxLen {
		return status.Error(codes.InvalidArgument, fmt.Sprintf("expression exceeds maximum of %d bytes", s.maxLen))
	}
	return nil
}
