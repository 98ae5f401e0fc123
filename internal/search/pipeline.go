package search

import (
	"context"
	"errors"
	"strings"

	"github.com/AkhilKumar-Git/super-hire-ai/internal/candidate"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyQuery is returned when the pipeline is invoked with a blank query.
// It is the only error class the pipeline surfaces: every upstream failure
// degrades into fallbacks or dropped candidates instead, because partial
// results are preferred to hard failure.
var ErrEmptyQuery = errors.New("search query must not be empty")

// Config holds the pipeline knobs with documented defaults.
type Config struct {
	// MinScore is the admission threshold on the model's self-reported
	// match score. Defaults to 80.
	MinScore float64
	// MaxResults caps the number of admitted candidates. Defaults to 10.
	MaxResults int
	// Parallelism bounds concurrent document extraction. Values below 2
	// keep the source's sequential behavior.
	Parallelism int
}

func (c Config) withDefaults() Config {
	if c.MinScore <= 0 {
		c.MinScore = DefaultMinScore
	}
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	return c
}

// Pipeline wires the query parser, content retriever, profile extractor and
// admission filter into one candidate search.
type Pipeline struct {
	parser      *Parser
	retriever   Retriever
	extractor   *Extractor
	admission   Admission
	parallelism int
	logger      *zap.Logger
}

// NewPipeline assembles a search pipeline.
func NewPipeline(parser *Parser, retriever Retriever, extractor *Extractor, cfg Config, logger *zap.Logger) *Pipeline {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		parser:      parser,
		retriever:   retriever,
		extractor:   extractor,
		admission:   Admission{MinScore: cfg.MinScore, MaxResults: cfg.MaxResults},
		parallelism: cfg.Parallelism,
		logger:      logger,
	}
}

// Search runs the full pipeline for one query and returns validated,
// score-filtered candidates in retrieval order. A search that encounters
// failures at every stage still returns an empty list, not an error; the
// degraded conditions are visible in the logs only.
func (p *Pipeline) Search(ctx context.Context, query string) ([]*candidate.Candidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	criteria := p.parser.Parse(ctx, query)

	docs, err := p.retriever.Retrieve(ctx, criteria)
	if err != nil {
		p.logger.Warn("content retrieval failed, continuing with no documents", zap.Error(err))
		docs = nil
	}

	p.logger.Info("retrieved documents",
		zap.String("job_title", criteria.JobTitle),
		zap.Int("count", len(docs)),
	)

	var admitted []*candidate.Candidate
	if p.parallelism > 1 {
		admitted = p.extractParallel(ctx, docs, criteria)
	} else {
		admitted = p.extractSequential(ctx, docs, criteria)
	}

	p.logger.Info("search completed",
		zap.Int("initial", len(docs)),
		zap.Int("dropped", len(docs)-len(admitted)),
		zap.Int("left", len(admitted)),
	)

	return admitted, nil
}

// extractSequential processes documents one at a time and stops pulling
// further documents once the result cap is reached.
func (p *Pipeline) extractSequential(ctx context.Context, docs []RawDocument, criteria *Criteria) []*candidate.Candidate {
	admitted := make([]*candidate.Candidate, 0, p.admission.MaxResults)

	for _, doc := range docs {
		if p.admission.Full(len(admitted)) {
			p.logger.Debug("result cap reached, skipping remaining documents",
				zap.Int("cap", p.admission.MaxResults),
			)
			break
		}

		c := p.extractor.Extract(ctx, doc, criteria)
		if c == nil {
			continue
		}

		if !p.admission.Admit(c) {
			p.logger.Debug("candidate below admission threshold",
				zap.String("name", c.Name),
				zap.Float64("score", c.MatchScore),
				zap.Float64("threshold", p.admission.MinScore),
			)
			continue
		}

		admitted = append(admitted, c)
	}

	return admitted
}

// extractParallel fans extraction out over the bounded document set and
// re-applies admission in retrieval order, preserving the output ordering
// guarantee. The cost bound comes from the retriever limit in this mode.
func (p *Pipeline) extractParallel(ctx context.Context, docs []RawDocument, criteria *Criteria) []*candidate.Candidate {
	results := make([]*candidate.Candidate, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)

	for i, doc := range docs {
		g.Go(func() error {
			results[i] = p.extractor.Extract(gctx, doc, criteria)
			return nil
		})
	}

	// Workers never return errors; extraction failures become nil slots.
	_ = g.Wait()

	return Filter(results, p.admission.MinScore, p.admission.MaxResults)
}
