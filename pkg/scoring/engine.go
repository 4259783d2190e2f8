package scoring

import (
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/medmatch/medmatch/pkg/donation"
)

// Engine scores every donation of a request and orders the results.
// It keeps no state between calls to Rank.
type Engine struct {
	fraud              *FraudScorer
	match              *MatchScorer
	recommendThreshold int
	now                func() time.Time
	workers            int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to determine today's date.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithWorkers scores up to n donations concurrently. Output is identical to
// the sequential path.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithRecommendThreshold sets the minimum match score for a recommendation.
func WithRecommendThreshold(threshold int) Option {
	return func(e *Engine) { e.recommendThreshold = threshold }
}

// NewEngine creates an engine from explicit scorers.
func NewEngine(fraud *FraudScorer, match *MatchScorer, opts ...Option) *Engine {
	e := &Engine{
		fraud:              fraud,
		match:              match,
		recommendThreshold: Defaults().RecommendThreshold,
		now:                time.Now,
		workers:            1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewEngineFromWeights creates an engine with the default checks and bands
// parameterized by w.
func NewEngineFromWeights(w Weights, opts ...Option) *Engine {
	opts = append([]Option{WithRecommendThreshold(w.RecommendThreshold)}, opts...)
	return NewEngine(
		NewFraudScorer(DefaultFraudChecks(w)...),
		NewMatchScorer(DefaultMatchBands(w)...),
		opts...,
	)
}

// DefaultEngine creates an engine with the default weights.
func DefaultEngine(opts ...Option) *Engine {
	return NewEngineFromWeights(Defaults(), opts...)
}

// Rank builds one RankedResult per donation and orders them: recommended
// first, then by descending match score, then by ascending fraud score.
// Donations with equal keys keep their input order. The result is never
// nil.
func (e *Engine) Rank(p donation.Profile, donations []donation.Record) []RankedResult {
	today := calendarDay(e.now())
	results := make([]RankedResult, len(donations))

	if e.workers > 1 && len(donations) > 1 {
		var g errgroup.Group
		g.SetLimit(e.workers)
		for i := range donations {
			g.Go(func() error {
				results[i] = e.build(p, donations[i], today)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, d := range donations {
			results[i] = e.build(p, d, today)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return RanksBefore(results[i], results[j])
	})

	return results
}

// RanksBefore reports whether a is displayed before b.
func RanksBefore(a, b RankedResult) bool {
	if a.Recommended != b.Recommended {
		return a.Recommended
	}
	if a.MatchScore != b.MatchScore {
		return a.MatchScore > b.MatchScore
	}
	return a.FraudScore < b.FraudScore
}

// build scores one donation and applies the output defaults.
func (e *Engine) build(p donation.Profile, d donation.Record, today time.Time) RankedResult {
	fa := e.fraud.AssessAt(d, today)
	matchScore := e.match.AssessAt(p, d, today).DisplayScore()

	return RankedResult{
		ID:            d.ID,
		MedicineName:  d.MedicineName.Or(DefaultMedicineName),
		Quantity:      d.Quantity.Or(DefaultQuantity),
		ExpiryDate:    d.ExpiryDate.Or(emptyText),
		DonorID:       d.DonorID.Or(emptyText),
		DonorLocation: d.Location.Or(emptyText),
		Status:        d.Status.Or(DefaultStatus),
		FraudScore:    fa.Score,
		FraudIssues:   fa.Issues,
		MatchScore:    matchScore,
		Recommended:   matchScore >= e.recommendThreshold,
	}
}
