// Package matching runs ranking requests end to end: it scores the
// donations, then archives, records and announces the resulting run.
package matching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medmatch/medmatch/internal/archive"
	"github.com/medmatch/medmatch/internal/events"
	"github.com/medmatch/medmatch/internal/history"
	"github.com/medmatch/medmatch/internal/observability"
	"github.com/medmatch/medmatch/pkg/donation"
	"github.com/medmatch/medmatch/pkg/scoring"
)

var (
	// ErrNotFound is returned when a run is not archived.
	ErrNotFound = errors.New("run not found")
	// ErrInvalidRunID is returned by GetRun for malformed run IDs.
	ErrInvalidRunID = errors.New("invalid run id")
	// ErrHistoryDisabled is returned by ListRuns without a history store.
	ErrHistoryDisabled = errors.New("run history is not configured")
)

// DefaultSideEffectTimeout bounds each archive, history and event write of
// a run.
const DefaultSideEffectTimeout = 5 * time.Second

// Ranker abstracts the scoring engine so the service does not depend on a
// concrete implementation.
type Ranker interface {
	Rank(p donation.Profile, donations []donation.Record) []scoring.RankedResult
}

// HistoryStore records and lists run summaries.
type HistoryStore interface {
	RecordRun(ctx context.Context, r history.Run) error
	ListRuns(ctx context.Context, limit int) ([]history.Run, error)
	Ping(ctx context.Context) error
}

// Run is one ranked request together with its results.
type Run struct {
	ID        string                 `json:"run_id"`
	CreatedAt time.Time              `json:"created_at"`
	Medicine  string                 `json:"medicine"`
	Location  string                 `json:"location"`
	Matches   []scoring.RankedResult `json:"matches"`
	Summary   scoring.Summary        `json:"summary"`
}

// Service orchestrates a ranking run and its side effects. Every
// collaborator except the ranker is optional.
type Service struct {
	ranker  Ranker
	archive archive.Store
	history HistoryStore
	events  events.Publisher
	metrics *observability.Metrics
	logger  *slog.Logger
	timeout time.Duration
	newID   func() string
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithArchive stores the full JSON of every run.
func WithArchive(s archive.Store) Option { return func(svc *Service) { svc.archive = s } }

// WithHistory records a summary row for every run.
func WithHistory(h HistoryStore) Option { return func(svc *Service) { svc.history = h } }

// WithEvents publishes a match.ranked event for every run.
func WithEvents(p events.Publisher) Option { return func(svc *Service) { svc.events = p } }

// WithMetrics observes run counters and durations.
func WithMetrics(m *observability.Metrics) Option { return func(svc *Service) { svc.metrics = m } }

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(svc *Service) { svc.logger = l } }

// WithSideEffectTimeout bounds each side effect of a run. Non-positive
// values keep the default.
func WithSideEffectTimeout(d time.Duration) Option {
	return func(svc *Service) {
		if d > 0 {
			svc.timeout = d
		}
	}
}

// NewService creates a new matching Service.
func NewService(ranker Ranker, opts ...Option) *Service {
	s := &Service{
		ranker:  ranker,
		logger:  slog.Default(),
		timeout: DefaultSideEffectTimeout,
		newID:   func() string { return uuid.New().String() },
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rank scores and orders the donations of req. Side effect failures are
// logged and counted but never fail the run.
func (s *Service) Rank(ctx context.Context, req *donation.MatchRequest) (*Run, error) {
	if req == nil {
		return nil, errors.New("nil match request")
	}

	start := time.Now()
	matches := s.ranker.Rank(req.Profile, req.Donations)
	elapsed := time.Since(start)

	run := &Run{
		ID:        s.newID(),
		CreatedAt: s.now().UTC(),
		Medicine:  req.Profile.MedicineRequest.Name.Text(),
		Location:  req.Profile.Location.Text(),
		Matches:   matches,
		Summary:   scoring.Summarize(matches),
	}

	s.logger.InfoContext(ctx, "ranked donations",
		"run_id", run.ID,
		"medicine", run.Medicine,
		"donations", run.Summary.Total,
		"recommended", run.Summary.Recommended,
		"flagged", run.Summary.Flagged,
		"duration", elapsed,
	)

	s.observe(run, elapsed)
	s.archiveRun(ctx, run)
	s.recordRun(ctx, run)
	s.publishRun(ctx, run)

	return run, nil
}

// GetRun loads an archived run.
func (s *Service) GetRun(ctx context.Context, runID string) (*Run, error) {
	if s.archive == nil {
		return nil, ErrNotFound
	}

	data, err := s.archive.GetRun(ctx, runID)
	if errors.Is(err, archive.ErrNotFound) {
		return nil, ErrNotFound
	}
	if errors.Is(err, archive.ErrInvalidRunID) {
		return nil, ErrInvalidRunID
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", runID, err)
	}
	return &run, nil
}

// ListRuns returns the most recent run summaries, newest first.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]history.Run, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.ListRuns(ctx, limit)
}

// HistoryEnabled reports whether run history is configured.
func (s *Service) HistoryEnabled() bool { return s.history != nil }

// Ping checks the history database when one is configured.
func (s *Service) Ping(ctx context.Context) error {
	if s.history == nil {
		return nil
	}
	return s.history.Ping(ctx)
}

func (s *Service) observe(run *Run, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RunsTotal.Inc()
	s.metrics.DonationsScored.Add(float64(run.Summary.Total))
	s.metrics.RecommendedTotal.Add(float64(run.Summary.Recommended))
	s.metrics.FlaggedTotal.Add(float64(run.Summary.Flagged))
	s.metrics.RankDuration.Observe(elapsed.Seconds())
}

func (s *Service) archiveRun(ctx context.Context, run *Run) {
	if s.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := json.Marshal(run)
	if err == nil {
		err = s.archive.PutRun(ctx, run.ID, data)
	}
	if err != nil {
		s.sideEffectFailed(ctx, "archive", run.ID, err)
	}
}

func (s *Service) recordRun(ctx context.Context, run *Run) {
	if s.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.history.RecordRun(ctx, history.Run{
		ID:               run.ID,
		Medicine:         run.Medicine,
		Location:         run.Location,
		DonationCount:    run.Summary.Total,
		RecommendedCount: run.Summary.Recommended,
		FlaggedCount:     run.Summary.Flagged,
		TopMatchScore:    run.Summary.TopMatchScore,
		CreatedAt:        run.CreatedAt,
	})
	if err != nil {
		s.sideEffectFailed(ctx, "history", run.ID, err)
	}
}

func (s *Service) publishRun(ctx context.Context, run *Run) {
	if s.events == nil {
		return
	}
	e := events.NewMatchRanked(run.ID)
	e.Medicine = run.Medicine
	e.Location = run.Location
	e.DonationCount = run.Summary.Total
	e.RecommendedCount = run.Summary.Recommended
	e.FlaggedCount = run.Summary.Flagged
	e.TopMatchScore = run.Summary.TopMatchScore
	if len(run.Matches) > 0 {
		e.TopResultID = run.Matches[0].ID.Text()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.events.Publish(ctx, e); err != nil {
		s.sideEffectFailed(ctx, "events", run.ID, err)
	}
}

func (s *Service) sideEffectFailed(ctx context.Context, effect, runID string, err error) {
	s.logger.WarnContext(ctx, "run side effect failed", "effect", effect, "run_id", runID, "error", err)
	if s.metrics != nil {
		s.metrics.SideEffectFailures.WithLabelValues(effect).Inc()
	}
}
