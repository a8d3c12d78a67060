package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pfrederiksen/camp-sessions/internal/logger"
	"github.com/pfrederiksen/camp-sessions/internal/session"
	"github.com/pfrederiksen/camp-sessions/internal/telemetry"
)

// Fetcher retrieves and extracts the session plan at a URL
type Fetcher interface {
	FetchPlan(ctx context.Context, url string) (*session.Plan, error)
}

// CredentialLoader returns the current room credentials; failures yield an empty map
type CredentialLoader interface {
	Load(ctx context.Context) session.Credentials
}

// SourceFunc picks the session plan URL that is active at now.
// ok is false when no conference day is active.
type SourceFunc func(now time.Time) (url string, ok bool)

// StaticSource always selects url
func StaticSource(url string) SourceFunc {
	return func(time.Time) (string, bool) {
		return url, url != ""
	}
}

// Result describes the outcome of a Refresh
type Result string

const (
	ResultUpdated Result = telemetry.ResultUpdated
	ResultCleared Result = telemetry.ResultCleared
	ResultFailed  Result = telemetry.ResultFailed
	ResultEmpty   Result = telemetry.ResultEmpty
)

// Store holds the current schedule snapshot
type Store struct {
	fetcher Fetcher
	source  SourceFunc
	loader  CredentialLoader
	now     func() time.Time
	log     *logger.Logger

	// writeMu serializes Refresh and RefreshCredentials; readers never take it
	writeMu     sync.Mutex
	plan        atomic.Pointer[session.Plan]
	credentials atomic.Pointer[session.Credentials]
}

// Option configures a Store
type Option func(*Store)

// WithCredentialLoader sets the source of room credentials
func WithCredentialLoader(l CredentialLoader) Option {
	return func(s *Store) {
		s.loader = l
	}
}

// WithClock replaces time.Now, used by NowAndNext and source selection
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger used for absorbed failures
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithPlan seeds the store with an initial snapshot
func WithPlan(p *session.Plan) Option {
	return func(s *Store) {
		if p != nil {
			s.plan.Store(p)
		}
	}
}

// New creates a Store with an empty snapshot
func New(fetcher Fetcher, source SourceFunc, opts ...Option) *Store {
	s := &Store{
		fetcher: fetcher,
		source:  source,
		now:     time.Now,
		log:     logger.Default().With(logger.Fields{"component": "schedule"}),
	}
	s.plan.Store(session.NewPlan())
	empty := session.Credentials{}
	s.credentials.Store(&empty)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan returns the current snapshot. Callers must treat it as read-only.
func (s *Store) Plan() *session.Plan {
	return s.plan.Load()
}

// Credentials returns the current credential map. Callers must treat it as read-only.
func (s *Store) Credentials() session.Credentials {
	return *s.credentials.Load()
}

// Credential looks up the conferencing credential of a room, ignoring case
func (s *Store) Credential(room string) (session.Credential, bool) {
	return s.Credentials().Lookup(room)
}

// Refresh re-scrapes the active source and swaps in the result.
//
// Fetch and extraction failures, and extractions without any time slot, leave the
// current snapshot untouched. When the source reports no active URL the snapshot is
// replaced by an empty plan. Failures are logged, never returned.
func (s *Store) Refresh(ctx context.Context) Result {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	start := time.Now()
	result := s.refresh(ctx)
	telemetry.ObserveRefresh(string(result), time.Since(start))

	current := s.plan.Load()
	telemetry.SetSnapshotSize(len(current.ByTime), current.SessionCount())
	return result
}

func (s *Store) refresh(ctx context.Context) Result {
	url, ok := s.source(s.now())
	if !ok {
		s.log.Info("No active session plan, clearing schedule", nil)
		s.plan.Store(session.NewPlan())
		return ResultCleared
	}

	plan, err := s.fetcher.FetchPlan(ctx, url)
	if err != nil {
		s.log.Error("Session plan refresh failed, keeping previous snapshot", logger.Fields{
			"url": url,
		}, err)
		return ResultFailed
	}

	if plan.IsEmpty() {
		s.log.Warn("Session plan has no time slots, keeping previous snapshot", logger.Fields{
			"url": url,
		})
		return ResultEmpty
	}

	s.plan.Store(plan.WithCredentials(s.Credentials()))
	s.log.Info("Session plan refreshed", logger.Fields{
		"url":      url,
		"rooms":    len(plan.Rooms),
		"slots":    len(plan.ByTime),
		"sessions": plan.SessionCount(),
	})
	return ResultUpdated
}

// RefreshCredentials reloads the credential map and re-attaches it to the current
// snapshot. Without a configured loader it is a no-op.
func (s *Store) RefreshCredentials(ctx context.Context) {
	if s.loader == nil {
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	creds := s.loader.Load(ctx)
	if creds == nil {
		creds = session.Credentials{}
	}
	s.credentials.Store(&creds)
	s.plan.Store(s.plan.Load().WithCredentials(creds))
}
