// Package camp is the query facade the bot and the CLI hold on to.
//
// A Camp wraps the schedule store with the public read API, the refresh entry points
// and the advice passthrough used by the help command.
package camp

import (
	"context"

	"github.com/pfrederiksen/camp-sessions/internal/advice"
	"github.com/pfrederiksen/camp-sessions/internal/config"
	"github.com/pfrederiksen/camp-sessions/internal/credentials"
	"github.com/pfrederiksen/camp-sessions/internal/schedule"
	"github.com/pfrederiksen/camp-sessions/internal/scraper"
	"github.com/pfrederiksen/camp-sessions/internal/session"
)

// AdviceSource returns a random piece of advice
type AdviceSource interface {
	Random(ctx context.Context) (string, error)
}

// Camp answers schedule queries
type Camp struct {
	store  *schedule.Store
	advice AdviceSource
}

// New wraps an existing store
func New(store *schedule.Store, adv AdviceSource) *Camp {
	return &Camp{store: store, advice: adv}
}

// FromConfig wires the scraper, credentials client and advice client from cfg
func FromConfig(cfg *config.Config, opts ...schedule.Option) *Camp {
	if cfg.CredentialsURL != "" {
		opts = append([]schedule.Option{
			schedule.WithCredentialLoader(credentials.NewClient(cfg.CredentialsURL)),
		}, opts...)
	}
	store := schedule.New(scraper.New(), cfg.Sources.ForDay, opts...)
	return New(store, advice.NewClient(cfg.AdviceURL))
}

// Start loads credentials and the first snapshot
func (c *Camp) Start(ctx context.Context) schedule.Result {
	c.store.RefreshCredentials(ctx)
	return c.store.Refresh(ctx)
}

// Refresh re-scrapes the schedule; failures keep the previous snapshot
func (c *Camp) Refresh(ctx context.Context) schedule.Result {
	return c.store.Refresh(ctx)
}

// RefreshCredentials reloads the room credentials
func (c *Camp) RefreshCredentials(ctx context.Context) {
	c.store.RefreshCredentials(ctx)
}

// SessionsAt lists (title, room) for the sessions of a time slot
func (c *Camp) SessionsAt(label string) []schedule.TitleRoom {
	return c.store.SessionsAt(label)
}

// SessionsIn lists (time, title) for the sessions in a room
func (c *Camp) SessionsIn(room string) []schedule.TimeTitle {
	return c.store.SessionsIn(room)
}

// TimeSlots lists all time-slot labels, sorted
func (c *Camp) TimeSlots() []string {
	return c.store.TimeSlots()
}

// Rooms lists the rooms that have sessions, sorted
func (c *Camp) Rooms() []string {
	return c.store.Rooms()
}

// IsRoom reports whether name is a known room rather than a time label
func (c *Camp) IsRoom(name string) bool {
	return c.store.HasRoom(name)
}

// NowAndNext resolves the current and the upcoming time slot
func (c *Camp) NowAndNext() (schedule.NowNext, error) {
	return c.store.NowAndNext()
}

// RoomCredential returns a room's conferencing URL and access code
func (c *Camp) RoomCredential(room string) (session.Credential, bool) {
	return c.store.Credential(room)
}

// Plan returns the current snapshot
func (c *Camp) Plan() *session.Plan {
	return c.store.Plan()
}

// Advice returns a random piece of advice for the help command
func (c *Camp) Advice(ctx context.Context) (string, error) {
	if c.advice == nil {
		return "", advice.ErrNoAdvice
	}
	ctx, cancel := context.WithTimeout(ctx, advice.Timeout)
	defer cancel()
	return c.advice.Random(ctx)
}
