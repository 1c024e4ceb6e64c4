// Package seed holds the baseline sample records and the startup routine
// that loads them into an empty store.
package seed

import (
	"context"
	"fmt"
	"sync"

	"github.com/celerix-dev/drowsewatch/internal/records"
	"github.com/celerix-dev/drowsewatch/pkg/schema"
	"github.com/rs/zerolog"
)

// Guard records whether seeding already ran in this process.
// Create one per process and pass it to every Run call; the zero value is ready to use.
// Nothing resets it short of a restart.
type Guard struct {
	mu   sync.Mutex
	done bool
}

// Done reports whether a Run completed successfully with this guard.
func (g *Guard) Done() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.done
}

// Seeder populates an empty store with the baseline records.
type Seeder struct {
	svc     *records.Service
	users   []schema.User
	reports []schema.Report
	log     zerolog.Logger
}

func NewSeeder(svc *records.Service, users []schema.User, reports []schema.Report, log zerolog.Logger) *Seeder {
	return &Seeder{svc: svc, users: users, reports: reports, log: log}
}

// Run seeds the store if it holds no users. Calls after the first
// successful one are no-ops; concurrent calls wait for the one in progress.
func (s *Seeder) Run(ctx context.Context, g *Guard) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.done {
		return nil
	}

	s.log.Info().Msg("initializing data")

	users, err := s.svc.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("seed: list users: %w", err)
	}

	if len(users) > 0 {
		s.log.Info().Int("users", len(users)).Msg("found existing users")
		g.done = true
		return nil
	}

	s.log.Info().Msg("no users found, populating with sample data")
	for _, u := range s.users {
		if _, err := s.svc.UpsertUser(ctx, u); err != nil {
			return fmt.Errorf("seed: upsert user %s: %w", u.ID, err)
		}
	}
	// CreateReport does not persist; reports come from the service's fixed list.
	for _, r := range s.reports {
		if _, err := s.svc.CreateReport(ctx, r); err != nil {
			return fmt.Errorf("seed: create report %s: %w", r.ID, err)
		}
	}

	s.log.Info().Int("users", len(s.users)).Int("reports", len(s.reports)).Msg("sample data populated")
	g.done = true
	return nil
}
