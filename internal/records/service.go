// Package records is the data access layer over the record store: user
// CRUD, archive/restore moves between the two user collections, and the
// read-only report list.
package records

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/celerix-dev/drowsewatch/pkg/schema"
	"github.com/celerix-dev/drowsewatch/pkg/sdk"
	"github.com/google/uuid"
)

// ErrUserNotFound is returned by ArchiveUser and RestoreUser in strict mode.
var ErrUserNotFound = errors.New("user not found")

// Outcome tells callers what an archive or restore call actually did.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeArchived
	OutcomeRestored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeArchived:
		return "archived"
	case OutcomeRestored:
		return "restored"
	}
	return "not_found"
}

// UpsertResult is returned by UpsertUser.
type UpsertResult struct {
	User    schema.User
	Created bool
}

// ArchiveResult is returned by ArchiveUser. User is set only when Outcome is OutcomeArchived.
type ArchiveResult struct {
	Outcome Outcome
	User    schema.ArchivedUser
}

// RestoreResult is returned by RestoreUser. User is set only when Outcome is OutcomeRestored.
type RestoreResult struct {
	Outcome Outcome
	User    schema.User
}

// Service implements the data access operations.
type Service struct {
	store        sdk.RecordStore
	defaultUsers []schema.User
	reports      []schema.Report
	strict       bool
	now          func() time.Time

	// mu serialises read-modify-write cycles so archive and restore move
	// records between collections without interleaving.
	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultUsers sets the users returned while the users key has never been written.
func WithDefaultUsers(users []schema.User) Option {
	return func(s *Service) { s.defaultUsers = slices.Clone(users) }
}

// WithReports sets the fixed report list.
func WithReports(reports []schema.Report) Option {
	return func(s *Service) { s.reports = slices.Clone(reports) }
}

// WithStrictNotFound makes archive and restore of an unknown id fail with ErrUserNotFound.
func WithStrictNotFound(strict bool) Option {
	return func(s *Service) { s.strict = strict }
}

// WithClock overrides the time source used for archive stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store sdk.RecordStore, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// loadUsers must be called with s.mu held.
func (s *Service) loadUsers(ctx context.Context) ([]schema.User, error) {
	users, err := sdk.Get[[]schema.User](ctx, s.store, sdk.UsersKey)
	if errors.Is(err, sdk.ErrKeyNotFound) {
		return slices.Clone(s.defaultUsers), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

// loadArchived must be called with s.mu held.
func (s *Service) loadArchived(ctx context.Context) ([]schema.ArchivedUser, error) {
	users, err := sdk.Get[[]schema.ArchivedUser](ctx, s.store, sdk.ArchivedUsersKey)
	if errors.Is(err, sdk.ErrKeyNotFound) {
		return []schema.ArchivedUser{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load archived users: %w", err)
	}
	return users, nil
}

func (s *Service) saveUsers(ctx context.Context, users []schema.User) error {
	if users == nil {
		users = []schema.User{}
	}
	if err := sdk.Set(ctx, s.store, sdk.UsersKey, users); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

func (s *Service) saveArchived(ctx context.Context, users []schema.ArchivedUser) error {
	if users == nil {
		users = []schema.ArchivedUser{}
	}
	if err := sdk.Set(ctx, s.store, sdk.ArchivedUsersKey, users); err != nil {
		return fmt.Errorf("save archived users: %w", err)
	}
	return nil
}

// ListUsers returns the active collection, or the defaults if it was never written.
func (s *Service) ListUsers(ctx context.Context) ([]schema.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadUsers(ctx)
}

// GetUser looks up an active user by id.
func (s *Service) GetUser(ctx context.Context, id string) (schema.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return schema.User{}, false, err
	}
	i := slices.IndexFunc(users, func(u schema.User) bool { return u.ID == id })
	if i < 0 {
		return schema.User{}, false, nil
	}
	return users[i], true, nil
}

// UpsertUser replaces the user with the same id in place, or appends it.
// A user without an id gets a fresh UUID.
func (s *Service) UpsertUser(ctx context.Context, user schema.User) (UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return UpsertResult{}, err
	}

	created := false
	if i := slices.IndexFunc(users, func(u schema.User) bool { return u.ID == user.ID }); i >= 0 {
		users[i] = user
	} else {
		users = append(users, user)
		created = true
	}

	if err := s.saveUsers(ctx, users); err != nil {
		return UpsertResult{}, err
	}
	return UpsertResult{User: user, Created: created}, nil
}

// ArchiveUser moves a user from the active to the archived collection,
// stamped with the current time.
func (s *Service) ArchiveUser(ctx context.Context, id string) (ArchiveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return ArchiveResult{}, err
	}
	archived, err := s.loadArchived(ctx)
	if err != nil {
		return ArchiveResult{}, err
	}

	i := slices.IndexFunc(users, func(u schema.User) bool { return u.ID == id })
	if i < 0 {
		if s.strict {
			return ArchiveResult{}, fmt.Errorf("archive %s: %w", id, ErrUserNotFound)
		}
		return ArchiveResult{Outcome: OutcomeNotFound}, nil
	}

	entry := schema.ArchivedUser{User: users[i], ArchivedAt: s.now().UTC()}
	users = slices.Delete(users, i, i+1)
	archived = append(archived, entry)

	// Destination first: a failed second write leaves a duplicate, never a lost record.
	if err := s.saveArchived(ctx, archived); err != nil {
		return ArchiveResult{}, err
	}
	if err := s.saveUsers(ctx, users); err != nil {
		return ArchiveResult{}, err
	}
	return ArchiveResult{Outcome: OutcomeArchived, User: entry}, nil
}

// ListArchivedUsers returns the archived collection.
func (s *Service) ListArchivedUsers(ctx context.Context) ([]schema.ArchivedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadArchived(ctx)
}

// RestoreUser moves an archived user back to the end of the active collection.
func (s *Service) RestoreUser(ctx context.Context, id string) (RestoreResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return RestoreResult{}, err
	}
	archived, err := s.loadArchived(ctx)
	if err != nil {
		return RestoreResult{}, err
	}

	i := slices.IndexFunc(archived, func(a schema.ArchivedUser) bool { return a.ID == id })
	if i < 0 {
		if s.strict {
			return RestoreResult{}, fmt.Errorf("restore %s: %w", id, ErrUserNotFound)
		}
		return RestoreResult{Outcome: OutcomeNotFound}, nil
	}

	user := archived[i].Restore()
	archived = slices.Delete(archived, i, i+1)
	users = append(users, user)

	if err := s.saveUsers(ctx, users); err != nil {
		return RestoreResult{}, err
	}
	if err := s.saveArchived(ctx, archived); err != nil {
		return RestoreResult{}, err
	}
	return RestoreResult{Outcome: OutcomeRestored, User: user}, nil
}

// ListReports returns a copy of the fixed report list.
func (s *Service) ListReports(_ context.Context) ([]schema.Report, error) {
	return slices.Clone(s.reports), nil
}

// CreateReport accepts a report and echoes it back. Reports are sample
// data; the new report is not stored and will not appear in ListReports.
func (s *Service) CreateReport(_ context.Context, report schema.Report) (schema.Report, error) {
	return report, nil
}
