// Package memory keeps every record in process memory. It backs tests and
// the "memory" database driver.
package memory

import (
	"context"
	"sync"

	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/repositories"
)

// Entity names passed to an InsertHook
const (
	EntityUser         = "user"
	EntityProject      = "project"
	EntityDocument     = "document"
	EntityNotification = "notification"
)

// InsertHook runs before every insert. A non-nil error aborts the insert.
type InsertHook func(entity string) error

// Option configures a Store
type Option func(*Store)

// WithInsertHook installs a hook used to inject storage faults
func WithInsertHook(hook InsertHook) Option {
	return func(s *Store) {
		s.shared.hook = hook
	}
}

type tables struct {
	users         map[string]models.User
	projects      map[string]models.Project
	documents     map[string]models.Document
	notifications map[string]models.Notification
}

func newTables() *tables {
	return &tables{
		users:         make(map[string]models.User),
		projects:      make(map[string]models.Project),
		documents:     make(map[string]models.Document),
		notifications: make(map[string]models.Notification),
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.projects {
		c.projects[k] = copyProject(v)
	}
	for k, v := range t.documents {
		c.documents[k] = v
	}
	for k, v := range t.notifications {
		c.notifications[k] = v
	}
	return c
}

type shared struct {
	mu   sync.Mutex
	data *tables
	hook InsertHook
}

// Store is an in-memory repositories.Store. A transaction holds the lock for
// its whole duration and works on a copy that replaces the live tables on commit.
type Store struct {
	shared *shared
	tx     *tables // non-nil inside a transaction
}

var _ repositories.Store = (*Store)(nil)

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{shared: &shared{data: newTables()}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// with runs fn against the tables visible to this store
func (s *Store) with(fn func(t *tables) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()
	return fn(s.shared.data)
}

func (s *Store) beforeInsert(entity string) error {
	if s.shared.hook == nil {
		return nil
	}
	return s.shared.hook(entity)
}

// Users returns the user repository
func (s *Store) Users() repositories.UserRepository { return &userRepository{s: s} }

// Projects returns the project repository
func (s *Store) Projects() repositories.ProjectRepository { return &projectRepository{s: s} }

// Documents returns the document repository
func (s *Store) Documents() repositories.DocumentRepository { return &documentRepository{s: s} }

// Notifications returns the notification repository
func (s *Store) Notifications() repositories.NotificationRepository {
	return &notificationRepository{s: s}
}

// WithTransaction runs fn on a snapshot and publishes it only if fn succeeds
func (s *Store) WithTransaction(ctx context.Context, fn repositories.TxFunc) error {
	if s.tx != nil {
		return fn(ctx, s)
	}

	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()

	txStore := &Store{shared: s.shared, tx: s.shared.data.clone()}
	if err := fn(ctx, txStore); err != nil {
		return err
	}
	s.shared.data = txStore.tx
	return nil
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error { return nil }

// Name identifies the backend
func (s *Store) Name() string { return "memory" }

// Close is a no-op
func (s *Store) Close(context.Context) error { return nil }

func copyProject(p models.Project) models.Project {
	if p.Members != nil {
		members := make([]models.Member, len(p.Members))
		copy(members, p.Members)
		p.Members = members
	}
	return p
}
