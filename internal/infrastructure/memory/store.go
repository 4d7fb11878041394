// Package memory is an in-process Record Store. It enforces the same unique
// constraints as the Postgres schema and is used by the memory storage
// driver and by tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/oksasatya/restaurant-user-service/internal/domain/entity"
	"github.com/oksasatya/restaurant-user-service/internal/domain/repository"
)

type Store struct {
	mu    sync.RWMutex
	users map[string]*entity.User
}

func NewStore() *Store {
	return &Store{users: make(map[string]*entity.User)}
}

func (s *Store) FindByID(_ context.Context, id string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u.Clone(), nil
}

func (s *Store) FindAll(_ context.Context) ([]*entity.User, error) {
	return s.filter(func(*entity.User) bool { return true }), nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return s.first(func(u *entity.User) bool { return u.Email == email })
}

func (s *Store) FindByUserIdentification(_ context.Context, identification string) (*entity.User, error) {
	return s.first(func(u *entity.User) bool { return u.UserIdentification == identification })
}

func (s *Store) FindByNameContaining(_ context.Context, term string) ([]*entity.User, error) {
	term = strings.ToLower(term)
	return s.filter(func(u *entity.User) bool {
		return strings.Contains(strings.ToLower(u.Name), term)
	}), nil
}

func (s *Store) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(s.FindByEmail(ctx, email))
}

func (s *Store) ExistsByUserIdentification(ctx context.Context, identification string) (bool, error) {
	return exists(s.FindByUserIdentification(ctx, identification))
}

func (s *Store) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usernameOwner(username) != "", nil
}

func (s *Store) CreateWithOwnedEntities(_ context.Context, u *entity.User) error {
	if u.Address == nil || u.Credentials == nil {
		return errors.New("memory: user must own an address and credentials")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; ok {
		return repository.ErrConflict
	}
	if s.violatesUnique(u, true) {
		return repository.ErrConflict
	}
	c := u.Clone()
	c.Credentials.UserID = c.ID
	s.users[u.ID] = c
	return nil
}

func (s *Store) UpdateWithAddress(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if s.violatesUnique(u, false) {
		return repository.ErrConflict
	}
	next := u.Clone()
	// credentials are not part of this write
	next.Credentials = cur.Credentials
	if next.Address == nil {
		next.Address = cur.Address
	}
	s.users[u.ID] = next
	return nil
}

func (s *Store) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *Store) FindByUsername(_ context.Context, username string) (*entity.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id := s.usernameOwner(username)
	if id == "" {
		return nil, repository.ErrNotFound
	}
	c := *s.users[id].Credentials
	return &c, nil
}

func (s *Store) Save(_ context.Context, c *entity.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[c.UserID]
	if !ok || u.Credentials == nil {
		return repository.ErrNotFound
	}
	if owner := s.usernameOwner(c.Username); owner != "" && owner != c.UserID {
		return repository.ErrConflict
	}
	cp := *c
	u.Credentials = &cp
	return nil
}

// violatesUnique reports whether u collides with another stored user.
// Callers must hold the write lock.
func (s *Store) violatesUnique(u *entity.User, withUsername bool) bool {
	for id, other := range s.users {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email || other.UserIdentification == u.UserIdentification {
			return true
		}
		if withUsername && u.Credentials != nil && other.Credentials != nil && other.Credentials.Username == u.Credentials.Username {
			return true
		}
	}
	return false
}

func (s *Store) usernameOwner(username string) string {
	for id, u := range s.users {
		if u.Credentials != nil && u.Credentials.Username == username {
			return id
		}
	}
	return ""
}

func (s *Store) first(match func(*entity.User) bool) (*entity.User, error) {
	res := s.filter(match)
	if len(res) == 0 {
		return nil, repository.ErrNotFound
	}
	return res[0], nil
}

func (s *Store) filter(match func(*entity.User) bool) []*entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.User, 0)
	for _, u := range s.users {
		if match(u) {
			out = append(out, u.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func exists(_ *entity.User, err error) (bool, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

var (
	_ repository.UserRepository        = (*Store)(nil)
	_ repository.CredentialsRepository = (*Store)(nil)
)
