package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/authvault/internal/common"
	"github.com/dmitrijs2005/authvault/internal/dbx"
	"github.com/dmitrijs2005/authvault/internal/server/models"
	resettokensrepo "github.com/dmitrijs2005/authvault/internal/server/repositories/resettokens"
	usersrepo "github.com/dmitrijs2005/authvault/internal/server/repositories/users"
)

// fakeUsersRepo is an in-memory users.Repository. Mutations take a mutex, so
// it serializes per-record updates the same way the real store does.
type fakeUsersRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*models.User // keyed by ID

	failWith error // when set, every call returns this error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: make(map[string]*models.User)}
}

func (f *fakeUsersRepo) add(u *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *u
	if cp.ID == "" {
		cp.ID = fmt.Sprintf("u-%d", f.nextID)
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	f.users[cp.ID] = &cp
	return &cp
}

func (f *fakeUsersRepo) get(id string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[id]
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	for _, u := range f.users {
		if u.Email == user.Email {
			f.mu.Unlock()
			return nil, common.ErrUserExists
		}
	}
	f.mu.Unlock()
	return f.add(user), nil
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if u := f.get(id); u != nil {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) IncrementFailedLoginAttempts(ctx context.Context, id string) (int, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	u.FailedLoginAttempts++
	return u.FailedLoginAttempts, nil
}

func (f *fakeUsersRepo) ResetFailedLoginAttempts(ctx context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.FailedLoginAttempts = 0
	}
	return nil
}

func (f *fakeUsersRepo) LockAccount(ctx context.Context, id string, until time.Time) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.LockedUntil = &until
		u.FailedLoginAttempts = 0
	}
	return nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeUsersRepo) UpdateName(ctx context.Context, id string, name string) (*models.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Name = name
	cp := *u
	return &cp, nil
}

// fakeResetTokensRepo is an in-memory resettokens.Repository with the same
// at-most-once MarkUsed semantics as the Postgres implementation.
type fakeResetTokensRepo struct {
	mu     sync.Mutex
	nextID int
	tokens map[string]*models.PasswordResetToken // keyed by ID

	failWith error
}

func newFakeResetTokensRepo() *fakeResetTokensRepo {
	return &fakeResetTokensRepo{tokens: make(map[string]*models.PasswordResetToken)}
}

func (f *fakeResetTokensRepo) Create(ctx context.Context, token *models.PasswordResetToken) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	token.ID = fmt.Sprintf("rt-%d", f.nextID)
	token.CreatedAt = time.Now()
	cp := *token
	f.tokens[token.ID] = &cp
	return nil
}

func (f *fakeResetTokensRepo) Find(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rt := range f.tokens {
		if rt.Token == token {
			cp := *rt
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeResetTokensRepo) MarkUsed(ctx context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.tokens[id]
	if !ok || rt.Used {
		return common.ErrorNotFound
	}
	rt.Used = true
	return nil
}

func (f *fakeResetTokensRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

// fakeRepoManager hands out the same fakes regardless of the DBTX, which is
// enough to exercise the transactional confirm flow against sqlmock.
type fakeRepoManager struct {
	u  *fakeUsersRepo
	rt *fakeResetTokensRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) ResetTokens(db dbx.DBTX) resettokensrepo.Repository {
	return m.rt
}

// fakeQueue records enqueued notifications.
type fakeQueue struct {
	mu      sync.Mutex
	userIDs []string
	tokens  []string

	failWith error
}

func (q *fakeQueue) EnqueuePasswordReset(ctx context.Context, userID, token string) error {
	if q.failWith != nil {
		return q.failWith
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.userIDs = append(q.userIDs, userID)
	q.tokens = append(q.tokens, token)
	return nil
}

func (q *fakeQueue) Ping(ctx context.Context) error { return nil }

func (q *fakeQueue) calls() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.userIDs)
}
