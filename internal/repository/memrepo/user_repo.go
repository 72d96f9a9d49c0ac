package memrepo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[int64]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]*domain.User)}
}

func (u *UserRepository) Create(_ context.Context, args repoargs.CreateUser) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, exists := u.users[args.ID]; exists {
		return nil, domain.ErrDuplicateKey
	}
	for _, existing := range u.users {
		if existing.Username == args.Username {
			return nil, domain.ErrDuplicateKey
		}
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:                args.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
		Username:          args.Username,
		EncryptedPassword: args.EncryptedPassword,
		IsAdmin:           args.IsAdmin,
		Credits:           args.Credits,
		SecurityAmount:    args.SecurityAmount,
		Notifications:     slices.Clone(args.Notifications),
	}
	u.users[user.ID] = user
	return cloneUser(user), nil
}

func (u *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	user, ok := u.users[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return cloneUser(user), nil
}

// FindByIDForUpdate в памяти не отличается от FindByID: изоляцию мутаций обеспечивает
// общий мьютекс UnitOfWork.Do, внутри которого вызывается этот метод.
func (u *UserRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	return u.FindByID(ctx, id)
}

func (u *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, user := range u.users {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (u *UserRepository) UpdateCredits(_ context.Context, id int64, credits decimal.Decimal) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	user.Credits = credits
	user.UpdatedAt = time.Now().UTC()
	return cloneUser(user), nil
}

func (u *UserRepository) UpdatePassword(_ context.Context, id int64, encryptedPassword string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	user.EncryptedPassword = encryptedPassword
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *UserRepository) SetBanned(_ context.Context, id int64, banned bool) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	user.Banned = banned
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *UserRepository) AppendNotification(_ context.Context, id int64, message string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	user.Notifications = append(user.Notifications, message)
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *UserRepository) ListAll(_ context.Context) ([]domain.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.collect(func(*domain.User) bool { return true }), nil
}

func (u *UserRepository) ListAdmins(_ context.Context) ([]domain.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.collect(func(user *domain.User) bool { return user.IsAdmin }), nil
}

func (u *UserRepository) Delete(_ context.Context, id int64) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.users, id)
	return nil
}

func (u *UserRepository) collect(keep func(*domain.User) bool) []domain.User {
	var users []domain.User
	for _, user := range u.users {
		if keep(user) {
			users = append(users, *cloneUser(user))
		}
	}
	slices.SortFunc(users, func(a, b domain.User) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return users
}

// cloneUser копирует юзера, чтобы вызывающий не мутировал хранимое состояние напрямую.
func cloneUser(user *domain.User) *domain.User {
	clone := *user
	clone.Notifications = slices.Clone(user.Notifications)
	return &clone
}
