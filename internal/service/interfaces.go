package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
)

type UserRepository interface {
	Create(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// FindByIDForUpdate читает юзера с блокировкой до конца транзакции unit of work.
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateCredits(ctx context.Context, id int64, credits decimal.Decimal) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, encryptedPassword string) error
	SetBanned(ctx context.Context, id int64, banned bool) error
	AppendNotification(ctx context.Context, id int64, message string) error
	ListAll(ctx context.Context) ([]domain.User, error)
	ListAdmins(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, args repoargs.UpdateOrderStatus) (*domain.Order, error)
	DeleteByUserID(ctx context.Context, userID int64) error
}

type ProductRepository interface {
	Find(ctx context.Context, operator, category, id string) (*domain.Product, error)
	ListByOperator(ctx context.Context, operator string) ([]domain.Product, error)
	Upsert(ctx context.Context, args repoargs.ProductUpsert) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type PaymentAccountRepository interface {
	Get(ctx context.Context, method string) (*domain.PaymentAccount, error)
	List(ctx context.Context) ([]domain.PaymentAccount, error)
	Upsert(ctx context.Context, acc domain.PaymentAccount) error
	Delete(ctx context.Context, method string) error
}

// Notifier доставляет админам уведомления о новых заказах. Вызовы fire-and-forget:
// доставка не входит в транзакционные гарантии и не может завалить операцию.
type Notifier interface {
	NotifyAdmins(ctx context.Context, message string)
}
