package api

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
	"github.com/fsdevblog/atom-point/internal/service"
)

type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	RecoverPassword(ctx context.Context, username string, securityAmount int, newPassword string) error
	AdjustCredits(ctx context.Context, userID int64, delta decimal.Decimal) (*domain.User, error)
	SetBanned(ctx context.Context, userID int64, banned bool) error
	Purge(ctx context.Context, userID int64) error
	Broadcast(ctx context.Context, userIDs []int64, message string) error
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
}

type OrderServicer interface {
	PurchaseProduct(
		ctx context.Context,
		userID int64,
		operator, category, productID, deliveryInfo string,
	) (*domain.User, *domain.Order, error)
	RequestTopup(
		ctx context.Context,
		userID int64,
		amountMMK decimal.Decimal,
		method, proof string,
	) (*domain.Order, error)
	Approve(ctx context.Context, orderID, actingAdmin string) (*domain.User, *domain.Order, error)
	Decline(ctx context.Context, orderID, actingAdmin string) (*domain.User, *domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
}

type CatalogServicer interface {
	ListByOperator(ctx context.Context, operator string) ([]domain.Product, error)
	Upsert(ctx context.Context, args repoargs.ProductUpsert) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type PaymentServicer interface {
	List(ctx context.Context) ([]domain.PaymentAccount, error)
	Upsert(ctx context.Context, acc domain.PaymentAccount) error
	Delete(ctx context.Context, method string) error
}
