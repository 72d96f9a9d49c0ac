package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/memrepo"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
	"github.com/fsdevblog/atom-point/pkg/uow"
)

// nopNotifier заглушка Notifier для тестов.
type nopNotifier struct{}

func (nopNotifier) NotifyAdmins(context.Context, string) {}

// recordingNotifier запоминает отправленные админам сообщения.
type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) NotifyAdmins(_ context.Context, message string) {
	r.messages = append(r.messages, message)
}

type testStore struct {
	unitOfWork  *memrepo.UnitOfWork
	userRepo    *memrepo.UserRepository
	orderRepo   *memrepo.OrderRepository
	productRepo *memrepo.ProductRepository
	paymentRepo *memrepo.PaymentAccountRepository
}

type requirer interface {
	Require() *require.Assertions
}

// newTestStore собирает unit of work поверх in-memory репозиториев и наполняет
// каталог и платежные каналы стартовыми данными.
func newTestStore(s requirer) *testStore {
	store := &testStore{
		unitOfWork:  memrepo.NewUnitOfWork(),
		userRepo:    memrepo.NewUserRepository(),
		orderRepo:   memrepo.NewOrderRepository(),
		productRepo: memrepo.NewProductRepository(),
		paymentRepo: memrepo.NewPaymentAccountRepository(),
	}

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName:           func(uow.Conn) uow.Repository { return store.userRepo },
		repoargs.OrderRepoName:          func(uow.Conn) uow.Repository { return store.orderRepo },
		repoargs.ProductRepoName:        func(uow.Conn) uow.Repository { return store.productRepo },
		repoargs.PaymentAccountRepoName: func(uow.Conn) uow.Repository { return store.paymentRepo },
	}
	for name, factory := range factories {
		s.Require().NoError(store.unitOfWork.Register(uow.RepositoryName(name), factory))
	}

	s.Require().NoError(memrepo.Seed(context.Background(), store.productRepo, store.paymentRepo))
	return store
}

// createUser создает юзера напрямую через репозиторий, минуя регистрацию.
func (ts *testStore) createUser(s requirer, id int64, username, credits string) *domain.User {
	user, err := ts.userRepo.Create(context.Background(), repoargs.CreateUser{
		ID:                id,
		Username:          username,
		EncryptedPassword: "irrelevant",
		SecurityAmount:    1234,
		Credits:           decimal.RequireFromString(credits),
		Notifications:     []string{},
	})
	s.Require().NoError(err)
	return user
}
