package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
	"github.com/fsdevblog/atom-point/pkg/uow"
)

type OrderService struct {
	uow          uow.UOW
	orderRepo    OrderRepository
	userRepo     UserRepository
	productRepo  ProductRepository
	paymentRepo  PaymentAccountRepository
	notifier     Notifier
	mmkPerCredit decimal.Decimal
}

func NewOrderService(u uow.UOW, notifier Notifier, mmkPerCredit decimal.Decimal) (*OrderService, error) {
	orderRepo, orderRepoErr := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if orderRepoErr != nil {
		return nil, orderRepoErr
	}
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	productRepo, productRepoErr := uow.GetRepositoryAs[ProductRepository](u, uow.RepositoryName(repoargs.ProductRepoName))
	if productRepoErr != nil {
		return nil, productRepoErr
	}
	paymentRepo, paymentRepoErr :=
		uow.GetRepositoryAs[PaymentAccountRepository](u, uow.RepositoryName(repoargs.PaymentAccountRepoName))
	if paymentRepoErr != nil {
		return nil, paymentRepoErr
	}

	return &OrderService{
		uow:          u,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		productRepo:  productRepo,
		paymentRepo:  paymentRepo,
		notifier:     notifier,
		mmkPerCredit: mmkPerCredit,
	}, nil
}

// PurchaseProduct покупка товара за кредиты. Стоимость товара конвертируется из MMK
// в кредиты по фиксированному курсу, после чего списание и создание заказа выполняются
// одной транзакцией: заказ не может появиться без зарезервированных под него кредитов.
//
// Возвращаемые ошибки:
//   - domain.ErrInsufficientCredits если баланса не хватает, состояние не меняется;
//   - *domain.ValidationError если deliveryInfo не похож на номер телефона;
//   - domain.ErrUserBanned для забаненных юзеров;
//   - domain.ErrRecordNotFound если товар или юзер не найдены.
func (o *OrderService) PurchaseProduct(
	ctx context.Context,
	userID int64,
	operator, category, productID, deliveryInfo string,
) (*domain.User, *domain.Order, error) {
	product, productErr := o.productRepo.Find(ctx, operator, category, productID)
	if productErr != nil {
		return nil, nil, fmt.Errorf("purchasing product: %w", productErr)
	}
	cost := domain.CreditsFromMMK(product.PriceMMK, o.mmkPerCredit)

	var updatedUser *domain.User
	var createdOrder *domain.Order

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}

		user, userErr := userRepo.FindByIDForUpdate(c, userID)
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}
		if user.Banned {
			return domain.ErrUserBanned
		}
		if user.Credits.LessThan(cost) {
			return domain.ErrInsufficientCredits
		}

		// Заказ записывается до списания: in-memory стор не умеет откатывать
		// транзакции, и неудачная запись заказа не должна оставлять за собой
		// списанных кредитов. Снаружи критической секции порядок не наблюдаем.
		var createErr error
		createdOrder, createErr = createOrder(c, orderRepo, func() (*domain.Order, error) {
			return domain.NewProductOrder(userID, *product, deliveryInfo, cost)
		})
		if createErr != nil {
			return createErr
		}

		debited := domain.ApplyCreditDelta(*user, cost.Neg())
		var updErr error
		updatedUser, updErr = userRepo.UpdateCredits(c, userID, debited.Credits)
		return updErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, nil, fmt.Errorf("purchasing product: %w", txErr)
	}

	o.notifier.NotifyAdmins(ctx, fmt.Sprintf(
		"📦 New Order: %s bought %s (%s credits) for %s.",
		updatedUser.Username, product.Name, cost.StringFixed(2), deliveryInfo,
	))
	return updatedUser, createdOrder, nil
}

// RequestTopup заявка на пополнение кредитов по ручному платежу. Баланс юзера не
// трогается: кредиты будут начислены только после подтверждения скриншота админом.
// Cost заявки хранится в MMK.
func (o *OrderService) RequestTopup(
	ctx context.Context,
	userID int64,
	amountMMK decimal.Decimal,
	method, proof string,
) (*domain.Order, error) {
	if _, accErr := o.paymentRepo.Get(ctx, method); accErr != nil {
		if errors.Is(accErr, domain.ErrRecordNotFound) {
			return nil, domain.NewValidationError("paymentMethod", fmt.Sprintf("unknown payment method `%s`", method))
		}
		return nil, fmt.Errorf("requesting topup: %w", accErr)
	}

	user, userErr := o.userRepo.FindByID(ctx, userID)
	if userErr != nil {
		return nil, fmt.Errorf("requesting topup: %w", userErr)
	}
	if user.Banned {
		return nil, domain.ErrUserBanned
	}

	created, createErr := createOrder(ctx, o.orderRepo, func() (*domain.Order, error) {
		return domain.NewCreditTopupOrder(userID, amountMMK, method, proof, o.mmkPerCredit)
	})
	if createErr != nil {
		return nil, fmt.Errorf("requesting topup: %w", createErr)
	}

	o.notifier.NotifyAdmins(ctx, fmt.Sprintf(
		"💰 Credit Request: %s requests %s MMK via %s.", user.Username, amountMMK.String(), method,
	))
	return created, nil
}

// Approve подтверждает заказ в статусе Pending Approval.
//
// Для PRODUCT заказов баланс не меняется: кредиты уже были списаны при создании.
// Для CREDIT_TOPUP начисляется Cost / курс кредитов. Перевод статуса выполняется
// compare-and-swap'ом, повторное подтверждение вернет domain.ErrInvalidOrderState.
// Возвращает обновленного юзера (nil если баланс не менялся) и закрытый заказ.
func (o *OrderService) Approve(ctx context.Context, orderID, actingAdmin string) (*domain.User, *domain.Order, error) {
	var updatedUser *domain.User
	var updatedOrder *domain.Order

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, userRepo, reposErr := o.txRepos(tx)
		if reposErr != nil {
			return reposErr
		}

		order, orderErr := orderRepo.FindByID(c, orderID)
		if orderErr != nil {
			return orderErr //nolint:wrapcheck
		}
		if order.Status.Terminal() {
			return domain.ErrInvalidOrderState
		}

		if order.Kind == domain.OrderKindCreditTopup {
			user, userErr := userRepo.FindByIDForUpdate(c, order.UserID)
			if userErr != nil {
				return userErr //nolint:wrapcheck
			}
			grant := domain.CreditsFromMMK(order.Cost, o.mmkPerCredit)
			credited := domain.ApplyCreditDelta(*user, grant)

			var updErr error
			updatedUser, updErr = userRepo.UpdateCredits(c, order.UserID, credited.Credits)
			if updErr != nil {
				return updErr //nolint:wrapcheck
			}
		}

		var statusErr error
		updatedOrder, statusErr = orderRepo.UpdateStatus(c, repoargs.UpdateOrderStatus{
			ID:       orderID,
			From:     domain.OrderStatusPendingApproval,
			To:       domain.OrderStatusCompleted,
			ActionBy: actingAdmin,
		})
		return statusErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, nil, fmt.Errorf("approving order `%s`: %w", orderID, txErr)
	}
	return updatedUser, updatedOrder, nil
}

// Decline отклоняет заказ в статусе Pending Approval.
//
// Для PRODUCT заказов Cost (в кредитах) возвращается владельцу - это откат списания,
// выполненного при создании. Для CREDIT_TOPUP баланс не меняется: кредиты не начислялись.
func (o *OrderService) Decline(ctx context.Context, orderID, actingAdmin string) (*domain.User, *domain.Order, error) {
	var updatedUser *domain.User
	var updatedOrder *domain.Order

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, userRepo, reposErr := o.txRepos(tx)
		if reposErr != nil {
			return reposErr
		}

		order, orderErr := orderRepo.FindByID(c, orderID)
		if orderErr != nil {
			return orderErr //nolint:wrapcheck
		}
		if order.Status.Terminal() {
			return domain.ErrInvalidOrderState
		}

		if order.Kind == domain.OrderKindProduct {
			user, userErr := userRepo.FindByIDForUpdate(c, order.UserID)
			if userErr != nil {
				return userErr //nolint:wrapcheck
			}
			refunded := domain.ApplyCreditDelta(*user, order.Cost)

			var updErr error
			updatedUser, updErr = userRepo.UpdateCredits(c, order.UserID, refunded.Credits)
			if updErr != nil {
				return updErr //nolint:wrapcheck
			}
		}

		var statusErr error
		updatedOrder, statusErr = orderRepo.UpdateStatus(c, repoargs.UpdateOrderStatus{
			ID:       orderID,
			From:     domain.OrderStatusPendingApproval,
			To:       domain.OrderStatusDeclined,
			ActionBy: actingAdmin,
		})
		return statusErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, nil, fmt.Errorf("declining order `%s`: %w", orderID, txErr)
	}
	return updatedUser, updatedOrder, nil
}

// GetByUserID возвращает заказы юзера, свежие первыми.
func (o *OrderService) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

func (o *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	orders, err := o.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// maxOrderIDAttempts число попыток записать заказ со свежесгенерированным id.
const maxOrderIDAttempts = 5

// createOrder записывает заказ, перегенерируя id при коллизии. build собирает новый
// заказ (и новый id) на каждую попытку; ошибки сборки и любые ошибки записи кроме
// domain.ErrDuplicateKey возвращаются сразу.
func createOrder(
	ctx context.Context,
	orderRepo OrderRepository,
	build func() (*domain.Order, error),
) (*domain.Order, error) {
	var lastErr error
	for i := 0; i < maxOrderIDAttempts; i++ {
		order, buildErr := build()
		if buildErr != nil {
			return nil, buildErr
		}
		created, createErr := orderRepo.Create(ctx, order)
		if createErr == nil {
			return created, nil
		}
		if !errors.Is(createErr, domain.ErrDuplicateKey) {
			return nil, createErr //nolint:wrapcheck
		}
		lastErr = createErr
	}
	return nil, fmt.Errorf("no free order id after %d attempts: %w", maxOrderIDAttempts, lastErr)
}

func (o *OrderService) txRepos(tx uow.TX) (OrderRepository, UserRepository, error) {
	orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
	if orderRepoErr != nil {
		return nil, nil, orderRepoErr //nolint:wrapcheck
	}
	userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, nil, userRepoErr //nolint:wrapcheck
	}
	return orderRepo, userRepo, nil
}
