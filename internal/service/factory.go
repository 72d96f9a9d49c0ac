package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/atom-point/pkg/uow"
)

type AppServices struct {
	UserService    *UserService
	OrderService   *OrderService
	CatalogService *CatalogService
	PaymentService *PaymentAccountService
}

type FactoryArgs struct {
	UnitOfWork   uow.UOW
	JWTSecret    []byte
	Notifier     Notifier
	MMKPerCredit decimal.Decimal
}

func Factory(args FactoryArgs) (*AppServices, error) {
	userService, userServiceErr := NewUserService(args.UnitOfWork, args.JWTSecret)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(args.UnitOfWork, args.Notifier, args.MMKPerCredit)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	catalogService, catalogServiceErr := NewCatalogService(args.UnitOfWork)
	if catalogServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", catalogServiceErr.Error())
	}

	paymentService, paymentServiceErr := NewPaymentAccountService(args.UnitOfWork)
	if paymentServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", paymentServiceErr.Error())
	}

	return &AppServices{
		UserService:    userService,
		OrderService:   orderService,
		CatalogService: catalogService,
		PaymentService: paymentService,
	}, nil
}
