package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/atom-point/internal/transport/api/middlewares"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup         = "/api"
	RegisterRoute      = "/user/register"
	LoginRoute         = "/user/login"
	RecoverRoute       = "/user/recover"
	OrdersRoute        = "/user/orders"
	TopupRoute         = "/user/topup"
	BalanceRoute       = "/user/balance"
	NotificationsRoute = "/user/notifications"
	CatalogRoute       = "/catalog/:operator"
	PaymentsRoute      = "/payments"

	AdminOrdersRoute    = "/admin/orders"
	AdminApproveRoute   = "/admin/orders/:id/approve"
	AdminDeclineRoute   = "/admin/orders/:id/decline"
	AdminUsersRoute     = "/admin/users"
	AdminBroadcastRoute = "/admin/broadcast"
	AdminUserRoute      = "/admin/users/:id"
	AdminCreditsRoute   = "/admin/users/:id/credits"
	AdminBanRoute       = "/admin/users/:id/ban"
	AdminProductsRoute  = "/admin/products"
	AdminProductRoute   = "/admin/products/:id"
	AdminPaymentsRoute  = "/admin/payments"
	AdminPaymentRoute   = "/admin/payments/:method"
)

type RouterArgs struct {
	Logger         *logrus.Logger
	UserService    UserServicer
	OrderService   OrderServicer
	CatalogService CatalogServicer
	PaymentService PaymentServicer
	JWTSecretKey   []byte
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	ordersHandler := NewOrdersHandler(args.OrderService, args.UserService)
	catalogHandler := NewCatalogHandler(args.CatalogService, args.PaymentService)
	adminHandler := NewAdminHandler(args.OrderService, args.UserService, args.CatalogService, args.PaymentService)

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)
	api.POST(RecoverRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Recover)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(CatalogRoute, catalogHandler.Products)
	api.GET(PaymentsRoute, catalogHandler.PaymentAccounts)

	api.GET(OrdersRoute, ordersHandler.Index)
	api.POST(OrdersRoute, ordersHandler.Purchase)
	api.POST(TopupRoute, ordersHandler.Topup)
	api.GET(BalanceRoute, ordersHandler.Balance)
	api.GET(NotificationsRoute, ordersHandler.Notifications)

	admin := api.Group("", middlewares.AdminRequired())
	admin.GET(AdminOrdersRoute, adminHandler.Orders)
	admin.POST(AdminApproveRoute, adminHandler.ApproveOrder)
	admin.POST(AdminDeclineRoute, adminHandler.DeclineOrder)

	admin.GET(AdminUsersRoute, adminHandler.Users)
	admin.POST(AdminBroadcastRoute, adminHandler.Broadcast)
	admin.POST(AdminCreditsRoute, adminHandler.AdjustCredits)
	admin.POST(AdminBanRoute, adminHandler.SetBanned)
	admin.DELETE(AdminUserRoute, adminHandler.PurgeUser)

	admin.PUT(AdminProductsRoute, adminHandler.UpsertProduct)
	admin.DELETE(AdminProductRoute, adminHandler.DeleteProduct)
	admin.PUT(AdminPaymentsRoute, adminHandler.UpsertPaymentAccount)
	admin.DELETE(AdminPaymentRoute, adminHandler.DeletePaymentAccount)

	return r, nil
}
