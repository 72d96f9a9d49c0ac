package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/atom-point/internal/repository/memrepo"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
	"github.com/fsdevblog/atom-point/internal/service"
	"github.com/fsdevblog/atom-point/internal/service/tokens"
	"github.com/fsdevblog/atom-point/internal/transport/api/testutils"
	"github.com/fsdevblog/atom-point/pkg/uow"
)

type nopNotifier struct{}

func (nopNotifier) NotifyAdmins(context.Context, string) {}

// OrderHandlerTestSuite гоняет хендлеры через роутер поверх in-memory хранилища:
// проверяется и маппинг ошибок в статусы, и цепочки middleware.
type OrderHandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	userRepo   *memrepo.UserRepository
	jwtSecret  []byte
	buyerID    int64
	buyerToken string
	adminToken string
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.jwtSecret = []byte("super secret key")

	unitOfWork := memrepo.NewUnitOfWork()
	s.userRepo = memrepo.NewUserRepository()
	orderRepo := memrepo.NewOrderRepository()
	productRepo := memrepo.NewProductRepository()
	paymentRepo := memrepo.NewPaymentAccountRepository()

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName:           func(uow.Conn) uow.Repository { return s.userRepo },
		repoargs.OrderRepoName:          func(uow.Conn) uow.Repository { return orderRepo },
		repoargs.ProductRepoName:        func(uow.Conn) uow.Repository { return productRepo },
		repoargs.PaymentAccountRepoName: func(uow.Conn) uow.Repository { return paymentRepo },
	}
	for name, factory := range factories {
		s.Require().NoError(unitOfWork.Register(uow.RepositoryName(name), factory))
	}
	s.Require().NoError(memrepo.Seed(context.Background(), productRepo, paymentRepo))

	services, servErr := service.Factory(service.FactoryArgs{
		UnitOfWork:   unitOfWork,
		JWTSecret:    s.jwtSecret,
		Notifier:     nopNotifier{},
		MMKPerCredit: decimal.NewFromInt(100),
	})
	s.Require().NoError(servErr)

	router, routerErr := New(RouterArgs{
		UserService:    services.UserService,
		OrderService:   services.OrderService,
		CatalogService: services.CatalogService,
		PaymentService: services.PaymentService,
		JWTSecretKey:   s.jwtSecret,
	})
	s.Require().NoError(routerErr)
	s.router = router

	// покупатель со стартовым балансом
	buyer, buyerErr := s.userRepo.Create(context.Background(), repoargs.CreateUser{
		ID:                123456,
		Username:          "aung",
		EncryptedPassword: "irrelevant",
		SecurityAmount:    1234,
		Credits:           decimal.RequireFromString("125.50"),
		Notifications:     []string{},
	})
	s.Require().NoError(buyerErr)
	s.buyerID = buyer.ID

	admin, adminErr := s.userRepo.Create(context.Background(), repoargs.CreateUser{
		ID:                999999,
		Username:          "admin",
		EncryptedPassword: "irrelevant",
		IsAdmin:           true,
		SecurityAmount:    5678,
		Credits:           decimal.Zero,
		Notifications:     []string{},
	})
	s.Require().NoError(adminErr)

	buyerToken, buyerTokenErr := tokens.GenerateUserJWT(buyer.ID, false, time.Hour, s.jwtSecret)
	s.Require().NoError(buyerTokenErr)
	s.buyerToken = buyerToken

	adminToken, adminTokenErr := tokens.GenerateUserJWT(admin.ID, true, time.Hour, s.jwtSecret)
	s.Require().NoError(adminTokenErr)
	s.adminToken = adminToken
}

func (s *OrderHandlerTestSuite) decodeBody(resp *http.Response, target any) {
	defer resp.Body.Close() //nolint:errcheck
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(target))
}

func (s *OrderHandlerTestSuite) TestOrdersRequireAuth() {
	resp := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + OrdersRoute,
	})
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *OrderHandlerTestSuite) TestPurchase() {
	body := `{"operator":"ATOM","category":"Points","productID":"atom_pts_500","deliveryInfo":"09789037037"}`
	resp := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + OrdersRoute,
		Body:   bytes.NewBufferString(body),
	}, testutils.WithBearer(s.buyerToken))

	s.Require().Equal(http.StatusAccepted, resp.StatusCode)

	var parsed struct {
		Order OrderResponse `json:"order"`
		User  UserResponse  `json:"user"`
	}
	s.decodeBody(resp, &parsed)

	s.Equal("Pending Approval", parsed.Order.Status)
	s.Equal("15.00", parsed.Order.Cost)
	s.Equal("110.50", parsed.User.Credits)
}

func (s *OrderHandlerTestSuite) TestPurchaseInsufficientCredits() {
	// 1000 points стоят 30 кредитов, баланс 125.50: четыре покупки не пройдут
	body := `{"operator":"ATOM","category":"Points","productID":"atom_pts_1000","deliveryInfo":"09789037037"}`
	var lastStatus int
	for i := 0; i < 5; i++ {
		resp := testutils.MakeRequest(testutils.RequestArgs{
			Router: s.router,
			Method: http.MethodPost,
			URL:    RouteGroup + OrdersRoute,
			Body:   bytes.NewBufferString(body),
		}, testutils.WithBearer(s.buyerToken))
		resp.Body.Close() //nolint:errcheck
		lastStatus = resp.StatusCode
	}

	s.Equal(http.StatusPaymentRequired, lastStatus)
}

func (s *OrderHandlerTestSuite) TestPurchaseInvalidPhone() {
	body := `{"operator":"ATOM","category":"Points","productID":"atom_pts_500","deliveryInfo":"not-a-phone"}`
	resp := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + OrdersRoute,
		Body:   bytes.NewBufferString(body),
	}, testutils.WithBearer(s.buyerToken))
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *OrderHandlerTestSuite) TestTopupApproveFlow() {
	body := `{"amountMMK":2000,"paymentMethod":"KPay","paymentProof":"data:image/png;base64,xxx"}`
	topupResp := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + TopupRoute,
		Body:   bytes.NewBufferString(body),
	}, testutils.WithBearer(s.buyerToken))

	s.Require().Equal(http.StatusAccepted, topupResp.StatusCode)

	var topupParsed struct {
		Order OrderResponse `json:"order"`
	}
	s.decodeBody(topupResp, &topupParsed)
	s.Equal("CREDIT_TOPUP", topupParsed.Order.Kind)
	s.Equal("2000.00", topupParsed.Order.Cost)

	approveURL := fmt.Sprintf("%s/admin/orders/%s/approve", RouteGroup, topupParsed.Order.ID)
	approveResp := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    approveURL,
	}, testutils.WithBearer(s.adminToken))

	s.Require().Equal(http.StatusOK, approveResp.StatusCode)

	var approveParsed struct {
		Order OrderResponse `json:"order"`
		User  UserResponse  `json:"user"`
	}
	s.decodeBody(approveResp, &approveParsed)
	s.Equal("Completed", approveParsed.Order.Status)
	s.Equal("admin", approveParsed.Order.ActionBy)
	s.Equal("145.50", approveParsed.User.Credits)

	// повторное подтверждение конфликтует
	secondResp := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    approveURL,
	}, testutils.WithBearer(s.adminToken))
	defer secondResp.Body.Close() //nolint:errcheck

	s.Equal(http.StatusConflict, secondResp.StatusCode)
}

func (s *OrderHandlerTestSuite) TestAdminBroadcast() {
	body := fmt.Sprintf(`{"userIDs":[%d],"message":"Maintenance tonight 22:00"}`, s.buyerID)
	resp := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + AdminBroadcastRoute,
		Body:   bytes.NewBufferString(body),
	}, testutils.WithBearer(s.adminToken))
	defer resp.Body.Close() //nolint:errcheck

	s.Require().Equal(http.StatusOK, resp.StatusCode)

	buyer, findErr := s.userRepo.FindByID(context.Background(), s.buyerID)
	s.Require().NoError(findErr)
	s.Contains(buyer.Notifications, "Maintenance tonight 22:00")
}

func (s *OrderHandlerTestSuite) TestAdminRoutesForbiddenForUser() {
	resp := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + AdminOrdersRoute,
	}, testutils.WithBearer(s.buyerToken))
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *OrderHandlerTestSuite) TestCatalog() {
	resp := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + "/catalog/ATOM",
	}, testutils.WithBearer(s.buyerToken))

	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var parsed struct {
		Products []ProductResponse `json:"products"`
	}
	s.decodeBody(resp, &parsed)
	s.NotEmpty(parsed.Products)
}

func (s *OrderHandlerTestSuite) TestBalance() {
	resp := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + BalanceRoute,
	}, testutils.WithBearer(s.buyerToken))

	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var parsed struct {
		Credits string `json:"credits"`
	}
	s.decodeBody(resp, &parsed)
	s.Equal("125.50", parsed.Credits)
}
