package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type OrdersHandler struct {
	orderService OrderServicer
	userService  UserServicer
}

func NewOrdersHandler(orderService OrderServicer, userService UserServicer) *OrdersHandler {
	return &OrdersHandler{
		orderService: orderService,
		userService:  userService,
	}
}

// Index GET RouteGroup + OrdersRoute. Список заказов текущего юзера, свежие первыми.
func (h *OrdersHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := h.orderService.GetByUserID(ctx, currentUserID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": newOrderResponses(orders, false)})
}

type PurchaseParams struct {
	Operator     string `binding:"required" json:"operator"`
	Category     string `binding:"required" json:"category"`
	ProductID    string `binding:"required" json:"productID"`
	DeliveryInfo string `binding:"required,msisdn" json:"deliveryInfo"`
}

// Purchase POST RouteGroup + OrdersRoute. Покупка товара за кредиты: создает заказ
// в статусе Pending Approval и сразу списывает его стоимость.
func (h *OrdersHandler) Purchase(c *gin.Context) {
	var params PurchaseParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		var valErrs validator.ValidationErrors
		if errors.As(bindErr, &valErrs) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": valErrs})
			return
		}
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, order, err := h.orderService.PurchaseProduct(
		ctx, currentUserID, params.Operator, params.Category, params.ProductID, params.DeliveryInfo,
	)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"order": newOrderResponse(*order, false),
		"user":  newUserResponse(user),
	})
}

type TopupParams struct {
	AmountMMK     decimal.Decimal `binding:"required" json:"amountMMK"`
	PaymentMethod string          `binding:"required" json:"paymentMethod"`
	PaymentProof  string          `binding:"required" json:"paymentProof"`
}

// Topup POST RouteGroup + TopupRoute. Заявка на пополнение кредитов по ручному платежу.
// Кредиты будут начислены после подтверждения заявки админом.
func (h *OrdersHandler) Topup(c *gin.Context) {
	var params TopupParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := h.orderService.RequestTopup(
		ctx, currentUserID, params.AmountMMK, params.PaymentMethod, params.PaymentProof,
	)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"order": newOrderResponse(*order, false)})
}

// Balance GET RouteGroup + BalanceRoute. Текущий баланс кредитов юзера.
func (h *OrdersHandler) Balance(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.GetByID(ctx, currentUserID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"credits": user.Credits.StringFixed(2)})
}

// Notifications GET RouteGroup + NotificationsRoute. Лента уведомлений юзера.
func (h *OrdersHandler) Notifications(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.GetByID(ctx, currentUserID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	notifications := user.Notifications
	if notifications == nil {
		notifications = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
