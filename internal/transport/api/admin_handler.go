package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
)

// AdminHandler админские операции: разбор очереди заказов, управление юзерами,
// каталогом и платежными каналами. Все роуты закрыты middlewares.AdminRequired.
type AdminHandler struct {
	orderService   OrderServicer
	userService    UserServicer
	catalogService CatalogServicer
	paymentService PaymentServicer
}

func NewAdminHandler(
	orderService OrderServicer,
	userService UserServicer,
	catalogService CatalogServicer,
	paymentService PaymentServicer,
) *AdminHandler {
	return &AdminHandler{
		orderService:   orderService,
		userService:    userService,
		catalogService: catalogService,
		paymentService: paymentService,
	}
}

// actingAdmin юзернейм текущего админа для поля ActionBy закрываемых заказов.
func (h *AdminHandler) actingAdmin(ctx context.Context, c *gin.Context) (string, error) {
	admin, err := h.userService.GetByID(ctx, getUserIDFromContext(c))
	if err != nil {
		return "", err //nolint:wrapcheck
	}
	return admin.Username, nil
}

// Orders GET RouteGroup + AdminOrdersRoute. Все заказы магазина, свежие первыми.
// Скриншоты платежей включены: по ним админ сверяет заявки на пополнение.
func (h *AdminHandler) Orders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := h.orderService.ListAll(ctx)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": newOrderResponses(orders, true)})
}

// ApproveOrder POST RouteGroup + AdminApproveRoute. Подтверждает заказ в Pending Approval.
// Повторное подтверждение (или гонка двух админов) вернет 409.
func (h *AdminHandler) ApproveOrder(c *gin.Context) {
	orderID := c.Param("id")

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	admin, adminErr := h.actingAdmin(ctx, c)
	if adminErr != nil {
		abortWithDomainError(c, adminErr)
		return
	}

	user, order, err := h.orderService.Approve(ctx, orderID, admin)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	resp := gin.H{"order": newOrderResponse(*order, false)}
	if user != nil {
		resp["user"] = newUserResponse(user)
	}
	c.JSON(http.StatusOK, resp)
}

// DeclineOrder POST RouteGroup + AdminDeclineRoute. Отклоняет заказ в Pending Approval.
func (h *AdminHandler) DeclineOrder(c *gin.Context) {
	orderID := c.Param("id")

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	admin, adminErr := h.actingAdmin(ctx, c)
	if adminErr != nil {
		abortWithDomainError(c, adminErr)
		return
	}

	user, order, err := h.orderService.Decline(ctx, orderID, admin)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	resp := gin.H{"order": newOrderResponse(*order, false)}
	if user != nil {
		resp["user"] = newUserResponse(user)
	}
	c.JSON(http.StatusOK, resp)
}

// Users GET RouteGroup + AdminUsersRoute. Все юзеры магазина.
func (h *AdminHandler) Users(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	users, err := h.userService.ListAll(ctx)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, newUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}

type BroadcastParams struct {
	UserIDs []int64 `binding:"required,min=1" json:"userIDs"`
	Message string  `binding:"required" json:"message"`
}

// Broadcast POST RouteGroup + AdminBroadcastRoute. Рассылает сообщение в ленты
// уведомлений перечисленных юзеров.
func (h *AdminHandler) Broadcast(c *gin.Context) {
	var params BroadcastParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.userService.Broadcast(ctx, params.UserIDs, params.Message); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusOK)
}

type AdjustCreditsParams struct {
	Delta decimal.Decimal `binding:"required" json:"delta"`
}

// AdjustCredits POST RouteGroup + AdminCreditsRoute. Ручная корректировка баланса.
// Знак delta произвольный: положительный начисляет, отрицательный списывает.
func (h *AdminHandler) AdjustCredits(c *gin.Context) {
	userID, parseErr := parseUserIDParam(c)
	if parseErr != nil {
		return
	}

	var params AdjustCreditsParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.AdjustCredits(ctx, userID, params.Delta)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

type SetBannedParams struct {
	Banned *bool `binding:"required" json:"banned"`
}

// SetBanned POST RouteGroup + AdminBanRoute. Бан и разбан юзера.
func (h *AdminHandler) SetBanned(c *gin.Context) {
	userID, parseErr := parseUserIDParam(c)
	if parseErr != nil {
		return
	}

	var params SetBannedParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.userService.SetBanned(ctx, userID, *params.Banned); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusOK)
}

// PurgeUser DELETE RouteGroup + AdminUserRoute. Безвозвратно удаляет юзера вместе
// со всеми его заказами.
func (h *AdminHandler) PurgeUser(c *gin.Context) {
	userID, parseErr := parseUserIDParam(c)
	if parseErr != nil {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.userService.Purge(ctx, userID); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusOK)
}

type ProductUpsertParams struct {
	ID       string          `binding:"required" json:"id"`
	Operator string          `binding:"required" json:"operator"`
	Category string          `binding:"required" json:"category"`
	Name     string          `binding:"required" json:"name"`
	PriceMMK decimal.Decimal `binding:"required" json:"priceMMK"`
	Extra    string          `json:"extra"`
}

// UpsertProduct PUT RouteGroup + AdminProductsRoute. Создает или обновляет позицию каталога.
func (h *AdminHandler) UpsertProduct(c *gin.Context) {
	var params ProductUpsertParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.catalogService.Upsert(ctx, repoargs.ProductUpsert{
		ID:       params.ID,
		Operator: params.Operator,
		Category: params.Category,
		Name:     params.Name,
		PriceMMK: params.PriceMMK,
		Extra:    params.Extra,
	})
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": newProductResponse(*product)})
}

// DeleteProduct DELETE RouteGroup + AdminProductRoute.
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.catalogService.Delete(ctx, c.Param("id")); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusOK)
}

type PaymentAccountParams struct {
	Method string `binding:"required" json:"method"`
	Name   string `binding:"required" json:"name"`
	Number string `binding:"required" json:"number"`
}

// UpsertPaymentAccount PUT RouteGroup + AdminPaymentsRoute. Создает или обновляет
// реквизиты платежного канала.
func (h *AdminHandler) UpsertPaymentAccount(c *gin.Context) {
	var params PaymentAccountParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	acc := domain.PaymentAccount{
		Method: params.Method,
		Name:   params.Name,
		Number: params.Number,
	}
	if err := h.paymentService.Upsert(ctx, acc); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentAccount": acc})
}

// DeletePaymentAccount DELETE RouteGroup + AdminPaymentRoute.
func (h *AdminHandler) DeletePaymentAccount(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.paymentService.Delete(ctx, c.Param("method")); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusOK)
}

func parseUserIDParam(c *gin.Context) (int64, error) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.AbortWithError(http.StatusBadRequest, err).SetType(gin.ErrorTypeBind)
		return 0, err
	}
	return userID, nil
}
