package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService CatalogServicer
	paymentService PaymentServicer
}

func NewCatalogHandler(catalogService CatalogServicer, paymentService PaymentServicer) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		paymentService: paymentService,
	}
}

// Products GET RouteGroup + CatalogRoute. Товары оператора из path-параметра.
func (h *CatalogHandler) Products(c *gin.Context) {
	operator := c.Param("operator")

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	products, err := h.catalogService.ListByOperator(ctx, operator)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, newProductResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": resp})
}

// PaymentAccounts GET RouteGroup + PaymentsRoute. Реквизиты платежных каналов
// для страницы пополнения.
func (h *CatalogHandler) PaymentAccounts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	accounts, err := h.paymentService.List(ctx)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentAccounts": accounts})
}
