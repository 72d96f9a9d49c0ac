package domain

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderIDPattern = regexp.MustCompile(`^(PROD|CRD)-\d{6}-[0-9A-F]{8}$`)

func TestNewProductOrder(t *testing.T) {
	product := Product{
		ID:       "atom_pts_500",
		Operator: "ATOM",
		Category: "Points",
		Name:     "500 Points",
		PriceMMK: decimal.NewFromInt(1500),
	}
	cost := decimal.NewFromInt(15)

	t.Run("valid order", func(t *testing.T) {
		order, err := NewProductOrder(123456, product, "09789037037", cost)
		require.NoError(t, err)

		assert.Regexp(t, orderIDPattern, order.ID)
		assert.Equal(t, OrderKindProduct, order.Kind)
		assert.Equal(t, OrderStatusPendingApproval, order.Status)
		assert.Equal(t, "500 Points", order.ProductName)
		assert.Equal(t, "ATOM", order.Operator)
		assert.Equal(t, "09789037037", order.DeliveryInfo)
		assert.True(t, order.Cost.Equal(cost))
		assert.Empty(t, order.ActionBy)
	})

	t.Run("unique ids for same instant", func(t *testing.T) {
		first, err := NewProductOrder(123456, product, "09789037037", cost)
		require.NoError(t, err)
		second, err := NewProductOrder(123456, product, "09789037037", cost)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
	})

	invalidPhones := []string{"", "123", "phone", "091234567890123", "09-789-037"}
	for _, phone := range invalidPhones {
		t.Run("invalid phone "+phone, func(t *testing.T) {
			_, err := NewProductOrder(123456, product, phone, cost)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, "deliveryInfo", valErr.Field)
		})
	}
}

func TestNewCreditTopupOrder(t *testing.T) {
	rate := decimal.NewFromInt(100)

	t.Run("valid topup", func(t *testing.T) {
		order, err := NewCreditTopupOrder(123456, decimal.NewFromInt(2000), "KPay", "data:image/png;base64,xxx", rate)
		require.NoError(t, err)

		assert.Regexp(t, orderIDPattern, order.ID)
		assert.Equal(t, OrderKindCreditTopup, order.Kind)
		assert.Equal(t, OrderStatusPendingApproval, order.Status)
		// Cost заявки хранится в MMK, не в кредитах
		assert.True(t, order.Cost.Equal(decimal.NewFromInt(2000)))
		assert.Equal(t, "20.00 Credits Purchase", order.ProductName)
		assert.Equal(t, "KPay", order.PaymentMethod)
		assert.Equal(t, "data:image/png;base64,xxx", order.PaymentProof)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := NewCreditTopupOrder(123456, decimal.Zero, "KPay", "proof", rate)

		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "amount", valErr.Field)
	})

	t.Run("blank proof", func(t *testing.T) {
		_, err := NewCreditTopupOrder(123456, decimal.NewFromInt(2000), "KPay", "   ", rate)

		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "paymentProof", valErr.Field)
	})
}
