package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// deliveryPhonePattern форма номера телефона доставки: только цифры, длина 7-11.
var deliveryPhonePattern = regexp.MustCompile(`^\d{7,11}$`)

// NewProductOrder создает заказ на покупку товара в статусе Pending Approval.
// cost передается в кредитах (конвертацию из MMK выполняет сервисный слой).
// Если deliveryInfo не похож на номер телефона, вернется *ValidationError.
func NewProductOrder(userID int64, product Product, deliveryInfo string, cost decimal.Decimal) (*Order, error) {
	if !deliveryPhonePattern.MatchString(deliveryInfo) {
		return nil, NewValidationError("deliveryInfo", "must be a phone number of 7-11 digits")
	}

	now := time.Now().UTC()
	return &Order{
		ID:           newOrderID(OrderKindProduct, now),
		CreatedAt:    now,
		UpdatedAt:    now,
		UserID:       userID,
		Kind:         OrderKindProduct,
		ProductName:  product.Name,
		Operator:     product.Operator,
		Cost:         cost,
		Status:       OrderStatusPendingApproval,
		DeliveryInfo: deliveryInfo,
	}, nil
}

// NewCreditTopupOrder создает заявку на пополнение кредитов в статусе Pending Approval.
// Cost заявки хранится в MMK; кредиты будут начислены только при подтверждении админом.
// Возвращает *ValidationError если amountMMK <= 0 или отсутствует подтверждение платежа.
func NewCreditTopupOrder(
	userID int64,
	amountMMK decimal.Decimal,
	method string,
	proof string,
	mmkPerCredit decimal.Decimal,
) (*Order, error) {
	if !amountMMK.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}
	if strings.TrimSpace(proof) == "" {
		return nil, NewValidationError("paymentProof", "is required")
	}

	now := time.Now().UTC()
	credits := CreditsFromMMK(amountMMK, mmkPerCredit)
	return &Order{
		ID:            newOrderID(OrderKindCreditTopup, now),
		CreatedAt:     now,
		UpdatedAt:     now,
		UserID:        userID,
		Kind:          OrderKindCreditTopup,
		ProductName:   fmt.Sprintf("%s Credits Purchase", credits.StringFixed(2)),
		Cost:          amountMMK,
		Status:        OrderStatusPendingApproval,
		PaymentMethod: method,
		PaymentProof:  proof,
	}, nil
}

// newOrderID собирает идентификатор вида PROD-240901-9F2C41AB: префикс типа, дата и
// случайный суффикс. Суффикс берется из UUID а не из текущего времени, чтобы два заказа
// в одну миллисекунду не получили одинаковый id; 4 байта оставляют вероятность коллизии
// в пределах дня пренебрежимой, а остаточные коллизии разрешает ретрай записи.
func newOrderID(kind OrderKind, now time.Time) string {
	id := uuid.New()
	return fmt.Sprintf("%s-%s-%X", kind.Prefix(), now.Format("060102"), id[:4])
}
