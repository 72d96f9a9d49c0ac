package repoargs

import (
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/atom-point/internal/domain"
)

// UpdateOrderStatus параметры перевода заказа в конечный статус. Обновление выполняется
// по принципу compare-and-swap: строка меняется только если текущий статус равен From.
type UpdateOrderStatus struct {
	ID       string
	From     domain.OrderStatusType
	To       domain.OrderStatusType
	ActionBy string
}

// ProductUpsert типизированная команда админского редактирования каталога.
type ProductUpsert struct {
	ID       string
	Operator string
	Category string
	Name     string
	PriceMMK decimal.Decimal
	Extra    string
}
