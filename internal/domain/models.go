package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string
	// EncryptedPassword хранит bcrypt-хеш, оригинальный пароль нигде не сохраняется.
	EncryptedPassword string
	IsAdmin           bool
	// Credits текущий баланс в кредитах. Меняется только через ApplyCreditDelta.
	Credits decimal.Decimal
	// SecurityAmount 4-значный секрет восстановления пароля. Задается при регистрации.
	SecurityAmount int
	Banned         bool
	Notifications  []string
}

type Order struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    int64
	Kind      OrderKind
	// ProductName для PRODUCT заказов - название товара, для CREDIT_TOPUP - синтетическая
	// метка вида "20.00 Credits Purchase".
	ProductName string
	Operator    string
	// Cost для PRODUCT заказов выражен в кредитах, для CREDIT_TOPUP - в MMK.
	// Несимметричность единиц унаследована от исходной модели данных и обрабатывается
	// в Approve/Decline, менять нельзя.
	Cost   decimal.Decimal
	Status OrderStatusType
	// DeliveryInfo номер телефона доставки, только для PRODUCT заказов.
	DeliveryInfo  string
	PaymentMethod string
	// PaymentProof скриншот платежа в виде data-URL строки, только для CREDIT_TOPUP.
	PaymentProof string
	// ActionBy юзернейм админа, закрывшего заказ. Пустой пока заказ в Pending Approval.
	ActionBy string
}

type Product struct {
	ID       string
	Operator string
	Category string
	Name     string
	PriceMMK decimal.Decimal
	Extra    string
}

// PaymentAccount реквизиты платежного канала (KPay, Wave Pay и тд).
type PaymentAccount struct {
	Method string
	Name   string
	Number string
}
