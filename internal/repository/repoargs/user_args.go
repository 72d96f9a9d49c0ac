package repoargs

import "github.com/shopspring/decimal"

type CreateUser struct {
	// ID генерируется сервисным слоем (случайное 6-значное число), а не базой.
	ID                int64
	Username          string
	EncryptedPassword string
	IsAdmin           bool
	SecurityAmount    int
	Credits           decimal.Decimal
	Notifications     []string
}
