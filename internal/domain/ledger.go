package domain

import "github.com/shopspring/decimal"

// ApplyCreditDelta возвращает копию юзера с балансом credits + amount. Знак amount
// не проверяется: дебет передается отрицательным числом, достаточность баланса
// обязан проверить вызывающий до применения.
func ApplyCreditDelta(user User, amount decimal.Decimal) User {
	user.Credits = user.Credits.Add(amount)
	return user
}

// CreditsFromMMK конвертирует сумму в MMK в кредиты по фиксированному курсу mmkPerCredit.
func CreditsFromMMK(amountMMK, mmkPerCredit decimal.Decimal) decimal.Decimal {
	return amountMMK.Div(mmkPerCredit)
}
