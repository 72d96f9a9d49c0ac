package domain

type OrderStatusType string

const (
	OrderStatusPendingApproval OrderStatusType = "Pending Approval"
	OrderStatusCompleted       OrderStatusType = "Completed"
	OrderStatusDeclined        OrderStatusType = "Declined"
)

// Terminal сообщает, является ли статус конечным. Из конечного статуса переходов нет.
func (s OrderStatusType) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusDeclined
}

type OrderKind string

const (
	OrderKindProduct     OrderKind = "PRODUCT"
	OrderKindCreditTopup OrderKind = "CREDIT_TOPUP"
)

// Prefix возвращает префикс идентификатора заказа для данного типа.
func (k OrderKind) Prefix() string {
	if k == OrderKindCreditTopup {
		return "CRD"
	}
	return "PROD"
}
