package api

import (
	"time"

	"github.com/fsdevblog/atom-point/internal/domain"
)

type UserResponse struct {
	ID        int64     `json:"ID"`
	Username  string    `json:"login"`
	IsAdmin   bool      `json:"isAdmin"`
	Credits   string    `json:"credits"`
	Banned    bool      `json:"banned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		IsAdmin:   u.IsAdmin,
		Credits:   u.Credits.StringFixed(2),
		Banned:    u.Banned,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type OrderResponse struct {
	ID            string    `json:"id"`
	UserID        int64     `json:"userID"`
	Kind          string    `json:"kind"`
	ProductName   string    `json:"productName"`
	Operator      string    `json:"operator,omitempty"`
	Cost          string    `json:"cost"`
	Status        string    `json:"status"`
	DeliveryInfo  string    `json:"deliveryInfo,omitempty"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	PaymentProof  string    `json:"paymentProof,omitempty"`
	ActionBy      string    `json:"actionBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// newOrderResponse маппит заказ в ответ. withProof управляет выдачей скриншота платежа:
// в списках он не нужен и заметно раздувает ответ (data-URL).
func newOrderResponse(o domain.Order, withProof bool) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Kind:          string(o.Kind),
		ProductName:   o.ProductName,
		Operator:      o.Operator,
		Cost:          o.Cost.StringFixed(2),
		Status:        string(o.Status),
		DeliveryInfo:  o.DeliveryInfo,
		PaymentMethod: o.PaymentMethod,
		ActionBy:      o.ActionBy,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if withProof {
		resp.PaymentProof = o.PaymentProof
	}
	return resp
}

func newOrderResponses(orders []domain.Order, withProof bool) []OrderResponse {
	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, newOrderResponse(o, withProof))
	}
	return resp
}

type ProductResponse struct {
	ID       string `json:"id"`
	Operator string `json:"operator"`
	Category string `json:"category"`
	Name     string `json:"name"`
	PriceMMK string `json:"priceMMK"`
	Extra    string `json:"extra,omitempty"`
}

func newProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:       p.ID,
		Operator: p.Operator,
		Category: p.Category,
		Name:     p.Name,
		PriceMMK: p.PriceMMK.StringFixed(2),
		Extra:    p.Extra,
	}
}
