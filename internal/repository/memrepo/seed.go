package memrepo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
)

// Seed наполняет in-memory хранилище стартовым каталогом и платежными каналами.
// Набор повторяет стартовые данные исходного приложения в сокращенном виде.
func Seed(ctx context.Context, products *ProductRepository, accounts *PaymentAccountRepository) error {
	seedProducts := []repoargs.ProductUpsert{
		{ID: "atom_pts_500", Operator: "ATOM", Category: "Points", Name: "500 Points", PriceMMK: decimal.NewFromInt(1500)},
		{ID: "atom_pts_1000", Operator: "ATOM", Category: "Points", Name: "1000 Points", PriceMMK: decimal.NewFromInt(3000)},
		{ID: "atom_min_50", Operator: "ATOM", Category: "Mins", Name: "Any-net 50 Mins", PriceMMK: decimal.NewFromInt(800)},
		{ID: "atom_data_1gb", Operator: "ATOM", Category: "Data", Name: "1GB Data", PriceMMK: decimal.NewFromInt(1000)},
		{ID: "mytel_data_1k", Operator: "MYTEL", Category: "Data", Name: "1000MB", PriceMMK: decimal.NewFromInt(950)},
		{ID: "mytel_min_90", Operator: "MYTEL", Category: "Mins", Name: "90 Mins", PriceMMK: decimal.NewFromInt(970)},
		{ID: "ooredoo_data_1g", Operator: "OOREDOO", Category: "Data", Name: "1GB", PriceMMK: decimal.NewFromInt(950)},
		{ID: "mpt_data_1.1g", Operator: "MPT", Category: "Data", Name: "1.1GB", PriceMMK: decimal.NewFromInt(950)},
		{ID: "mpt_min_any55", Operator: "MPT", Category: "Minutes", Name: "Any-net 55 MIN", PriceMMK: decimal.NewFromInt(950)},
	}
	for _, product := range seedProducts {
		if _, err := products.Upsert(ctx, product); err != nil {
			return fmt.Errorf("seeding product `%s`: %w", product.ID, err)
		}
	}

	seedAccounts := []domain.PaymentAccount{
		{Method: "KPay", Name: "Atom Point", Number: "09789037037"},
		{Method: "Wave Pay", Name: "Atom Point", Number: "09789037037"},
	}
	for _, acc := range seedAccounts {
		if err := accounts.Upsert(ctx, acc); err != nil {
			return fmt.Errorf("seeding payment account `%s`: %w", acc.Method, err)
		}
	}
	return nil
}
