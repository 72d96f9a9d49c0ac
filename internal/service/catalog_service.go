package service

import (
	"context"
	"strings"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
	"github.com/fsdevblog/atom-point/pkg/uow"
)

// CatalogService каталог товаров. Для ядра покупок каталог read-only;
// запись доступна только через типизированную админскую команду Upsert.
type CatalogService struct {
	productRepo ProductRepository
}

func NewCatalogService(u uow.UOW) (*CatalogService, error) {
	productRepo, productRepoErr :=
		uow.GetRepositoryAs[ProductRepository](u, uow.RepositoryName(repoargs.ProductRepoName))
	if productRepoErr != nil {
		return nil, productRepoErr
	}
	return &CatalogService{productRepo: productRepo}, nil
}

func (c *CatalogService) Find(ctx context.Context, operator, category, id string) (*domain.Product, error) {
	product, err := c.productRepo.Find(ctx, operator, category, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return product, nil
}

func (c *CatalogService) ListByOperator(ctx context.Context, operator string) ([]domain.Product, error) {
	products, err := c.productRepo.ListByOperator(ctx, operator)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return products, nil
}

// Upsert валидирует команду редактирования каталога и применяет её.
// В отличие от исходной админки, принимавшей произвольную форму, команда типизирована,
// и невалидные позиции до каталога не доходят.
func (c *CatalogService) Upsert(ctx context.Context, args repoargs.ProductUpsert) (*domain.Product, error) {
	if strings.TrimSpace(args.ID) == "" {
		return nil, domain.NewValidationError("id", "is required")
	}
	if strings.TrimSpace(args.Operator) == "" {
		return nil, domain.NewValidationError("operator", "is required")
	}
	if strings.TrimSpace(args.Category) == "" {
		return nil, domain.NewValidationError("category", "is required")
	}
	if strings.TrimSpace(args.Name) == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if !args.PriceMMK.IsPositive() {
		return nil, domain.NewValidationError("priceMMK", "must be greater than zero")
	}

	product, err := c.productRepo.Upsert(ctx, args)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return product, nil
}

func (c *CatalogService) Delete(ctx context.Context, id string) error {
	return c.productRepo.Delete(ctx, id) //nolint:wrapcheck
}
