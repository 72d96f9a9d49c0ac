package memrepo

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]*domain.Product)}
}

func (p *ProductRepository) Find(_ context.Context, operator, category, id string) (*domain.Product, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	product, ok := p.products[id]
	if !ok || product.Operator != operator || product.Category != category {
		return nil, domain.ErrRecordNotFound
	}
	clone := *product
	return &clone, nil
}

func (p *ProductRepository) ListByOperator(_ context.Context, operator string) ([]domain.Product, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var products []domain.Product
	for _, product := range p.products {
		if product.Operator == operator {
			products = append(products, *product)
		}
	}
	slices.SortFunc(products, func(a, b domain.Product) int {
		if c := strings.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return products, nil
}

func (p *ProductRepository) Upsert(_ context.Context, args repoargs.ProductUpsert) (*domain.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	product := &domain.Product{
		ID:       args.ID,
		Operator: args.Operator,
		Category: args.Category,
		Name:     args.Name,
		PriceMMK: args.PriceMMK,
		Extra:    args.Extra,
	}
	p.products[product.ID] = product
	clone := *product
	return &clone, nil
}

func (p *ProductRepository) Delete(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.products, id)
	return nil
}
