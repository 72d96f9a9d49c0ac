package memrepo

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/fsdevblog/atom-point/internal/domain"
)

type PaymentAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.PaymentAccount
}

func NewPaymentAccountRepository() *PaymentAccountRepository {
	return &PaymentAccountRepository{accounts: make(map[string]domain.PaymentAccount)}
}

func (p *PaymentAccountRepository) Get(_ context.Context, method string) (*domain.PaymentAccount, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	acc, ok := p.accounts[method]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &acc, nil
}

func (p *PaymentAccountRepository) List(_ context.Context) ([]domain.PaymentAccount, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	accounts := make([]domain.PaymentAccount, 0, len(p.accounts))
	for _, acc := range p.accounts {
		accounts = append(accounts, acc)
	}
	slices.SortFunc(accounts, func(a, b domain.PaymentAccount) int {
		return strings.Compare(a.Method, b.Method)
	})
	return accounts, nil
}

func (p *PaymentAccountRepository) Upsert(_ context.Context, acc domain.PaymentAccount) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[acc.Method] = acc
	return nil
}

func (p *PaymentAccountRepository) Delete(_ context.Context, method string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.accounts, method)
	return nil
}
