package service

import (
	"context"
	"strings"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
	"github.com/fsdevblog/atom-point/pkg/uow"
)

// PaymentAccountService реквизиты платежных каналов: чтение для страницы пополнения,
// запись для админки.
type PaymentAccountService struct {
	paymentRepo PaymentAccountRepository
}

func NewPaymentAccountService(u uow.UOW) (*PaymentAccountService, error) {
	paymentRepo, paymentRepoErr :=
		uow.GetRepositoryAs[PaymentAccountRepository](u, uow.RepositoryName(repoargs.PaymentAccountRepoName))
	if paymentRepoErr != nil {
		return nil, paymentRepoErr
	}
	return &PaymentAccountService{paymentRepo: paymentRepo}, nil
}

func (p *PaymentAccountService) List(ctx context.Context) ([]domain.PaymentAccount, error) {
	accounts, err := p.paymentRepo.List(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return accounts, nil
}

func (p *PaymentAccountService) Upsert(ctx context.Context, acc domain.PaymentAccount) error {
	if strings.TrimSpace(acc.Method) == "" {
		return domain.NewValidationError("method", "is required")
	}
	if strings.TrimSpace(acc.Number) == "" {
		return domain.NewValidationError("number", "is required")
	}
	return p.paymentRepo.Upsert(ctx, acc) //nolint:wrapcheck
}

func (p *PaymentAccountService) Delete(ctx context.Context, method string) error {
	return p.paymentRepo.Delete(ctx, method) //nolint:wrapcheck
}
