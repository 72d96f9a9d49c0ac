// Package memrepo - встраиваемое хранилище в памяти процесса. Go-аналог localStorage-базы
// исходного приложения: включается, когда DSN постгреса не задан, и используется в тестах.
package memrepo

import (
	"context"
	"sync"

	"github.com/fsdevblog/atom-point/pkg/uow"
)

// UnitOfWork реализация uow.UOW без базы данных. Do выполняет колбек под общим мьютексом:
// все денежные сценарии (проверка баланса + списание, CAS статуса заказа) становятся
// одной критической секцией, что закрывает гонку check-then-act из двух параллельных покупок.
type UnitOfWork struct {
	mu           sync.Mutex
	repositories map[uow.RepositoryName]uow.RepositoryFactory
}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{
		repositories: make(map[uow.RepositoryName]uow.RepositoryFactory),
	}
}

// Register регистрирует фабрику репозитория. Если имя уже занято, возвращает
// uow.ErrRepositoryAlreadyRegistered.
func (u *UnitOfWork) Register(name uow.RepositoryName, factory uow.RepositoryFactory) error {
	if _, ok := u.repositories[name]; ok {
		return uow.ErrRepositoryAlreadyRegistered
	}
	u.repositories[name] = factory
	return nil
}

// Do выполняет fn под мьютексом. Отката здесь нет: как и в исходном приложении,
// частично примененные мутации при ошибке не отменяются, поэтому сервисный слой
// обязан выполнять все проверки до первой записи.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx uow.TX) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return fn(ctx, uow.NewTransaction(nil, u.repositories))
}

// GetRepository возвращает репозиторий или ошибку uow.ErrRepositoryNotRegistered.
func (u *UnitOfWork) GetRepository(name uow.RepositoryName) (uow.Repository, error) {
	if factory, ok := u.repositories[name]; ok {
		return factory(nil), nil
	}
	return nil, uow.ErrRepositoryNotRegistered
}
