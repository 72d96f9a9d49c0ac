package uow

import "context"

type RepositoryName string
type Repository any

// Conn абстракция соединения, передаваемая фабрике репозиториев. Для постгреса это
// pgxpool.Pool либо pgx.Tx, для in-memory хранилища соединения нет и передается nil.
type Conn any

type RepositoryFactory func(Conn) Repository

type TX interface {
	Get(name RepositoryName) (Repository, error)
}

type UOW interface {
	Register(name RepositoryName, factory RepositoryFactory) error
	Do(ctx context.Context, fn func(ctx context.Context, tx TX) error) error
	GetRepository(name RepositoryName) (Repository, error)
}
