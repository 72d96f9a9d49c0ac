package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/atom-point/internal/config"
	"github.com/fsdevblog/atom-point/internal/notify"
	"github.com/fsdevblog/atom-point/internal/repository/memrepo"
	"github.com/fsdevblog/atom-point/internal/repository/pgrepo"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
	"github.com/fsdevblog/atom-point/internal/service"
	"github.com/fsdevblog/atom-point/internal/transport/api"
	"github.com/fsdevblog/atom-point/pkg/uow"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app on %s", a.Config.RunAddress)

	mmkPerCredit, rateErr := a.Config.MMKPerCreditRate()
	if rateErr != nil {
		return fmt.Errorf("app run: %s", rateErr.Error())
	}

	unitOfWork, closeStore, uowErr := a.initStore(notifyCtx)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}
	defer closeStore()

	userRepo, userRepoErr := uow.GetRepositoryAs[service.UserRepository](
		unitOfWork, uow.RepositoryName(repoargs.UserRepoName),
	)
	if userRepoErr != nil {
		return fmt.Errorf("app run: %s", userRepoErr.Error())
	}

	var publisher *notify.Publisher
	if a.Config.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: a.Config.RedisAddr})
		defer redisClient.Close() //nolint:errcheck
		publisher = notify.NewPublisher(redisClient)
	}
	dispatcher := notify.New(userRepo, publisher, a.Logger)
	go dispatcher.Run(notifyCtx)

	services, sErr := service.Factory(service.FactoryArgs{
		UnitOfWork:   unitOfWork,
		JWTSecret:    []byte(a.Config.JWTUserSecret),
		Notifier:     dispatcher,
		MMKPerCredit: mmkPerCredit,
	})
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router, routerErr := api.New(api.RouterArgs{
		Logger:         a.Logger,
		UserService:    services.UserService,
		OrderService:   services.OrderService,
		CatalogService: services.CatalogService,
		PaymentService: services.PaymentService,
		JWTSecretKey:   []byte(a.Config.JWTUserSecret),
	})
	if routerErr != nil {
		return fmt.Errorf("app run: %s", routerErr.Error())
	}

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

// initStore выбирает хранилище по конфигу: постгрес при заданном DSN, иначе
// хранилище в памяти с каталогом и платежными каналами по умолчанию.
func (a *App) initStore(ctx context.Context) (uow.UOW, func(), error) {
	if a.Config.DatabaseDSN == "" {
		a.Logger.Warn("database DSN is blank, falling back to in-memory store")
		unitOfWork, memErr := initMemUOW(ctx)
		return unitOfWork, func() {}, memErr
	}

	conn, connErr := pgrepo.Connect(ctx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return nil, nil, fmt.Errorf("init store: %s", connErr.Error())
	}
	unitOfWork, pgErr := initPgUOW(conn)
	if pgErr != nil {
		conn.Close()
		return nil, nil, pgErr
	}
	return unitOfWork, conn.Close, nil
}

func initPgUOW(conn *pgxpool.Pool) (*uow.PgxUnitOfWork, error) {
	unitOfWork := uow.NewPgxUnitOfWork(conn)

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName: func(c uow.Conn) uow.Repository {
			return pgrepo.NewUserRepository(c.(pgrepo.DBTX)) //nolint:forcetypeassert
		},
		repoargs.OrderRepoName: func(c uow.Conn) uow.Repository {
			return pgrepo.NewOrderRepository(c.(pgrepo.DBTX)) //nolint:forcetypeassert
		},
		repoargs.ProductRepoName: func(c uow.Conn) uow.Repository {
			return pgrepo.NewProductRepository(c.(pgrepo.DBTX)) //nolint:forcetypeassert
		},
		repoargs.PaymentAccountRepoName: func(c uow.Conn) uow.Repository {
			return pgrepo.NewPaymentAccountRepository(c.(pgrepo.DBTX)) //nolint:forcetypeassert
		},
	}
	for name, factory := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}
	return unitOfWork, nil
}

func initMemUOW(ctx context.Context) (*memrepo.UnitOfWork, error) {
	unitOfWork := memrepo.NewUnitOfWork()

	userRepo := memrepo.NewUserRepository()
	orderRepo := memrepo.NewOrderRepository()
	productRepo := memrepo.NewProductRepository()
	paymentRepo := memrepo.NewPaymentAccountRepository()

	// in-memory репозитории синглтоны: фабрика игнорирует соединение.
	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName:           func(uow.Conn) uow.Repository { return userRepo },
		repoargs.OrderRepoName:          func(uow.Conn) uow.Repository { return orderRepo },
		repoargs.ProductRepoName:        func(uow.Conn) uow.Repository { return productRepo },
		repoargs.PaymentAccountRepoName: func(uow.Conn) uow.Repository { return paymentRepo },
	}
	for name, factory := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}

	if seedErr := memrepo.Seed(ctx, productRepo, paymentRepo); seedErr != nil {
		return nil, fmt.Errorf("init UOW: %s", seedErr.Error())
	}
	return unitOfWork, nil
}
