package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
	"github.com/fsdevblog/atom-point/internal/service/tokens"
	"github.com/fsdevblog/atom-point/pkg/uow"
)

const JWTTokenExpire = 1 * time.Hour

const welcomeNotification = "Welcome to the new Atom Point Web!"

// maxIDAttempts кол-во попыток сгенерировать свободный 6-значный id юзера.
const maxIDAttempts = 5

type UserService struct {
	uow            uow.UOW
	userRepo       UserRepository
	jwtTokenSecret []byte
}

func NewUserService(u uow.UOW, jwtTokenSecret []byte) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		jwtTokenSecret: jwtTokenSecret,
	}, nil
}

type RegisterUserArgs struct {
	Username string
	Password string
}

// Register создает юзера со случайным 6-значным id и 4-значным кодом восстановления.
// Код возвращается юзеру единственный раз - в приветственном ответе. После успешного
// создания генерирует jwt token. Возвращает созданного юзера, токен и ошибку.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, string, error) {
	password, hashErr := s.hashPassword(args.Password)
	if hashErr != nil {
		return nil, "", fmt.Errorf("registering user: %s", hashErr.Error())
	}

	var user *domain.User
	var token string

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}

		if _, findErr := userRepo.FindByUsername(c, args.Username); findErr == nil {
			return domain.ErrDuplicateKey
		} else if !errors.Is(findErr, domain.ErrRecordNotFound) {
			return findErr //nolint:wrapcheck
		}

		var createErr error
		for i := 0; i < maxIDAttempts; i++ {
			user, createErr = userRepo.Create(c, repoargs.CreateUser{
				ID:                randomUserID(),
				Username:          args.Username,
				EncryptedPassword: password,
				SecurityAmount:    randomSecurityAmount(),
				Credits:           decimal.Zero,
				Notifications:     []string{welcomeNotification},
			})
			if createErr == nil {
				break
			}
			// Коллизия случайного id - пробуем следующий. Любая другая ошибка фатальна.
			if !errors.Is(createErr, domain.ErrDuplicateKey) {
				return createErr //nolint:wrapcheck
			}
		}
		if createErr != nil {
			return fmt.Errorf("no free user id after %d attempts: %w", maxIDAttempts, createErr)
		}

		var tokenErr error
		token, tokenErr = tokens.GenerateUserJWT(user.ID, user.IsAdmin, JWTTokenExpire, s.jwtTokenSecret)
		return tokenErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", txErr)
	}
	return user, token, nil
}

// Login аутентифицирует юзера. Забаненные юзеры получают domain.ErrUserBanned,
// неверный пароль - domain.ErrPasswordMissMatch.
func (s *UserService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, findErr := s.userRepo.FindByUsername(ctx, username)
	if findErr != nil {
		return nil, "", fmt.Errorf("logging in: %w", findErr)
	}
	if !s.comparePasswords(user.EncryptedPassword, password) {
		return nil, "", domain.ErrPasswordMissMatch
	}
	if user.Banned {
		return nil, "", domain.ErrUserBanned
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, user.IsAdmin, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("logging in: %w", tokenErr)
	}
	return user, token, nil
}

// RecoverPassword сбрасывает пароль по коду восстановления, выданному при регистрации.
func (s *UserService) RecoverPassword(ctx context.Context, username string, securityAmount int, newPassword string) error {
	user, findErr := s.userRepo.FindByUsername(ctx, username)
	if findErr != nil {
		return fmt.Errorf("recovering password: %w", findErr)
	}
	if user.SecurityAmount != securityAmount {
		return domain.NewValidationError("securityAmount", "does not match")
	}

	password, hashErr := s.hashPassword(newPassword)
	if hashErr != nil {
		return fmt.Errorf("recovering password: %s", hashErr.Error())
	}
	if updErr := s.userRepo.UpdatePassword(ctx, user.ID, password); updErr != nil {
		return fmt.Errorf("recovering password: %w", updErr)
	}
	return nil
}

// AdjustCredits ручная админская корректировка баланса через леджер. Знак delta
// не проверяется - это прямой доступ к ApplyCreditDelta, ответственность на админе.
func (s *UserService) AdjustCredits(ctx context.Context, userID int64, delta decimal.Decimal) (*domain.User, error) {
	var updatedUser *domain.User

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}

		user, findErr := userRepo.FindByIDForUpdate(c, userID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		adjusted := domain.ApplyCreditDelta(*user, delta)

		var updErr error
		updatedUser, updErr = userRepo.UpdateCredits(c, userID, adjusted.Credits)
		return updErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("adjusting credits of user %d: %w", userID, txErr)
	}
	return updatedUser, nil
}

func (s *UserService) SetBanned(ctx context.Context, userID int64, banned bool) error {
	if err := s.userRepo.SetBanned(ctx, userID, banned); err != nil {
		return fmt.Errorf("setting banned=%t for user %d: %w", banned, userID, err)
	}
	return nil
}

// Purge безвозвратно удаляет юзера вместе со всеми его заказами, независимо от их статусов.
func (s *UserService) Purge(ctx context.Context, userID int64) error {
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}

		if delOrdersErr := orderRepo.DeleteByUserID(c, userID); delOrdersErr != nil {
			return delOrdersErr //nolint:wrapcheck
		}
		return userRepo.Delete(c, userID) //nolint:wrapcheck
	})

	if txErr != nil {
		return fmt.Errorf("purging user %d: %w", userID, txErr)
	}
	return nil
}

// Broadcast рассылает сообщение в ленты уведомлений выбранных юзеров. Список
// получателей проверяется целиком до первой записи: неизвестный id возвращает
// domain.ErrRecordNotFound и ни одна лента не меняется.
func (s *UserService) Broadcast(ctx context.Context, userIDs []int64, message string) error {
	if strings.TrimSpace(message) == "" {
		return domain.NewValidationError("message", "is required")
	}
	if len(userIDs) == 0 {
		return domain.NewValidationError("userIDs", "at least one recipient is required")
	}

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}

		for _, userID := range userIDs {
			if _, findErr := userRepo.FindByID(c, userID); findErr != nil {
				return findErr //nolint:wrapcheck
			}
		}
		for _, userID := range userIDs {
			if appendErr := userRepo.AppendNotification(c, userID, message); appendErr != nil {
				return appendErr //nolint:wrapcheck
			}
		}
		return nil
	})

	if txErr != nil {
		return fmt.Errorf("broadcasting message: %w", txErr)
	}
	return nil
}

func (s *UserService) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

func (s *UserService) ListAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return users, nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %s", err.Error())
	}
	return string(bytes), nil
}

func (s *UserService) comparePasswords(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// randomUserID случайный 6-значный идентификатор юзера.
func randomUserID() int64 {
	return int64(100000 + rand.Intn(900000)) //nolint:gosec
}

// randomSecurityAmount случайный 4-значный код восстановления пароля.
func randomSecurityAmount() int {
	return 1000 + rand.Intn(9000) //nolint:gosec
}
