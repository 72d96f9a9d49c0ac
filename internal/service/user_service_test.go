package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/service/tokens"
)

const testJWTSecret = "test-secret"

type UserServiceTestSuite struct {
	suite.Suite
	store       *testStore
	userService *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	s.store = newTestStore(s)

	userService, servErr := NewUserService(s.store.unitOfWork, []byte(testJWTSecret))
	s.Require().NoError(servErr)
	s.userService = userService
}

func (s *UserServiceTestSuite) TestRegister() {
	user, token, err := s.userService.Register(context.Background(), RegisterUserArgs{
		Username: "aung",
		Password: "secret123",
	})
	s.Require().NoError(err)

	s.GreaterOrEqual(user.ID, int64(100000))
	s.LessOrEqual(user.ID, int64(999999))
	s.GreaterOrEqual(user.SecurityAmount, 1000)
	s.LessOrEqual(user.SecurityAmount, 9999)
	s.True(user.Credits.IsZero())
	s.False(user.IsAdmin)
	s.Equal([]string{welcomeNotification}, user.Notifications)
	// пароль не должен хранится открытым текстом
	s.NotEqual("secret123", user.EncryptedPassword)

	parsed, tokenErr := tokens.ValidateUserJWT(token, []byte(testJWTSecret))
	s.Require().NoError(tokenErr)
	claims, ok := parsed.Claims.(*tokens.UserClaims)
	s.Require().True(ok)
	s.Equal(user.ID, claims.ID)
}

func (s *UserServiceTestSuite) TestRegisterDuplicateUsername() {
	_, _, err := s.userService.Register(context.Background(), RegisterUserArgs{
		Username: "aung",
		Password: "secret123",
	})
	s.Require().NoError(err)

	_, _, dupErr := s.userService.Register(context.Background(), RegisterUserArgs{
		Username: "aung",
		Password: "another123",
	})
	s.Require().ErrorIs(dupErr, domain.ErrDuplicateKey)
}

func (s *UserServiceTestSuite) TestLogin() {
	registered, _, err := s.userService.Register(context.Background(), RegisterUserArgs{
		Username: "aung",
		Password: "secret123",
	})
	s.Require().NoError(err)

	user, token, loginErr := s.userService.Login(context.Background(), "aung", "secret123")
	s.Require().NoError(loginErr)
	s.Equal(registered.ID, user.ID)
	s.NotEmpty(token)
}

func (s *UserServiceTestSuite) TestLoginWrongPassword() {
	_, _, err := s.userService.Register(context.Background(), RegisterUserArgs{
		Username: "aung",
		Password: "secret123",
	})
	s.Require().NoError(err)

	_, _, loginErr := s.userService.Login(context.Background(), "aung", "wrong-pass")
	s.Require().ErrorIs(loginErr, domain.ErrPasswordMissMatch)
}

func (s *UserServiceTestSuite) TestLoginBanned() {
	user, _, err := s.userService.Register(context.Background(), RegisterUserArgs{
		Username: "aung",
		Password: "secret123",
	})
	s.Require().NoError(err)
	s.Require().NoError(s.userService.SetBanned(context.Background(), user.ID, true))

	_, _, loginErr := s.userService.Login(context.Background(), "aung", "secret123")
	s.Require().ErrorIs(loginErr, domain.ErrUserBanned)
}

func (s *UserServiceTestSuite) TestRecoverPassword() {
	user, _, err := s.userService.Register(context.Background(), RegisterUserArgs{
		Username: "aung",
		Password: "secret123",
	})
	s.Require().NoError(err)

	recoverErr := s.userService.RecoverPassword(context.Background(), "aung", user.SecurityAmount, "newpass456")
	s.Require().NoError(recoverErr)

	_, _, oldLoginErr := s.userService.Login(context.Background(), "aung", "secret123")
	s.Require().ErrorIs(oldLoginErr, domain.ErrPasswordMissMatch)

	_, _, newLoginErr := s.userService.Login(context.Background(), "aung", "newpass456")
	s.Require().NoError(newLoginErr)
}

func (s *UserServiceTestSuite) TestRecoverPasswordWrongCode() {
	user, _, err := s.userService.Register(context.Background(), RegisterUserArgs{
		Username: "aung",
		Password: "secret123",
	})
	s.Require().NoError(err)

	wrongCode := user.SecurityAmount + 1
	recoverErr := s.userService.RecoverPassword(context.Background(), "aung", wrongCode, "newpass456")

	var valErr *domain.ValidationError
	s.Require().ErrorAs(recoverErr, &valErr)
	s.Equal("securityAmount", valErr.Field)

	// старый пароль продолжает работать
	_, _, loginErr := s.userService.Login(context.Background(), "aung", "secret123")
	s.Require().NoError(loginErr)
}

func (s *UserServiceTestSuite) TestAdjustCredits() {
	user := s.store.createUser(s, 123456, "aung", "100.00")

	granted, grantErr := s.userService.AdjustCredits(context.Background(), user.ID, decimal.NewFromInt(50))
	s.Require().NoError(grantErr)
	s.True(granted.Credits.Equal(decimal.NewFromInt(150)))

	debited, debitErr := s.userService.AdjustCredits(context.Background(), user.ID, decimal.NewFromInt(-30))
	s.Require().NoError(debitErr)
	s.True(debited.Credits.Equal(decimal.NewFromInt(120)))
}

// рассылка дописывает сообщение только в ленты перечисленных юзеров.
func (s *UserServiceTestSuite) TestBroadcast() {
	first := s.store.createUser(s, 123456, "aung", "0")
	second := s.store.createUser(s, 234567, "kyaw", "0")
	bystander := s.store.createUser(s, 345678, "thiri", "0")

	err := s.userService.Broadcast(
		context.Background(), []int64{first.ID, second.ID}, "Maintenance tonight 22:00",
	)
	s.Require().NoError(err)

	for _, id := range []int64{first.ID, second.ID} {
		user, findErr := s.store.userRepo.FindByID(context.Background(), id)
		s.Require().NoError(findErr)
		s.Contains(user.Notifications, "Maintenance tonight 22:00")
	}

	untouched, findErr := s.store.userRepo.FindByID(context.Background(), bystander.ID)
	s.Require().NoError(findErr)
	s.NotContains(untouched.Notifications, "Maintenance tonight 22:00")
}

// неизвестный получатель отменяет рассылку целиком: ни одна лента не меняется.
func (s *UserServiceTestSuite) TestBroadcastUnknownRecipient() {
	user := s.store.createUser(s, 123456, "aung", "0")

	err := s.userService.Broadcast(context.Background(), []int64{user.ID, 888888}, "hello")
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)

	unchanged, findErr := s.store.userRepo.FindByID(context.Background(), user.ID)
	s.Require().NoError(findErr)
	s.NotContains(unchanged.Notifications, "hello")
}

func (s *UserServiceTestSuite) TestBroadcastValidation() {
	user := s.store.createUser(s, 123456, "aung", "0")

	var valErr *domain.ValidationError

	blankErr := s.userService.Broadcast(context.Background(), []int64{user.ID}, "   ")
	s.Require().ErrorAs(blankErr, &valErr)
	s.Equal("message", valErr.Field)

	emptyErr := s.userService.Broadcast(context.Background(), []int64{}, "hello")
	s.Require().ErrorAs(emptyErr, &valErr)
	s.Equal("userIDs", valErr.Field)
}

func (s *UserServiceTestSuite) TestPurge() {
	user := s.store.createUser(s, 123456, "aung", "100.00")

	order, orderErr := domain.NewCreditTopupOrder(
		user.ID, decimal.NewFromInt(1000), "KPay", "proof", decimal.NewFromInt(100),
	)
	s.Require().NoError(orderErr)
	_, createErr := s.store.orderRepo.Create(context.Background(), order)
	s.Require().NoError(createErr)

	s.Require().NoError(s.userService.Purge(context.Background(), user.ID))

	_, findErr := s.store.userRepo.FindByID(context.Background(), user.ID)
	s.Require().ErrorIs(findErr, domain.ErrRecordNotFound)

	orders, listErr := s.store.orderRepo.GetByUserID(context.Background(), user.ID)
	s.Require().NoError(listErr)
	s.Empty(orders)
}
