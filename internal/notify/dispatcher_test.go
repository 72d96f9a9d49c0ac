package notify

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/fsdevblog/atom-point/internal/repository/memrepo"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
)

func TestDispatcherDeliversToAllAdmins(t *testing.T) {
	userRepo := memrepo.NewUserRepository()

	for _, u := range []struct {
		id       int64
		username string
		isAdmin  bool
	}{
		{id: 999999, username: "admin1", isAdmin: true},
		{id: 888888, username: "admin2", isAdmin: true},
		{id: 123456, username: "aung", isAdmin: false},
	} {
		_, err := userRepo.Create(context.Background(), repoargs.CreateUser{
			ID:                u.id,
			Username:          u.username,
			EncryptedPassword: "hash",
			IsAdmin:           u.isAdmin,
			SecurityAmount:    1234,
			Credits:           decimal.Zero,
			Notifications:     []string{},
		})
		require.NoError(t, err)
	}

	l := logrus.New()
	l.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := New(userRepo, nil, l)
	go dispatcher.Run(ctx)

	dispatcher.NotifyAdmins(ctx, "📦 New Order: aung bought 500 Points for 09789037037.")

	require.Eventually(t, func() bool {
		for _, adminID := range []int64{999999, 888888} {
			admin, findErr := userRepo.FindByID(context.Background(), adminID)
			if findErr != nil || len(admin.Notifications) != 1 {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond, "both admins must receive the notification")

	// обычный юзер уведомление не получает
	user, err := userRepo.FindByID(context.Background(), 123456)
	require.NoError(t, err)
	require.Empty(t, user.Notifications)
}
