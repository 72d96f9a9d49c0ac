package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/repository/repoargs"
)

// DBTX объединяет pgxpool.Pool и pgx.Tx, чтобы репозитории одинаково работали
// внутри и вне транзакции unit of work.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const userColumns = `id, created_at, updated_at, username, encrypted_password, is_admin,
	credits, security_amount, banned, notifications`

type UserRepository struct {
	conn DBTX
}

func NewUserRepository(conn DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

// Create создает юзера. ID приходит из сервисного слоя. В случае конфликта id или
// юзернейма возвращает domain.ErrDuplicateKey.
func (u *UserRepository) Create(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `
		INSERT INTO users (id, username, encrypted_password, is_admin, credits, security_amount, notifications)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		args.ID, args.Username, args.EncryptedPassword, args.IsAdmin,
		args.Credits, args.SecurityAmount, args.Notifications,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user `%s`", args.Username)
	}
	return user, nil
}

func (u *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return user, nil
}

// FindByIDForUpdate читает юзера с блокировкой строки до конца транзакции. Используется
// в денежных операциях, чтобы проверка баланса и списание работали с одной версией строки.
func (u *UserRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "locking user by id %d", id)
	}
	return user, nil
}

func (u *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by username `%s`", username)
	}
	return user, nil
}

func (u *UserRepository) UpdateCredits(ctx context.Context, id int64, credits decimal.Decimal) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `
		UPDATE users SET credits = $2, updated_at = now() WHERE id = $1
		RETURNING `+userColumns, id, credits)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "updating credits for user %d", id)
	}
	return user, nil
}

func (u *UserRepository) UpdatePassword(ctx context.Context, id int64, encryptedPassword string) error {
	tag, err := u.conn.Exec(ctx, `
		UPDATE users SET encrypted_password = $2, updated_at = now() WHERE id = $1`, id, encryptedPassword)
	if err != nil {
		return convertErr(err, "updating password for user %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating password for user %d", id)
	}
	return nil
}

func (u *UserRepository) SetBanned(ctx context.Context, id int64, banned bool) error {
	tag, err := u.conn.Exec(ctx, `
		UPDATE users SET banned = $2, updated_at = now() WHERE id = $1`, id, banned)
	if err != nil {
		return convertErr(err, "setting banned=%t for user %d", banned, id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "setting banned=%t for user %d", banned, id)
	}
	return nil
}

func (u *UserRepository) AppendNotification(ctx context.Context, id int64, message string) error {
	tag, err := u.conn.Exec(ctx, `
		UPDATE users SET notifications = array_append(notifications, $2), updated_at = now()
		WHERE id = $1`, id, message)
	if err != nil {
		return convertErr(err, "appending notification for user %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "appending notification for user %d", id)
	}
	return nil
}

func (u *UserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	rows, err := u.conn.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, convertErr(err, "listing users")
	}
	return collectUsers(rows)
}

func (u *UserRepository) ListAdmins(ctx context.Context) ([]domain.User, error) {
	rows, err := u.conn.Query(ctx, `SELECT `+userColumns+` FROM users WHERE is_admin ORDER BY created_at`)
	if err != nil {
		return nil, convertErr(err, "listing admins")
	}
	return collectUsers(rows)
}

func (u *UserRepository) Delete(ctx context.Context, id int64) error {
	if _, err := u.conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return convertErr(err, "deleting user %d", id)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Username, &user.EncryptedPassword,
		&user.IsAdmin, &user.Credits, &user.SecurityAmount, &user.Banned, &user.Notifications,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &user, nil
}

func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	defer rows.Close()
	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, convertErr(err, "scanning user row")
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, convertErr(err, "iterating user rows")
	}
	return users, nil
}
