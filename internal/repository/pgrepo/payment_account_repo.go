package pgrepo

import (
	"context"

	"github.com/fsdevblog/atom-point/internal/domain"
)

type PaymentAccountRepository struct {
	conn DBTX
}

func NewPaymentAccountRepository(conn DBTX) *PaymentAccountRepository {
	return &PaymentAccountRepository{conn: conn}
}

// Get возвращает реквизиты платежного канала по его имени (KPay, Wave Pay и тд).
func (p *PaymentAccountRepository) Get(ctx context.Context, method string) (*domain.PaymentAccount, error) {
	var acc domain.PaymentAccount
	err := p.conn.QueryRow(ctx, `
		SELECT method, name, number FROM payment_accounts WHERE method = $1`, method).
		Scan(&acc.Method, &acc.Name, &acc.Number)
	if err != nil {
		return nil, convertErr(err, "getting payment account `%s`", method)
	}
	return &acc, nil
}

func (p *PaymentAccountRepository) List(ctx context.Context) ([]domain.PaymentAccount, error) {
	rows, err := p.conn.Query(ctx, `SELECT method, name, number FROM payment_accounts ORDER BY method`)
	if err != nil {
		return nil, convertErr(err, "listing payment accounts")
	}
	defer rows.Close()

	var accounts []domain.PaymentAccount
	for rows.Next() {
		var acc domain.PaymentAccount
		if scanErr := rows.Scan(&acc.Method, &acc.Name, &acc.Number); scanErr != nil {
			return nil, convertErr(scanErr, "scanning payment account row")
		}
		accounts = append(accounts, acc)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "iterating payment account rows")
	}
	return accounts, nil
}

func (p *PaymentAccountRepository) Upsert(ctx context.Context, acc domain.PaymentAccount) error {
	_, err := p.conn.Exec(ctx, `
		INSERT INTO payment_accounts (method, name, number)
		VALUES ($1, $2, $3)
		ON CONFLICT (method) DO UPDATE SET name = $2, number = $3`,
		acc.Method, acc.Name, acc.Number,
	)
	if err != nil {
		return convertErr(err, "upserting payment account `%s`", acc.Method)
	}
	return nil
}

func (p *PaymentAccountRepository) Delete(ctx context.Context, method string) error {
	if _, err := p.conn.Exec(ctx, `DELETE FROM payment_accounts WHERE method = $1`, method); err != nil {
		return convertErr(err, "deleting payment account `%s`", method)
	}
	return nil
}
