package db

import (
	"context"

	"github.com/ioshacker22/2FA-authentication/internal/twofa/entity"
)

const accountColumns = `id, username, password, secret, key_version, created_at`

func (s *DB) GetAccountByUsername(ctx context.Context, username string) (acc *entity.AccountCredentials, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByUsername")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM twofa_accounts WHERE username = $1`, username)

	var out entity.AccountCredentials
	if err = s.mapError(row.Scan(
		&out.ID, &out.Username, &out.Password, &out.Secret, &out.KeyVersion, &out.CreatedAt,
	)); err != nil {
		return nil, err
	}

	return &out, nil
}

func (s *DB) GetAccountByID(ctx context.Context, id int64) (acc *entity.AccountCredentials, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByID")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM twofa_accounts WHERE id = $1`, id)

	var out entity.AccountCredentials
	if err = s.mapError(row.Scan(
		&out.ID, &out.Username, &out.Password, &out.Secret, &out.KeyVersion, &out.CreatedAt,
	)); err != nil {
		return nil, err
	}

	return &out, nil
}

func (s *DB) CreateAccount(ctx context.Context, account entity.NewAccount) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccount")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO twofa_accounts (id, username, password, secret, key_version)
		 VALUES ($1, $2, $3, $4, $5)`,
		account.ID, account.Username, account.Password, account.Secret, account.KeyVersion)

	return s.mapError(err)
}
