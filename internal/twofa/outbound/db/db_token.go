package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/ioshacker22/2FA-authentication/internal/twofa/entity"
)

const tokenColumns = `id, account_id, service_name, secret, key_version, created_at`

func (s *DB) GetServiceTokens(ctx context.Context, accountID int64) (tokens []entity.ServiceToken, err error) {
	ctx, span := s.startSpan(ctx, "GetServiceTokens")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx,
		`SELECT `+tokenColumns+` FROM twofa_service_tokens
		 WHERE account_id = $1 ORDER BY created_at, id`, accountID)
	if err != nil {
		return nil, s.mapError(err)
	}

	tokens, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.ServiceToken, error) {
		var t entity.ServiceToken
		err := row.Scan(&t.ID, &t.AccountID, &t.ServiceName, &t.Secret, &t.KeyVersion, &t.CreatedAt)
		return t, err
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return tokens, nil
}

func (s *DB) GetServiceTokenByID(ctx context.Context, id int64) (token *entity.ServiceToken, err error) {
	ctx, span := s.startSpan(ctx, "GetServiceTokenByID")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx,
		`SELECT `+tokenColumns+` FROM twofa_service_tokens WHERE id = $1`, id)

	var out entity.ServiceToken
	if err = s.mapError(row.Scan(
		&out.ID, &out.AccountID, &out.ServiceName, &out.Secret, &out.KeyVersion, &out.CreatedAt,
	)); err != nil {
		return nil, err
	}

	return &out, nil
}

func (s *DB) CreateServiceToken(ctx context.Context, token entity.ServiceToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateServiceToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO twofa_service_tokens (id, account_id, service_name, secret, key_version)
		 VALUES ($1, $2, $3, $4, $5)`,
		token.ID, token.AccountID, token.ServiceName, token.Secret, token.KeyVersion)

	return s.mapError(err)
}

func (s *DB) DeleteServiceToken(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteServiceToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `DELETE FROM twofa_service_tokens WHERE id = $1`, id)

	return s.mapError(err)
}

// ReplaceServiceTokens swaps an account's stored tokens for the given set
// in one transaction. Either the whole set lands or nothing changes.
func (s *DB) ReplaceServiceTokens(ctx context.Context, accountID int64, tokens []entity.ServiceToken) (err error) {
	ctx, span := s.startSpan(ctx, "ReplaceServiceTokens")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx,
		`DELETE FROM twofa_service_tokens WHERE account_id = $1`, accountID); err != nil {
		return s.mapError(err)
	}

	for _, token := range tokens {
		if _, err = tx.Exec(ctx,
			`INSERT INTO twofa_service_tokens (id, account_id, service_name, secret, key_version)
			 VALUES ($1, $2, $3, $4, $5)`,
			token.ID, token.AccountID, token.ServiceName, token.Secret, token.KeyVersion); err != nil {
			return s.mapError(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
