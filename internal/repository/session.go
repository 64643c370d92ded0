package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/AbdellahBM/orema-camp/internal/models"
)

type sessionKey struct{}

// WithSession attaches the caller's session so store operations run with the
// caller's privileges instead of the service connection's.
func WithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFrom returns the session attached by WithSession.
func SessionFrom(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(models.Session)
	return s, ok
}

// scoped runs fn against the pool, or inside a transaction that publishes the
// caller's claims (and optional role) when ctx carries a session.
func scoped(ctx context.Context, db *sqlx.DB, role string, fn func(sqlx.ExtContext) error) error {
	session, ok := SessionFrom(ctx)
	if !ok {
		return fn(db)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin scoped tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `SELECT set_config('request.jwt.claims', $1, true)`, session.Claims()); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("publish caller claims: %w", err)
	}
	if role != "" {
		if _, err := tx.ExecContext(ctx, `SELECT set_config('role', $1, true)`, role); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("switch session role: %w", err)
		}
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scoped tx: %w", err)
	}
	return nil
}
