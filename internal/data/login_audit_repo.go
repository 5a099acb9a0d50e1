package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gatelab/gqlgate/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateLogin is returned when an audit row with the same id already exists.
var ErrDuplicateLogin = errors.New("login audit already recorded")

// LoginAuditRepo persists login audit records to PostgreSQL.
type LoginAuditRepo struct {
	DB *sql.DB
}

// NewLoginAuditRepo creates a new LoginAuditRepo instance with the given database connection.
func NewLoginAuditRepo(db *sql.DB) *LoginAuditRepo {
	return &LoginAuditRepo{DB: db}
}

// RecordLogin inserts a login audit row.
func (r *LoginAuditRepo) RecordLogin(ctx context.Context, rec ports.LoginRecord) error {
	if rec.UserID == "" {
		return errors.New("user_id is required")
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO login_audits (id, user_id, session_id, remote_addr, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), rec.UserID, rec.SessionID, rec.RemoteAddr, createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateLogin
		}
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

// CountLoginsForUser returns the number of audited logins for a user.
func (r *LoginAuditRepo) CountLoginsForUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM login_audits WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count logins: %w", err)
	}
	return count, nil
}
