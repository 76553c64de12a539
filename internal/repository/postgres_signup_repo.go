package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/contentadmin/internal/model"
)

// PostgresEventSignupRepo はPostgreSQLを使用した参加申込リポジトリ。
type PostgresEventSignupRepo struct {
	db *sql.DB
}

// NewPostgresEventSignupRepo はPostgresEventSignupRepoを生成する。
func NewPostgresEventSignupRepo(db *sql.DB) *PostgresEventSignupRepo {
	return &PostgresEventSignupRepo{db: db}
}

// ListByEvent は指定イベントの参加申込をsignup_date降順で返す。
func (r *PostgresEventSignupRepo) ListByEvent(ctx context.Context, eventID string) ([]model.EventSignup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, community_id, user_name, user_email, signup_date
		 FROM community_signups
		 WHERE community_id = $1
		 ORDER BY signup_date DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list event signups: %w", err)
	}
	defer rows.Close()

	signups := []model.EventSignup{}
	for rows.Next() {
		var s model.EventSignup
		var userName sql.NullString
		if err := rows.Scan(&s.ID, &s.EventID, &userName, &s.UserEmail, &s.SignupDate); err != nil {
			return nil, fmt.Errorf("failed to scan event signup: %w", err)
		}
		if userName.Valid {
			name := userName.String
			s.UserName = &name
		}
		signups = append(signups, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event signups: %w", err)
	}
	return signups, nil
}

// compile-time interface check
var _ EventSignupRepository = (*PostgresEventSignupRepo)(nil)
