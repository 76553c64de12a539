package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/contentadmin/internal/model"
)

// PostgresSubscriberRepo はPostgreSQLを使用した購読者リポジトリ。
type PostgresSubscriberRepo struct {
	db *sql.DB
}

// NewPostgresSubscriberRepo はPostgresSubscriberRepoを生成する。
func NewPostgresSubscriberRepo(db *sql.DB) *PostgresSubscriberRepo {
	return &PostgresSubscriberRepo{db: db}
}

// List はsignup_date降順で全購読者を返す。
func (r *PostgresSubscriberRepo) List(ctx context.Context) ([]model.Subscriber, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, signup_date, created_at, tags
		 FROM newsletter_subscribers
		 ORDER BY signup_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	subscribers := []model.Subscriber{}
	for rows.Next() {
		var s model.Subscriber
		var tags pq.StringArray
		if err := rows.Scan(&s.ID, &s.Email, &s.SignupDate, &s.CreatedAt, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		s.Tags = []string(tags)
		if s.Tags == nil {
			s.Tags = []string{}
		}
		subscribers = append(subscribers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subscribers: %w", err)
	}
	return subscribers, nil
}

// compile-time interface check
var _ SubscriberRepository = (*PostgresSubscriberRepo)(nil)
