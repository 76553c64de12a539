package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/contentadmin/internal/model"
)

const eventColumns = `id, title, category, category_type, to_char(event_date, 'YYYY-MM-DD'),
	event_location, event_overview, event_tnc, time_place, signup_link,
	full_rundown_url, documentation_url, main_img, banner_img, community_img,
	is_active, created_at, updated_at`

// PostgresEventRepo はPostgreSQLを使用したイベントリポジトリ。
type PostgresEventRepo struct {
	db *sql.DB
}

// NewPostgresEventRepo はPostgresEventRepoを生成する。
func NewPostgresEventRepo(db *sql.DB) *PostgresEventRepo {
	return &PostgresEventRepo{db: db}
}

func scanEvent(row rowScanner) (*model.Event, error) {
	e := &model.Event{}
	var eventDate sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&e.ID, &e.Title, &e.Category, &e.CategoryType, &eventDate,
		&e.EventLocation, &e.EventOverview, &e.EventTnc, &e.TimePlace, &e.SignupLink,
		&e.FullRundownURL, &e.DocumentationURL, &e.MainImg, &e.BannerImg, &e.CommunityImg,
		&e.IsActive, &e.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.EventDate = nullStringPtr(eventDate)
	if updatedAt.Valid {
		e.UpdatedAt = &updatedAt.Time
	}
	return e, nil
}

// List はcreated_at降順で全イベントを返す。
func (r *PostgresEventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM communities ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

// Create はイベントを作成し、作成された行を返す。
// EventDateがnilの場合はNULLが保存される。
func (r *PostgresEventRepo) Create(ctx context.Context, in model.EventInput) (*model.Event, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO communities (title, category, category_type, event_date,
		                          event_location, event_overview, event_tnc, time_place,
		                          signup_link, full_rundown_url, documentation_url,
		                          main_img, banner_img, community_img, is_active)
		 VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING `+eventColumns,
		in.Title, in.Category, in.CategoryType, in.EventDate,
		in.EventLocation, in.EventOverview, in.EventTnc, in.TimePlace,
		in.SignupLink, in.FullRundownURL, in.DocumentationURL,
		in.MainImg, in.BannerImg, in.CommunityImg, in.IsActive,
	)
	e, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return e, nil
}

// Update はnilでないフィールドのみ更新し、更新後の行を返す。
// EventDateのValueがnilの場合はevent_dateをNULLにする。
func (r *PostgresEventRepo) Update(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error) {
	ub := newUpdateBuilder("communities")
	ub.setString("title", patch.Title)
	ub.setString("category", patch.Category)
	ub.setString("category_type", patch.CategoryType)
	if patch.EventDate != nil {
		ub.set("event_date", patch.EventDate.Value)
	}
	ub.setString("event_location", patch.EventLocation)
	ub.setString("event_overview", patch.EventOverview)
	ub.setString("event_tnc", patch.EventTnc)
	ub.setString("time_place", patch.TimePlace)
	ub.setString("signup_link", patch.SignupLink)
	ub.setString("full_rundown_url", patch.FullRundownURL)
	ub.setString("documentation_url", patch.DocumentationURL)
	ub.setString("main_img", patch.MainImg)
	ub.setString("banner_img", patch.BannerImg)
	ub.setString("community_img", patch.CommunityImg)
	ub.setBool("is_active", patch.IsActive)

	query, args := ub.build(id, eventColumns)
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFoundOr(err, id, "failed to update event")
	}
	return e, nil
}

// SetActive はis_activeのみを更新する。
func (r *PostgresEventRepo) SetActive(ctx context.Context, id string, active bool) error {
	return setActive(ctx, r.db, "communities", id, active)
}

// nullStringPtr はsql.NullStringを*stringに変換する。
func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// compile-time interface check
var _ EventRepository = (*PostgresEventRepo)(nil)
