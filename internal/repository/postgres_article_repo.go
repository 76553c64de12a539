package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/contentadmin/internal/model"
)

const articleColumns = `id, title, category, category_type, short_overview, event_overview,
	to_char(event_date, 'YYYY-MM-DD'), credits, background_color,
	main_img, banner_img, left_img, right_img, is_active,
	template, template_data, created_at, updated_at`

// PostgresArticleRepo はPostgreSQLを使用した記事リポジトリ。
// 本文レイアウトはtemplate（テンプレート番号）とtemplate_data（JSONB）に分けて保存する。
type PostgresArticleRepo struct {
	db *sql.DB
}

// NewPostgresArticleRepo はPostgresArticleRepoを生成する。
func NewPostgresArticleRepo(db *sql.DB) *PostgresArticleRepo {
	return &PostgresArticleRepo{db: db}
}

func scanArticle(row rowScanner) (*model.Article, error) {
	a := &model.Article{}
	var eventDate sql.NullString
	var updatedAt sql.NullTime
	var template model.TemplateKind
	var templateData []byte
	err := row.Scan(
		&a.ID, &a.Title, &a.Category, &a.CategoryType, &a.ShortOverview, &a.EventOverview,
		&eventDate, &a.Credits, &a.BackgroundColor,
		&a.MainImg, &a.BannerImg, &a.LeftImg, &a.RightImg, &a.IsActive,
		&template, &templateData, &a.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	layout, err := model.DecodeLayout(template, templateData)
	if err != nil {
		return nil, err
	}
	a.Layout = model.ArticleLayout{Layout: layout}
	a.EventDate = nullStringPtr(eventDate)
	if updatedAt.Valid {
		a.UpdatedAt = &updatedAt.Time
	}
	return a, nil
}

// List はcreated_at降順で全記事を返す。
func (r *PostgresArticleRepo) List(ctx context.Context) ([]model.Article, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM peripherals ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := []model.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read articles: %w", err)
	}
	return articles, nil
}

// Create は記事を作成し、作成された行を返す。
// BackgroundColorが空の場合は既定値を保存する。
func (r *PostgresArticleRepo) Create(ctx context.Context, in model.ArticleInput) (*model.Article, error) {
	template, data, err := model.EncodeLayout(in.Layout)
	if err != nil {
		return nil, err
	}
	background := in.BackgroundColor
	if background == "" {
		background = model.DefaultBackgroundColor
	}

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO peripherals (title, category, category_type, short_overview, event_overview,
		                          event_date, credits, background_color,
		                          main_img, banner_img, left_img, right_img, is_active,
		                          template, template_data)
		 VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING `+articleColumns,
		in.Title, in.Category, in.CategoryType, in.ShortOverview, in.EventOverview,
		in.EventDate, in.Credits, background,
		in.MainImg, in.BannerImg, in.LeftImg, in.RightImg, in.IsActive,
		template, string(data),
	)
	a, err := scanArticle(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}
	return a, nil
}

// Update はnilでないフィールドのみ更新し、更新後の行を返す。
// Layoutが指定された場合はtemplateとtemplate_dataを同時に置き換える。
// template_dataは[]byteのままだとbyteaとして送信されるため文字列で渡す。
func (r *PostgresArticleRepo) Update(ctx context.Context, id string, patch model.ArticlePatch) (*model.Article, error) {
	ub := newUpdateBuilder("peripherals")
	ub.setString("title", patch.Title)
	ub.setString("category", patch.Category)
	ub.setString("category_type", patch.CategoryType)
	ub.setString("short_overview", patch.ShortOverview)
	ub.setString("event_overview", patch.EventOverview)
	if patch.EventDate != nil {
		ub.set("event_date", patch.EventDate.Value)
	}
	ub.setString("credits", patch.Credits)
	ub.setString("background_color", patch.BackgroundColor)
	ub.setString("main_img", patch.MainImg)
	ub.setString("banner_img", patch.BannerImg)
	ub.setString("left_img", patch.LeftImg)
	ub.setString("right_img", patch.RightImg)
	ub.setBool("is_active", patch.IsActive)
	if patch.Layout != nil {
		template, data, err := model.EncodeLayout(*patch.Layout)
		if err != nil {
			return nil, err
		}
		ub.set("template", template)
		ub.set("template_data", string(data))
	}

	query, args := ub.build(id, articleColumns)
	a, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFoundOr(err, id, "failed to update article")
	}
	return a, nil
}

// SetActive はis_activeのみを更新する。
func (r *PostgresArticleRepo) SetActive(ctx context.Context, id string, active bool) error {
	return setActive(ctx, r.db, "peripherals", id, active)
}

// compile-time interface check
var _ ArticleRepository = (*PostgresArticleRepo)(nil)
