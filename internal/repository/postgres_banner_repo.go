package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/contentadmin/internal/model"
)

const bannerColumns = `id, pictures, title, subtitle, is_active, created_at, updated_at`

// PostgresBannerRepo はPostgreSQLを使用したバナーリポジトリ。
type PostgresBannerRepo struct {
	db *sql.DB
}

// NewPostgresBannerRepo はPostgresBannerRepoを生成する。
func NewPostgresBannerRepo(db *sql.DB) *PostgresBannerRepo {
	return &PostgresBannerRepo{db: db}
}

func scanBanner(row rowScanner) (*model.Banner, error) {
	b := &model.Banner{}
	var updatedAt sql.NullTime
	if err := row.Scan(&b.ID, &b.Pictures, &b.Title, &b.Subtitle, &b.IsActive, &b.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		b.UpdatedAt = &updatedAt.Time
	}
	return b, nil
}

// List はcreated_at降順で全バナーを返す。
func (r *PostgresBannerRepo) List(ctx context.Context) ([]model.Banner, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bannerColumns+` FROM carousels ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	defer rows.Close()

	banners := []model.Banner{}
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan banner: %w", err)
		}
		banners = append(banners, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read banners: %w", err)
	}
	return banners, nil
}

// Create はバナーを作成し、作成された行を返す。
func (r *PostgresBannerRepo) Create(ctx context.Context, in model.BannerInput) (*model.Banner, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO carousels (pictures, title, subtitle, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+bannerColumns,
		in.Pictures, in.Title, in.Subtitle, in.IsActive,
	)
	b, err := scanBanner(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}
	return b, nil
}

// Update はnilでないフィールドのみ更新し、更新後の行を返す。
func (r *PostgresBannerRepo) Update(ctx context.Context, id string, patch model.BannerPatch) (*model.Banner, error) {
	ub := newUpdateBuilder("carousels")
	ub.setString("pictures", patch.Pictures)
	ub.setString("title", patch.Title)
	ub.setString("subtitle", patch.Subtitle)
	ub.setBool("is_active", patch.IsActive)

	query, args := ub.build(id, bannerColumns)
	b, err := scanBanner(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFoundOr(err, id, "failed to update banner")
	}
	return b, nil
}

// SetActive はis_activeのみを更新する。
func (r *PostgresBannerRepo) SetActive(ctx context.Context, id string, active bool) error {
	return setActive(ctx, r.db, "carousels", id, active)
}

// Delete は指定IDのバナーを削除する。
func (r *PostgresBannerRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM carousels WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete banner: %w", err)
	}
	return requireAffected(result, id)
}

// compile-time interface check
var _ BannerRepository = (*PostgresBannerRepo)(nil)
