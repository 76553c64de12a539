// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/contentadmin/internal/model"
)

// ErrNotFound は更新・削除対象の行が存在しない場合に返される。
var ErrNotFound = errors.New("record not found")

// SubscriberRepository はニュースレター購読者の読み取りインターフェース。
type SubscriberRepository interface {
	// List はsignup_date降順で全購読者を返す。
	List(ctx context.Context) ([]model.Subscriber, error)
}

// ArticleRepository は記事（peripherals）の永続化インターフェース。
type ArticleRepository interface {
	// List はcreated_at降順で全記事を返す。
	List(ctx context.Context) ([]model.Article, error)
	// Create は記事を作成し、サーバーが割り当てたIDとタイムスタンプを含む行を返す。
	Create(ctx context.Context, in model.ArticleInput) (*model.Article, error)
	// Update はnilでないフィールドのみ更新し、更新後の行を返す。
	Update(ctx context.Context, id string, patch model.ArticlePatch) (*model.Article, error)
	// SetActive はis_activeのみを更新する。
	SetActive(ctx context.Context, id string, active bool) error
}

// EventRepository はイベント（communities）の永続化インターフェース。
type EventRepository interface {
	// List はcreated_at降順で全イベントを返す。
	List(ctx context.Context) ([]model.Event, error)
	// Create はイベントを作成し、サーバーが割り当てたIDとタイムスタンプを含む行を返す。
	Create(ctx context.Context, in model.EventInput) (*model.Event, error)
	// Update はnilでないフィールドのみ更新し、更新後の行を返す。
	Update(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error)
	// SetActive はis_activeのみを更新する。
	SetActive(ctx context.Context, id string, active bool) error
}

// EventSignupRepository はイベント参加申込の読み取りインターフェース。
type EventSignupRepository interface {
	// ListByEvent は指定イベントの参加申込をsignup_date降順で返す。
	ListByEvent(ctx context.Context, eventID string) ([]model.EventSignup, error)
}

// BannerRepository はカルーセルバナー（carousels）の永続化インターフェース。
type BannerRepository interface {
	// List はcreated_at降順で全バナーを返す。
	List(ctx context.Context) ([]model.Banner, error)
	// Create はバナーを作成し、サーバーが割り当てたIDとタイムスタンプを含む行を返す。
	Create(ctx context.Context, in model.BannerInput) (*model.Banner, error)
	// Update はnilでないフィールドのみ更新し、更新後の行を返す。
	Update(ctx context.Context, id string, patch model.BannerPatch) (*model.Banner, error)
	// SetActive はis_activeのみを更新する。
	SetActive(ctx context.Context, id string, active bool) error
	// Delete は指定IDのバナーを削除する。
	Delete(ctx context.Context, id string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れのセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}
