package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/contentadmin/internal/model"
)

// 操作名。メトリクスのラベルに使用する。
const (
	opFetch  = "fetch"
	opCreate = "create"
	opUpdate = "update"
	opToggle = "toggle_status"
	opDelete = "delete"
)

var errNoRow = errors.New("no row returned")

// guard はリポジトリ呼び出し中のpanicをエラーに変換する。
func guard[V any](kind model.Kind, op string, fn func() (V, error)) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered in store operation",
				slog.String("kind", string(kind)),
				slog.String("op", op),
				slog.Any("panic", r),
			)
			err = fmt.Errorf("unexpected error: %v", r)
		}
	}()
	return fn()
}

// fetchInto はlistの結果でコレクションを置き換える。
// 成功・失敗のどちらでもloadingは必ずfalseに戻る。
func fetchInto[T entity[T]](
	ctx context.Context, s *Store, kind model.Kind, c *collection[T], scope string,
	list func(context.Context) ([]T, error),
) Result[[]T] {
	start := time.Now()
	c.begin()

	items, err := guard(kind, opFetch, func() ([]T, error) { return list(ctx) })
	if err != nil {
		msg := fmt.Sprintf("Failed to fetch %s: %s", kind.Plural(), err.Error())
		c.fail(err.Error())
		s.finish(kind, opFetch, start, NoticeError, msg)
		return failed[[]T](msg)
	}

	// キャッシュに渡した後の配列はロック下でしか触れないため、返却用の複製を先に作る
	out := cloneAll(items)
	c.replace(scope, items)
	s.metrics.RecordCachedEntities(string(kind), c.len())
	s.finish(kind, opFetch, start, "", "")
	return succeeded(out)
}

// createIn はcreateが返したサーバー側の行をコレクションの先頭に追加する。
func createIn[T entity[T]](
	ctx context.Context, s *Store, kind model.Kind, c *collection[T],
	create func(context.Context) (*T, error),
) Result[T] {
	start := time.Now()

	row, err := guard(kind, opCreate, func() (*T, error) { return create(ctx) })
	if err == nil && row == nil {
		err = errNoRow
	}
	if err != nil {
		msg := fmt.Sprintf("Failed to create %s: %s", kind.Singular(), err.Error())
		s.finish(kind, opCreate, start, NoticeError, msg)
		return failed[T](msg)
	}

	out := (*row).Clone()
	c.prepend(*row)
	s.metrics.RecordCachedEntities(string(kind), c.len())
	s.finish(kind, opCreate, start, NoticeSuccess, fmt.Sprintf("%s created successfully", capitalize(kind.Singular())))
	return succeeded(out)
}

// updateIn はupdateが返した行で、同じIDのキャッシュ行を上書きする。
// 他の行には触れない。
func updateIn[T entity[T]](
	ctx context.Context, s *Store, kind model.Kind, c *collection[T], id string,
	update func(context.Context) (*T, error),
) Result[T] {
	start := time.Now()

	row, err := guard(kind, opUpdate, func() (*T, error) { return update(ctx) })
	if err == nil && row == nil {
		err = errNoRow
	}
	if err != nil {
		msg := fmt.Sprintf("Failed to update %s: %s", kind.Singular(), err.Error())
		s.finish(kind, opUpdate, start, NoticeError, msg)
		return failed[T](msg)
	}

	updated := *row
	c.update(id, func(cached *T) { *cached = updated.Clone() })
	s.finish(kind, opUpdate, start, NoticeSuccess, fmt.Sprintf("%s updated successfully", capitalize(kind.Singular())))
	return succeeded(updated.Clone())
}

// toggleIn はis_activeのみを更新し、成功時はapplyで該当キャッシュ行のフラグだけを書き換える。
func toggleIn[T entity[T]](
	ctx context.Context, s *Store, kind model.Kind, c *collection[T], id string, active bool,
	setActive func(context.Context) error, apply func(*T),
) Result[bool] {
	start := time.Now()

	_, err := guard(kind, opToggle, func() (struct{}, error) { return struct{}{}, setActive(ctx) })
	if err != nil {
		msg := fmt.Sprintf("Failed to update %s status: %s", kind.Singular(), err.Error())
		s.finish(kind, opToggle, start, NoticeError, msg)
		return failed[bool](msg)
	}

	c.update(id, apply)
	verb := "deactivated"
	if active {
		verb = "activated"
	}
	s.finish(kind, opToggle, start, NoticeSuccess, fmt.Sprintf("%s %s successfully", capitalize(kind.Singular()), verb))
	return succeeded(active)
}

// deleteIn は削除が確認された後にキャッシュから行を取り除く。
func deleteIn[T entity[T]](
	ctx context.Context, s *Store, kind model.Kind, c *collection[T], id string,
	del func(context.Context) error,
) Result[string] {
	start := time.Now()

	_, err := guard(kind, opDelete, func() (struct{}, error) { return struct{}{}, del(ctx) })
	if err != nil {
		msg := fmt.Sprintf("Failed to delete %s: %s", kind.Singular(), err.Error())
		s.finish(kind, opDelete, start, NoticeError, msg)
		return failed[string](msg)
	}

	c.remove(id)
	s.metrics.RecordCachedEntities(string(kind), c.len())
	s.finish(kind, opDelete, start, NoticeSuccess, fmt.Sprintf("%s deleted successfully", capitalize(kind.Singular())))
	return succeeded(id)
}

// finish はメトリクスを記録し、messageが空でなければ通知を送る。
func (s *Store) finish(kind model.Kind, op string, start time.Time, level NoticeLevel, message string) {
	s.metrics.RecordStoreOperation(string(kind), op, level != NoticeError, time.Since(start))
	if message == "" {
		return
	}
	s.notifier.Notify(Notice{Level: level, Kind: kind, Message: message, At: s.now()})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
