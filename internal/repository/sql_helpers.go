package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// rowScanner は*sql.Rowと*sql.Rowsの共通部分。
type rowScanner interface {
	Scan(dest ...any) error
}

// updateBuilder は部分更新用のUPDATE文を組み立てる。
// 追加されたカラムのみSET句に含め、updated_atは常にnow()で更新する。
type updateBuilder struct {
	table string
	sets  []string
	args  []any
}

func newUpdateBuilder(table string) *updateBuilder {
	return &updateBuilder{table: table}
}

// set はカラムと値をSET句に追加する。
func (b *updateBuilder) set(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// setString はvalueがnilでない場合のみカラムを追加する。
func (b *updateBuilder) setString(column string, value *string) {
	if value != nil {
		b.set(column, *value)
	}
}

// setBool はvalueがnilでない場合のみカラムを追加する。
func (b *updateBuilder) setBool(column string, value *bool) {
	if value != nil {
		b.set(column, *value)
	}
}

// build はid指定のUPDATE文とバインド引数を返す。
func (b *updateBuilder) build(id, returning string) (string, []any) {
	sets := append(append([]string{}, b.sets...), "updated_at = now()")
	args := append(append([]any{}, b.args...), id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		b.table, strings.Join(sets, ", "), len(args), returning)
	return query, args
}

// setActive はis_activeのみを更新する。対象行がない場合はErrNotFoundを返す。
func setActive(ctx context.Context, db *sql.DB, table, id string, active bool) error {
	result, err := db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET is_active = $1, updated_at = now() WHERE id = $2`, table),
		active, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return requireAffected(result, id)
}

// requireAffected は1行以上が更新されたことを確認する。
func requireAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// notFoundOr はsql.ErrNoRowsをErrNotFoundに変換し、それ以外はメッセージ付きでラップする。
func notFoundOr(err error, id, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
