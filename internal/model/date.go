package model

import (
	"encoding/json"
	"strings"
)

// DateLayout は日付カラムの文字列表現。
const DateLayout = "2006-01-02"

// DateUpdate は部分更新における日付カラムの更新値を表す。
// Valueがnilの場合はNULLを書き込む。
type DateUpdate struct {
	Value *string
}

// UnmarshalJSON はJSON文字列をDateUpdateに変換する。
// JSONのnullやキー自体の省略はフィールド未指定（*DateUpdateがnil）として扱われる。
func (d *DateUpdate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	d.Value = &s
	return nil
}

// SetDate は指定値で日付を更新するDateUpdateを返す。
func SetDate(v string) *DateUpdate {
	return &DateUpdate{Value: &v}
}

// ClearDate は日付をNULLにするDateUpdateを返す。
func ClearDate() *DateUpdate {
	return &DateUpdate{}
}

// NormalizeDate は空白のみの日付をnilにする。
// 空文字列の日付はDB側で不正な日付として拒否されるため、送信前に必ず適用する。
func NormalizeDate(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}

// NormalizeDateUpdate はDateUpdate内の空日付をNULL書き込みに変換する。
func NormalizeDateUpdate(d *DateUpdate) *DateUpdate {
	if d == nil {
		return nil
	}
	return &DateUpdate{Value: NormalizeDate(d.Value)}
}
