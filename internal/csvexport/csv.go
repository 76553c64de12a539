// Package csvexport は管理画面の一覧をCSVに書き出す。
package csvexport

import (
	"fmt"
	"strings"
	"time"
)

// Column はCSVの列。Keyで行から値を取り出し、Headerをヘッダ行に使う。
type Column struct {
	Key    string
	Header string
}

// Row はCSVの1行分の値。
type Row map[string]any

// Encode はrowsをcolumnsの順でCSV文字列に変換する。
// 行は"\n"で連結し、末尾に改行は付けない。rowsが空の場合は空文字列を返す。
func Encode(rows []Row, columns []Column) string {
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	for i, c := range columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.Header)
	}
	for _, row := range rows {
		b.WriteByte('\n')
		for i, c := range columns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escape(FormatValue(row[c.Key])))
		}
	}
	return b.String()
}

// FormatValue は値をCSVのセル文字列に変換する。
// nilは空文字列、boolはActive/Inactive、時刻はyyyy-MM-dd、文字列スライスは", "区切りになる。
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case bool:
		if x {
			return "Active"
		}
		return "Inactive"
	case time.Time:
		return x.Format("2006-01-02")
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format("2006-01-02")
	case []string:
		return strings.Join(x, ", ")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// escape は区切り文字・引用符・改行を含む値を引用符で囲み、内部の引用符を二重にする。
func escape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
