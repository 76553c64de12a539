// Package security は管理画面から保存されるリッチテキストを無害化する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// richTextElements はエディタが出力しうる要素。画像はアップロード経由のURLフィールドで扱う。
var richTextElements = []string{
	"p", "br", "hr",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"ul", "ol", "li",
	"blockquote", "pre", "code",
	"strong", "b", "em", "i", "u", "s",
}

// ContentSanitizer はbluemondayの許可リストでHTMLを無害化する。
// ポリシーは生成後に変更しないため、複数のgoroutineから共有してよい。
type ContentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer は記事・イベント本文用のサニタイザーを返す。
// リンクはhttp, https, mailtoのみ通し、外部リンクにはtarget="_blank"と
// rel="noopener noreferrer"を付与する。
func NewContentSanitizer() *ContentSanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements(richTextElements...)

	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	return &ContentSanitizer{policy: p}
}

// Sanitize は許可されていない要素と属性を取り除いたHTMLを返す。
// 空白のみの入力は空文字列にする。
func (s *ContentSanitizer) Sanitize(rawHTML string) string {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}
	return s.policy.Sanitize(rawHTML)
}
