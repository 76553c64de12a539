package model

import "regexp"

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// FormatURL はスキームのないURLにhttps://を付与する。
// 空文字列はそのまま返す。
func FormatURL(url string) string {
	if url == "" {
		return url
	}
	if schemePattern.MatchString(url) {
		return url
	}
	return "https://" + url
}

// formatURLPtr はnilを保ったままFormatURLを適用する。
func formatURLPtr(url *string) *string {
	if url == nil {
		return nil
	}
	v := FormatURL(*url)
	return &v
}
