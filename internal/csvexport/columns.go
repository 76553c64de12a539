package csvexport

import (
	"fmt"
	"time"

	"github.com/hitoshi/contentadmin/internal/model"
)

// notAvailable は日付が未設定の場合のセル値。
const notAvailable = "N/A"

// 種別ごとの列定義。
var (
	SubscriberColumns = []Column{
		{Key: "email", Header: "Email"},
		{Key: "signup_date", Header: "Signup Date"},
		{Key: "tags", Header: "Tags"},
	}

	ArticleColumns = []Column{
		{Key: "title", Header: "Title"},
		{Key: "category", Header: "Category"},
		{Key: "short_overview", Header: "Short Overview"},
		{Key: "event_date", Header: "Event Date"},
		{Key: "credits", Header: "Credits"},
		{Key: "background_color", Header: "Background Color"},
		{Key: "main_img", Header: "Main Image"},
		{Key: "banner_img", Header: "Banner Image"},
		{Key: "left_img", Header: "Left Image"},
		{Key: "right_img", Header: "Right Image"},
		{Key: "is_active", Header: "Status"},
		{Key: "created_at", Header: "Created At"},
	}

	EventColumns = []Column{
		{Key: "title", Header: "Title"},
		{Key: "category", Header: "Category"},
		{Key: "event_date", Header: "Event Date"},
		{Key: "event_location", Header: "Event Location"},
		{Key: "signup_link", Header: "Signup Link"},
		{Key: "full_rundown_url", Header: "Full Rundown URL"},
		{Key: "documentation_url", Header: "Documentation URL"},
		{Key: "main_img", Header: "Main Image"},
		{Key: "banner_img", Header: "Banner Image"},
		{Key: "community_img", Header: "Community Image"},
		{Key: "is_active", Header: "Status"},
		{Key: "created_at", Header: "Created At"},
	}

	EventSignupColumns = []Column{
		{Key: "user_name", Header: "Name"},
		{Key: "user_email", Header: "Email"},
		{Key: "signup_date", Header: "Signup Date"},
	}

	BannerColumns = []Column{
		{Key: "title", Header: "Title"},
		{Key: "subtitle", Header: "Subtitle"},
		{Key: "pictures", Header: "Image URL"},
		{Key: "is_active", Header: "Status"},
		{Key: "created_at", Header: "Created At"},
	}
)

// dateOrNA は未設定の日付をN/Aにする。
func dateOrNA(t time.Time) any {
	if t.IsZero() {
		return notAvailable
	}
	return t
}

// dayOrNA はyyyy-MM-dd形式の日付文字列を返す。nilや空の場合はN/A。
func dayOrNA(s *string) any {
	if s == nil || *s == "" {
		return notAvailable
	}
	return *s
}

// SubscriberRows は購読者をCSVの行に変換する。
func SubscriberRows(items []model.Subscriber) []Row {
	rows := make([]Row, len(items))
	for i, s := range items {
		rows[i] = Row{
			"email":       s.Email,
			"signup_date": dateOrNA(s.SignupDate),
			"tags":        s.Tags,
		}
	}
	return rows
}

// ArticleRows は記事をCSVの行に変換する。
func ArticleRows(items []model.Article) []Row {
	rows := make([]Row, len(items))
	for i, a := range items {
		rows[i] = Row{
			"title":            a.Title,
			"category":         a.Category,
			"short_overview":   a.ShortOverview,
			"event_date":       dayOrNA(a.EventDate),
			"credits":          a.Credits,
			"background_color": a.BackgroundColor,
			"main_img":         a.MainImg,
			"banner_img":       a.BannerImg,
			"left_img":         a.LeftImg,
			"right_img":        a.RightImg,
			"is_active":        a.IsActive,
			"created_at":       dateOrNA(a.CreatedAt),
		}
	}
	return rows
}

// EventRows はイベントをCSVの行に変換する。
func EventRows(items []model.Event) []Row {
	rows := make([]Row, len(items))
	for i, e := range items {
		rows[i] = Row{
			"title":             e.Title,
			"category":          e.Category,
			"event_date":        dayOrNA(e.EventDate),
			"event_location":    e.EventLocation,
			"signup_link":       e.SignupLink,
			"full_rundown_url":  e.FullRundownURL,
			"documentation_url": e.DocumentationURL,
			"main_img":          e.MainImg,
			"banner_img":        e.BannerImg,
			"community_img":     e.CommunityImg,
			"is_active":         e.IsActive,
			"created_at":        dateOrNA(e.CreatedAt),
		}
	}
	return rows
}

// EventSignupRows は参加申込をCSVの行に変換する。
func EventSignupRows(items []model.EventSignup) []Row {
	rows := make([]Row, len(items))
	for i, s := range items {
		rows[i] = Row{
			"user_name":   s.UserName,
			"user_email":  s.UserEmail,
			"signup_date": dateOrNA(s.SignupDate),
		}
	}
	return rows
}

// BannerRows はバナーをCSVの行に変換する。
func BannerRows(items []model.Banner) []Row {
	rows := make([]Row, len(items))
	for i, b := range items {
		rows[i] = Row{
			"title":      b.Title,
			"subtitle":   b.Subtitle,
			"pictures":   b.Pictures,
			"is_active":  b.IsActive,
			"created_at": dateOrNA(b.CreatedAt),
		}
	}
	return rows
}

// fileBase は種別ごとのダウンロードファイル名の接頭辞。
var fileBase = map[model.Kind]string{
	model.KindSubscribers:  "newsletter-subscribers",
	model.KindArticles:     "peripherals",
	model.KindEvents:       "communities",
	model.KindEventSignups: "community-signups",
	model.KindBanners:      "carousels",
}

// FileName はダウンロード用のファイル名 <接頭辞>-<yyyy-MM-dd>.csv を返す。
func FileName(kind model.Kind, now time.Time) string {
	base, ok := fileBase[kind]
	if !ok {
		base = string(kind)
	}
	return fmt.Sprintf("%s-%s.csv", base, now.Format("2006-01-02"))
}
