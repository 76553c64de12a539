package model

import "time"

// Article は記事（peripheralsテーブル）を表す。
// 本文の構造はLayoutのテンプレートごとに異なる。
type Article struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Category        string        `json:"category"`
	CategoryType    string        `json:"category_type"`
	ShortOverview   string        `json:"short_overview"`
	EventOverview   string        `json:"event_overview"`
	EventDate       *string       `json:"event_date"`
	Credits         string        `json:"credits"`
	BackgroundColor string        `json:"background_color"`
	MainImg         string        `json:"main_img"`
	BannerImg       string        `json:"banner_img"`
	LeftImg         string        `json:"left_img"`
	RightImg        string        `json:"right_img"`
	IsActive        bool          `json:"is_active"`
	Layout          ArticleLayout `json:"layout"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       *time.Time    `json:"updated_at,omitempty"`
}

// EntityID はエンティティの識別子を返す。
func (a Article) EntityID() string { return a.ID }

// Clone はレイアウトを含めたディープコピーを返す。
func (a Article) Clone() Article {
	a.EventDate = cloneString(a.EventDate)
	a.UpdatedAt = cloneTime(a.UpdatedAt)
	a.Layout = a.Layout.Clone()
	return a
}

// DefaultBackgroundColor は記事の背景色の既定値。
const DefaultBackgroundColor = "white"

// ArticleInput は記事作成時の入力。
type ArticleInput struct {
	Title           string        `json:"title" validate:"required"`
	Category        string        `json:"category"`
	CategoryType    string        `json:"category_type"`
	ShortOverview   string        `json:"short_overview"`
	EventOverview   string        `json:"event_overview"`
	EventDate       *string       `json:"event_date" validate:"omitempty,datetime=2006-01-02"`
	Credits         string        `json:"credits"`
	BackgroundColor string        `json:"background_color"`
	MainImg         string        `json:"main_img"`
	BannerImg       string        `json:"banner_img"`
	LeftImg         string        `json:"left_img"`
	RightImg        string        `json:"right_img"`
	IsActive        bool          `json:"is_active"`
	Layout          ArticleLayout `json:"layout"`
}

// Normalize は空白のみの日付をnilにする。validateタグの検証より前に呼ぶ。
func (in *ArticleInput) Normalize() {
	in.EventDate = NormalizeDate(in.EventDate)
}

// ArticlePatch は記事の部分更新。nilのフィールドは変更しない。
type ArticlePatch struct {
	Title           *string        `json:"title" validate:"omitempty,min=1"`
	Category        *string        `json:"category"`
	CategoryType    *string        `json:"category_type"`
	ShortOverview   *string        `json:"short_overview"`
	EventOverview   *string        `json:"event_overview"`
	EventDate       *DateUpdate    `json:"event_date"`
	Credits         *string        `json:"credits"`
	BackgroundColor *string        `json:"background_color"`
	MainImg         *string        `json:"main_img"`
	BannerImg       *string        `json:"banner_img"`
	LeftImg         *string        `json:"left_img"`
	RightImg        *string        `json:"right_img"`
	IsActive        *bool          `json:"is_active"`
	Layout          *ArticleLayout `json:"layout"`
}
