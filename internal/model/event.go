package model

import "time"

// Event はコミュニティイベント（communitiesテーブル）を表す。
// EventOverview、EventTnc、TimePlaceはリッチテキスト（HTML）。
type Event struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Category         string     `json:"category"`
	CategoryType     string     `json:"category_type"`
	EventDate        *string    `json:"event_date"`
	EventLocation    string     `json:"event_location"`
	EventOverview    string     `json:"event_overview"`
	EventTnc         string     `json:"event_tnc"`
	TimePlace        string     `json:"time_place"`
	SignupLink       string     `json:"signup_link"`
	FullRundownURL   string     `json:"full_rundown_url"`
	DocumentationURL string     `json:"documentation_url"`
	MainImg          string     `json:"main_img"`
	BannerImg        string     `json:"banner_img"`
	CommunityImg     string     `json:"community_img"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// EntityID はエンティティの識別子を返す。
func (e Event) EntityID() string { return e.ID }

// Clone はポインタフィールドを含めたディープコピーを返す。
func (e Event) Clone() Event {
	e.EventDate = cloneString(e.EventDate)
	e.UpdatedAt = cloneTime(e.UpdatedAt)
	return e
}

// EventInput はイベント作成時の入力。
type EventInput struct {
	Title            string  `json:"title" validate:"required"`
	Category         string  `json:"category"`
	CategoryType     string  `json:"category_type"`
	EventDate        *string `json:"event_date" validate:"omitempty,datetime=2006-01-02"`
	EventLocation    string  `json:"event_location"`
	EventOverview    string  `json:"event_overview"`
	EventTnc         string  `json:"event_tnc"`
	TimePlace        string  `json:"time_place"`
	SignupLink       string  `json:"signup_link" validate:"omitempty,url"`
	FullRundownURL   string  `json:"full_rundown_url" validate:"omitempty,url"`
	DocumentationURL string  `json:"documentation_url" validate:"omitempty,url"`
	MainImg          string  `json:"main_img"`
	BannerImg        string  `json:"banner_img"`
	CommunityImg     string  `json:"community_img"`
	IsActive         bool    `json:"is_active"`
}

// Normalize は空白のみの日付をnilにし、リンク系フィールドにスキームを補完する。
// validateタグの検証より前に呼ぶ。
func (in *EventInput) Normalize() {
	in.EventDate = NormalizeDate(in.EventDate)
	in.SignupLink = FormatURL(in.SignupLink)
	in.FullRundownURL = FormatURL(in.FullRundownURL)
	in.DocumentationURL = FormatURL(in.DocumentationURL)
}

// EventPatch はイベントの部分更新。nilのフィールドは変更しない。
type EventPatch struct {
	Title            *string     `json:"title" validate:"omitempty,min=1"`
	Category         *string     `json:"category"`
	CategoryType     *string     `json:"category_type"`
	EventDate        *DateUpdate `json:"event_date"`
	EventLocation    *string     `json:"event_location"`
	EventOverview    *string     `json:"event_overview"`
	EventTnc         *string     `json:"event_tnc"`
	TimePlace        *string     `json:"time_place"`
	SignupLink       *string     `json:"signup_link" validate:"omitempty,url"`
	FullRundownURL   *string     `json:"full_rundown_url" validate:"omitempty,url"`
	DocumentationURL *string     `json:"documentation_url" validate:"omitempty,url"`
	MainImg          *string     `json:"main_img"`
	BannerImg        *string     `json:"banner_img"`
	CommunityImg     *string     `json:"community_img"`
	IsActive         *bool       `json:"is_active"`
}

// Normalize はリンク系フィールドにスキームを補完する。
func (p *EventPatch) Normalize() {
	p.SignupLink = formatURLPtr(p.SignupLink)
	p.FullRundownURL = formatURLPtr(p.FullRundownURL)
	p.DocumentationURL = formatURLPtr(p.DocumentationURL)
}
