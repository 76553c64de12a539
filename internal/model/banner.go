package model

import "time"

// Banner はトップページのカルーセルに表示するバナーを表す。
// Titleはリッチテキスト（HTML）。
type Banner struct {
	ID        string     `json:"id"`
	Pictures  string     `json:"pictures"`
	Title     string     `json:"title"`
	Subtitle  string     `json:"subtitle"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// EntityID はエンティティの識別子を返す。
func (b Banner) EntityID() string { return b.ID }

// Clone はポインタフィールドを含めたディープコピーを返す。
func (b Banner) Clone() Banner {
	b.UpdatedAt = cloneTime(b.UpdatedAt)
	return b
}

// BannerInput はバナー作成時の入力。
type BannerInput struct {
	Pictures string `json:"pictures"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	IsActive bool   `json:"is_active"`
}

// BannerPatch はバナーの部分更新。nilのフィールドは変更しない。
type BannerPatch struct {
	Pictures *string `json:"pictures"`
	Title    *string `json:"title"`
	Subtitle *string `json:"subtitle"`
	IsActive *bool   `json:"is_active"`
}
