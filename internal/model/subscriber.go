package model

import (
	"slices"
	"time"
)

// Subscriber はニュースレター購読者を表す。管理画面からは読み取り専用。
type Subscriber struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	SignupDate time.Time `json:"signup_date"`
	CreatedAt  time.Time `json:"created_at"`
	Tags       []string  `json:"tags"`
}

// EntityID はエンティティの識別子を返す。
func (s Subscriber) EntityID() string { return s.ID }

// Clone はスライスを含めたディープコピーを返す。
func (s Subscriber) Clone() Subscriber {
	s.Tags = slices.Clone(s.Tags)
	return s
}

// EventSignup はイベントへの参加申込を表す。community_idで親イベントに紐づく。
type EventSignup struct {
	ID         string    `json:"id"`
	EventID    string    `json:"community_id"`
	UserName   *string   `json:"user_name,omitempty"`
	UserEmail  string    `json:"user_email"`
	SignupDate time.Time `json:"signup_date"`
}

// EntityID はエンティティの識別子を返す。
func (s EventSignup) EntityID() string { return s.ID }

// Clone はポインタフィールドを含めたディープコピーを返す。
func (s EventSignup) Clone() EventSignup {
	s.UserName = cloneString(s.UserName)
	return s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
