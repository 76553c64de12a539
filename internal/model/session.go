package model

import "time"

// Session は管理者のログインセッションを表す。
// Subjectにはログインした管理者のメールアドレスが入る。
type Session struct {
	ID        string
	Subject   string
	ExpiresAt time.Time
	CreatedAt time.Time
}
