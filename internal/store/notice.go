package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/contentadmin/internal/model"
)

// NoticeLevel は通知の種類。
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice は操作結果を利用者に一度だけ伝える一時的な通知。
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Kind    model.Kind  `json:"kind"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}

// Notifier は通知の送り先。
type Notifier interface {
	Notify(n Notice)
}

// defaultNoticeCapacity はNoticeBoardが保持する通知の上限。
const defaultNoticeCapacity = 100

// NoticeBoard は通知を溜めておき、Drainで一度だけ取り出せるNotifier。
// 上限を超えた場合は古い通知から捨てる。
type NoticeBoard struct {
	mu       sync.Mutex
	notices  []Notice
	capacity int
}

// NewNoticeBoard はNoticeBoardを生成する。capacityが0以下の場合は既定値を使う。
func NewNoticeBoard(capacity int) *NoticeBoard {
	if capacity <= 0 {
		capacity = defaultNoticeCapacity
	}
	return &NoticeBoard{capacity: capacity}
}

// Notify は通知を追加し、構造化ログにも出力する。
func (b *NoticeBoard) Notify(n Notice) {
	if n.Level == NoticeError {
		slog.Warn("store notice",
			slog.String("kind", string(n.Kind)),
			slog.String("message", n.Message),
		)
	} else {
		slog.Info("store notice",
			slog.String("kind", string(n.Kind)),
			slog.String("message", n.Message),
		)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
	if over := len(b.notices) - b.capacity; over > 0 {
		b.notices = append([]Notice(nil), b.notices[over:]...)
	}
}

// Drain は溜まっている通知を古い順に返し、空にする。
func (b *NoticeBoard) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}
