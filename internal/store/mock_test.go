package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hitoshi/contentadmin/internal/model"
	"github.com/hitoshi/contentadmin/internal/repository"
)

// --- モック ---

type mockSubscriberRepo struct {
	listFn func(ctx context.Context) ([]model.Subscriber, error)
}

func (m *mockSubscriberRepo) List(ctx context.Context) ([]model.Subscriber, error) {
	return m.listFn(ctx)
}

type mockArticleRepo struct {
	listFn      func(ctx context.Context) ([]model.Article, error)
	createFn    func(ctx context.Context, in model.ArticleInput) (*model.Article, error)
	updateFn    func(ctx context.Context, id string, patch model.ArticlePatch) (*model.Article, error)
	setActiveFn func(ctx context.Context, id string, active bool) error
}

func (m *mockArticleRepo) List(ctx context.Context) ([]model.Article, error) {
	return m.listFn(ctx)
}
func (m *mockArticleRepo) Create(ctx context.Context, in model.ArticleInput) (*model.Article, error) {
	return m.createFn(ctx, in)
}
func (m *mockArticleRepo) Update(ctx context.Context, id string, patch model.ArticlePatch) (*model.Article, error) {
	return m.updateFn(ctx, id, patch)
}
func (m *mockArticleRepo) SetActive(ctx context.Context, id string, active bool) error {
	return m.setActiveFn(ctx, id, active)
}

type mockEventRepo struct {
	listFn      func(ctx context.Context) ([]model.Event, error)
	createFn    func(ctx context.Context, in model.EventInput) (*model.Event, error)
	updateFn    func(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error)
	setActiveFn func(ctx context.Context, id string, active bool) error
}

func (m *mockEventRepo) List(ctx context.Context) ([]model.Event, error) {
	return m.listFn(ctx)
}
func (m *mockEventRepo) Create(ctx context.Context, in model.EventInput) (*model.Event, error) {
	return m.createFn(ctx, in)
}
func (m *mockEventRepo) Update(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error) {
	return m.updateFn(ctx, id, patch)
}
func (m *mockEventRepo) SetActive(ctx context.Context, id string, active bool) error {
	return m.setActiveFn(ctx, id, active)
}

type mockSignupRepo struct {
	listByEventFn func(ctx context.Context, eventID string) ([]model.EventSignup, error)
}

func (m *mockSignupRepo) ListByEvent(ctx context.Context, eventID string) ([]model.EventSignup, error) {
	return m.listByEventFn(ctx, eventID)
}

// memoryBannerRepo はIDと作成日時をサーバー側で割り当てるインメモリのバナーリポジトリ。
// failNextで次の1回の呼び出しを失敗させられる。
type memoryBannerRepo struct {
	mu       sync.Mutex
	rows     []model.Banner
	seq      int
	clock    time.Time
	failNext error
}

func newMemoryBannerRepo() *memoryBannerRepo {
	return &memoryBannerRepo{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memoryBannerRepo) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *memoryBannerRepo) List(ctx context.Context) ([]model.Banner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	out := make([]model.Banner, 0, len(m.rows))
	for i := len(m.rows) - 1; i >= 0; i-- {
		out = append(out, m.rows[i].Clone())
	}
	return out, nil
}

func (m *memoryBannerRepo) Create(ctx context.Context, in model.BannerInput) (*model.Banner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.seq++
	m.clock = m.clock.Add(time.Minute)
	b := model.Banner{
		ID:        fmt.Sprintf("banner-%d", m.seq),
		Pictures:  in.Pictures,
		Title:     in.Title,
		Subtitle:  in.Subtitle,
		IsActive:  in.IsActive,
		CreatedAt: m.clock,
	}
	m.rows = append(m.rows, b)
	return &b, nil
}

func (m *memoryBannerRepo) Update(ctx context.Context, id string, patch model.BannerPatch) (*model.Banner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	for i := range m.rows {
		if m.rows[i].ID != id {
			continue
		}
		r := &m.rows[i]
		if patch.Pictures != nil {
			r.Pictures = *patch.Pictures
		}
		if patch.Title != nil {
			r.Title = *patch.Title
		}
		if patch.Subtitle != nil {
			r.Subtitle = *patch.Subtitle
		}
		if patch.IsActive != nil {
			r.IsActive = *patch.IsActive
		}
		updated := m.clock.Add(time.Second)
		r.UpdatedAt = &updated
		out := r.Clone()
		return &out, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memoryBannerRepo) SetActive(ctx context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].IsActive = active
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memoryBannerRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// recordingNotifier は受け取った通知を記録する。
type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recordingNotifier) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) last() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}

type bracketSanitizer struct{}

func (bracketSanitizer) Sanitize(s string) string { return "[" + s + "]" }

type recordedOp struct {
	kind, op string
	ok       bool
}

type recordingMetrics struct {
	mu  sync.Mutex
	ops []recordedOp
}

func (r *recordingMetrics) RecordStoreOperation(kind, op string, ok bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, recordedOp{kind: kind, op: op, ok: ok})
}

func (r *recordingMetrics) RecordCachedEntities(string, int) {}
