package store

import "sync"

// entity はストアがキャッシュできる要素の制約。
type entity[T any] interface {
	EntityID() string
	Clone() T
}

// Snapshot はある時点でのコレクションの読み取り専用コピー。
// Itemsはディープコピーされており、呼び出し側が変更してもキャッシュには影響しない。
type Snapshot[T any] struct {
	Items   []T    `json:"items"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// collection は1種別分のキャッシュとフラグを保持する。
// ロックは結果の適用時のみ取得し、データベースへの問い合わせ中は保持しない。
// scopeは親エンティティで絞り込むコレクション（参加申込）の対象IDで、itemsと同時に更新する。
type collection[T entity[T]] struct {
	mu      sync.RWMutex
	items   []T
	scope   string
	loading bool
	err     string
}

// begin はフェッチ開始を記録する。
func (c *collection[T]) begin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = true
	c.err = ""
}

// replace はフェッチ成功時にコレクション全体を置き換える。nilは空として扱う。
func (c *collection[T]) replace(scope string, items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.scope = scope
	c.loading = false
}

// fail はフェッチ失敗を記録する。コレクションの内容はそのまま残す。
func (c *collection[T]) fail(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = msg
	c.loading = false
}

// prepend はサーバーが返した行を先頭に追加する。
func (c *collection[T]) prepend(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, 0, len(c.items)+1)
	items = append(items, item)
	c.items = append(items, c.items...)
}

// update はidが一致する行にfnを適用する。一致する行がなければfalseを返す。
func (c *collection[T]) update(id string, fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	found := false
	for i := range c.items {
		if c.items[i].EntityID() == id {
			fn(&c.items[i])
			found = true
		}
	}
	return found
}

// remove はidが一致する行を取り除く。
func (c *collection[T]) remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0:0]
	for _, item := range c.items {
		if item.EntityID() != id {
			kept = append(kept, item)
		}
	}
	removed := len(kept) != len(c.items)
	c.items = kept
	return removed
}

// snapshot はディープコピーと、そのコピーに対応するscopeを返す。
func (c *collection[T]) snapshot() (Snapshot[T], string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot[T]{Items: cloneAll(c.items), Loading: c.loading, Error: c.err}, c.scope
}

func cloneAll[T entity[T]](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

func (c *collection[T]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
