package store

// Result はストア操作の結果。成功時はValue、失敗時はErrorに失敗メッセージを持つ。
// ストア操作はエラーを返したりpanicしたりせず、必ずResultで結果を伝える。
type Result[T any] struct {
	Value T
	Error string
	ok    bool
}

// OK は操作が成功したかを返す。
func (r Result[T]) OK() bool { return r.ok }

func succeeded[T any](v T) Result[T] {
	return Result[T]{Value: v, ok: true}
}

func failed[T any](msg string) Result[T] {
	return Result[T]{Error: msg}
}
