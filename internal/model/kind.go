package model

// Kind はストアが管理するエンティティ種別を表す。
type Kind string

const (
	// KindSubscribers はニュースレター購読者。
	KindSubscribers Kind = "subscribers"
	// KindArticles は記事（peripherals）。
	KindArticles Kind = "articles"
	// KindEvents はイベント（communities）。
	KindEvents Kind = "events"
	// KindEventSignups はイベントごとの参加申込。
	KindEventSignups Kind = "event_signups"
	// KindBanners はカルーセルバナー。
	KindBanners Kind = "banners"
)

// Kinds は全エンティティ種別を定義順に返す。
func Kinds() []Kind {
	return []Kind{KindSubscribers, KindArticles, KindEvents, KindEventSignups, KindBanners}
}

// Singular は通知メッセージ用の単数形ラベルを返す。
func (k Kind) Singular() string {
	switch k {
	case KindSubscribers:
		return "subscriber"
	case KindArticles:
		return "article"
	case KindEvents:
		return "event"
	case KindEventSignups:
		return "event signup"
	case KindBanners:
		return "banner"
	default:
		return string(k)
	}
}

// Plural は通知メッセージ用の複数形ラベルを返す。
func (k Kind) Plural() string {
	switch k {
	case KindEventSignups:
		return "event signups"
	default:
		return string(k)
	}
}

// Table はエンティティ種別に対応するテーブル名を返す。
func (k Kind) Table() string {
	switch k {
	case KindSubscribers:
		return "newsletter_subscribers"
	case KindArticles:
		return "peripherals"
	case KindEvents:
		return "communities"
	case KindEventSignups:
		return "community_signups"
	case KindBanners:
		return "carousels"
	default:
		return ""
	}
}

// ParseKind は文字列からKindを取得する。未知の値の場合はfalseを返す。
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}
