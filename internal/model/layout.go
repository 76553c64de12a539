package model

import (
	"encoding/json"
	"fmt"
	"slices"
)

// TemplateKind は記事レイアウトのテンプレート番号を表す。
type TemplateKind int

const (
	// TemplateClassic は引用と段落で構成される標準テンプレート（テンプレート1）。
	TemplateClassic TemplateKind = 1
	// TemplateGallery は画像とテキストの組を並べるテンプレート（テンプレート2）。
	TemplateGallery TemplateKind = 2
	// TemplateHighlights は見出しリストと画像リストで構成されるテンプレート（テンプレート3）。
	TemplateHighlights TemplateKind = 3
)

// Layout はテンプレートごとに異なる記事本文の構造を表すタグ付きユニオン。
// 実装はClassicLayout、GalleryLayout、HighlightsLayoutのいずれか。
type Layout interface {
	Template() TemplateKind
	cloneLayout() Layout
}

// ClassicLayout はテンプレート1の本文。
type ClassicLayout struct {
	HighlightQuote  string `json:"highlight_quote"`
	Paragraph1      string `json:"paragraph_1"`
	Paragraph2      string `json:"paragraph_2"`
	ParagraphBottom string `json:"paragraph_bottom"`
}

// Template はテンプレート番号を返す。
func (ClassicLayout) Template() TemplateKind { return TemplateClassic }

func (l ClassicLayout) cloneLayout() Layout { return l }

// ImageText は画像URLと説明文の組。
type ImageText struct {
	Image string `json:"image"`
	Text  string `json:"text"`
}

// GalleryLayout はテンプレート2の本文。
type GalleryLayout struct {
	Intro    string      `json:"intro"`
	Sections []ImageText `json:"sections"`
}

// Template はテンプレート番号を返す。
func (GalleryLayout) Template() TemplateKind { return TemplateGallery }

func (l GalleryLayout) cloneLayout() Layout {
	l.Sections = slices.Clone(l.Sections)
	return l
}

// HighlightsLayout はテンプレート3の本文。
type HighlightsLayout struct {
	Intro      string   `json:"intro"`
	Highlights []string `json:"highlights"`
	Images     []string `json:"images"`
}

// Template はテンプレート番号を返す。
func (HighlightsLayout) Template() TemplateKind { return TemplateHighlights }

func (l HighlightsLayout) cloneLayout() Layout {
	l.Highlights = slices.Clone(l.Highlights)
	l.Images = slices.Clone(l.Images)
	return l
}

// ArticleLayout はLayoutをJSONとDBの表現に橋渡しするラッパー。
// JSON表現は {"template": N, ...テンプレート固有フィールド} の形になる。
// Layoutがnilの場合は空のClassicLayoutとして扱う。
type ArticleLayout struct {
	Layout
}

// Variant は保持しているLayoutを返す。nilの場合は空のClassicLayoutを返す。
func (a ArticleLayout) Variant() Layout {
	if a.Layout == nil {
		return ClassicLayout{}
	}
	return a.Layout
}

// Clone はLayoutのディープコピーを返す。
func (a ArticleLayout) Clone() ArticleLayout {
	if a.Layout == nil {
		return a
	}
	return ArticleLayout{Layout: a.Layout.cloneLayout()}
}

// MarshalJSON はテンプレート番号を含むJSONを生成する。
func (a ArticleLayout) MarshalJSON() ([]byte, error) {
	v := a.Variant()
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields["template"] = json.RawMessage(fmt.Sprintf("%d", v.Template()))
	return json.Marshal(fields)
}

// UnmarshalJSON はtemplateフィールドに応じたLayoutを復元する。
func (a *ArticleLayout) UnmarshalJSON(b []byte) error {
	var head struct {
		Template TemplateKind `json:"template"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	if head.Template == 0 {
		head.Template = TemplateClassic
	}
	l, err := DecodeLayout(head.Template, b)
	if err != nil {
		return err
	}
	a.Layout = l
	return nil
}

// EncodeLayout はLayoutをDB保存用のテンプレート番号とJSONに変換する。
func EncodeLayout(a ArticleLayout) (TemplateKind, []byte, error) {
	v := a.Variant()
	data, err := json.Marshal(v)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode layout: %w", err)
	}
	return v.Template(), data, nil
}

// DecodeLayout はテンプレート番号とJSONからLayoutを復元する。
// dataが空の場合はテンプレートの空値を返す。
func DecodeLayout(t TemplateKind, data []byte) (Layout, error) {
	var (
		l   Layout
		err error
	)
	switch t {
	case TemplateClassic:
		var v ClassicLayout
		err = unmarshalOptional(data, &v)
		l = v
	case TemplateGallery:
		var v GalleryLayout
		err = unmarshalOptional(data, &v)
		l = v
	case TemplateHighlights:
		var v HighlightsLayout
		err = unmarshalOptional(data, &v)
		l = v
	default:
		return nil, fmt.Errorf("unknown template: %d", t)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode template %d: %w", t, err)
	}
	return l, nil
}

func unmarshalOptional(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
