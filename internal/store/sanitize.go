package store

import "github.com/hitoshi/contentadmin/internal/model"

func sanitizePtr(s Sanitizer, v *string) *string {
	if v == nil {
		return nil
	}
	out := s.Sanitize(*v)
	return &out
}

// sanitizeLayout はレイアウト内のリッチテキストを無害化する。
// 画像URLと見出しリストはプレーンテキストのため対象外。
func sanitizeLayout(s Sanitizer, a model.ArticleLayout) model.ArticleLayout {
	switch l := a.Variant().(type) {
	case model.ClassicLayout:
		l.HighlightQuote = s.Sanitize(l.HighlightQuote)
		l.Paragraph1 = s.Sanitize(l.Paragraph1)
		l.Paragraph2 = s.Sanitize(l.Paragraph2)
		l.ParagraphBottom = s.Sanitize(l.ParagraphBottom)
		return model.ArticleLayout{Layout: l}
	case model.GalleryLayout:
		l.Intro = s.Sanitize(l.Intro)
		sections := make([]model.ImageText, len(l.Sections))
		for i, sec := range l.Sections {
			sections[i] = model.ImageText{Image: sec.Image, Text: s.Sanitize(sec.Text)}
		}
		l.Sections = sections
		return model.ArticleLayout{Layout: l}
	case model.HighlightsLayout:
		l.Intro = s.Sanitize(l.Intro)
		return model.ArticleLayout{Layout: l}
	default:
		return a
	}
}
