package renderer

import (
	"sort"

	"v2ex-richview/core/domain"
	"v2ex-richview/core/mention"
)

// overlayMentions styles every @username in the plain text and adds a
// mention tap target for it. Matches overlapping code, link or image
// spans are left alone.
func overlayMentions(st domain.StyledText, parser *mention.Parser, style domain.MentionStyle) domain.StyledText {
	found := parser.FindMentions(st.PlainText())
	if len(found) == 0 {
		return st
	}

	var excluded []domain.Range
	offset := 0
	for _, span := range st.Spans {
		end := offset + len(span.Text)
		a := span.Attributes
		if a.Monospace || a.Link != "" || a.ImageURL != "" {
			excluded = append(excluded, domain.Range{Start: offset, End: end})
		}
		offset = end
	}

	var accepted []domain.Mention
	for _, m := range found {
		if !overlapsAny(m.Range, excluded) {
			accepted = append(accepted, m)
		}
	}
	if len(accepted) == 0 {
		return st
	}

	out := domain.StyledText{Taps: append([]domain.TapTarget(nil), st.Taps...)}
	offset = 0
	for _, span := range st.Spans {
		out.Spans = append(out.Spans, splitSpan(span, offset, accepted, style)...)
		offset += len(span.Text)
	}
	for _, m := range accepted {
		out.Taps = append(out.Taps, domain.TapTarget{Kind: domain.TapMention, Value: m.Username, Range: m.Range})
	}
	sort.SliceStable(out.Taps, func(i, j int) bool {
		return out.Taps[i].Range.Start < out.Taps[j].Range.Start
	})
	return out
}

func overlapsAny(r domain.Range, ranges []domain.Range) bool {
	for _, other := range ranges {
		if r.Overlaps(other) {
			return true
		}
	}
	return false
}

// splitSpan cuts a span starting at offset along mention boundaries and
// restyles the pieces that fall inside a mention
func splitSpan(span domain.Span, offset int, mentions []domain.Mention, style domain.MentionStyle) []domain.Span {
	end := offset + len(span.Text)
	var pieces []domain.Span
	cursor := offset
	for _, m := range mentions {
		if m.Range.End <= cursor || m.Range.Start >= end {
			continue
		}
		start := max(m.Range.Start, cursor)
		stop := min(m.Range.End, end)
		if start > cursor {
			pieces = append(pieces, domain.Span{Text: span.Text[cursor-offset : start-offset], Attributes: span.Attributes})
		}
		attrs := span.Attributes
		attrs.Mention = m.Username
		attrs.Foreground = style.Color
		if style.Background != "" {
			attrs.Background = style.Background
		}
		if style.FontWeight > attrs.FontWeight {
			attrs.FontWeight = style.FontWeight
		}
		pieces = append(pieces, domain.Span{Text: span.Text[start-offset : stop-offset], Attributes: attrs})
		cursor = stop
	}
	if cursor < end {
		pieces = append(pieces, domain.Span{Text: span.Text[cursor-offset:], Attributes: span.Attributes})
	}
	return pieces
}
