// ABOUTME: MentionParser finds @username mentions in plain text
// ABOUTME: Excludes email addresses by rejecting an '@' that continues an identifier

// Package mention scans plain text for V2EX @username mentions.
//
// A mention is '@' followed by one or more of [A-Za-z0-9_]. The byte before
// the '@' must not itself be an identifier character, which rules out the
// local part of an email address ("user@example.com") and the second half of
// "@bob@charlie". Ranges are byte offsets into the scanned string.
package mention

import (
	"strings"

	"v2ex-richview/core/domain"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 20
)

// Parser is stateless and safe for concurrent use
type Parser struct{}

// NewParser creates a mention parser
func NewParser() *Parser {
	return &Parser{}
}

// FindMentions returns every mention in text, left to right
func (p *Parser) FindMentions(text string) []domain.Mention {
	var mentions []domain.Mention
	for i := 0; i < len(text); i++ {
		if text[i] != '@' {
			continue
		}
		if i > 0 && isIdentByte(text[i-1]) {
			continue
		}
		end := i + 1
		for end < len(text) && isIdentByte(text[end]) {
			end++
		}
		if end == i+1 {
			continue
		}
		mentions = append(mentions, domain.Mention{
			FullText: text[i:end],
			Username: text[i+1 : end],
			Range:    domain.Range{Start: i, End: end},
		})
		i = end - 1
	}
	return mentions
}

// IsMention reports whether the byte at offset lies inside a mention and
// returns that mention
func (p *Parser) IsMention(offset int, text string) (domain.Mention, bool) {
	if offset < 0 || offset >= len(text) {
		return domain.Mention{}, false
	}
	for _, m := range p.FindMentions(text) {
		if m.Range.Contains(offset) {
			return m, true
		}
		if m.Range.Start > offset {
			break
		}
	}
	return domain.Mention{}, false
}

// ReplaceMentions substitutes every mention with transform(mention).
// All ranges are computed against the original text before any
// substitution is applied.
func (p *Parser) ReplaceMentions(text string, transform func(domain.Mention) string) string {
	mentions := p.FindMentions(text)
	if len(mentions) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range mentions {
		b.WriteString(text[last:m.Range.Start])
		b.WriteString(transform(m))
		last = m.Range.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// Usernames returns the distinct usernames mentioned in text, in order of
// first appearance
func (p *Parser) Usernames(text string) []string {
	mentions := p.FindMentions(text)
	seen := make(map[string]struct{}, len(mentions))
	names := make([]string, 0, len(mentions))
	for _, m := range mentions {
		if _, ok := seen[m.Username]; ok {
			continue
		}
		seen[m.Username] = struct{}{}
		names = append(names, m.Username)
	}
	return names
}

// IsValidV2EXUsername applies the stricter account-name rule:
// 3 to 20 characters from [A-Za-z0-9_]
func IsValidV2EXUsername(name string) bool {
	if len(name) < minUsernameLength || len(name) > maxUsernameLength {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isIdentByte(name[i]) {
			return false
		}
	}
	return true
}

// ExtractUsername returns the username from a token such as "@bob" or
// "@bob," and false when the token has no identifier after the '@'
func ExtractUsername(token string) (string, bool) {
	token = strings.TrimSpace(token)
	token = strings.TrimPrefix(token, "@")
	end := 0
	for end < len(token) && isIdentByte(token[end]) {
		end++
	}
	if end == 0 {
		return "", false
	}
	return token[:end], true
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
