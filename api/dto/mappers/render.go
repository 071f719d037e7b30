// ABOUTME: Mappers for converting render pipeline results into API DTOs
// ABOUTME: Keeps response shaping out of the handlers

package mappers

import (
	"v2ex-richview/api/dto/responses"
	"v2ex-richview/core/domain"
	"v2ex-richview/core/language"
)

// ToRenderResponse converts a RenderResult to a RenderResponse DTO
func ToRenderResponse(result *domain.RenderResult) *responses.RenderResponse {
	if result == nil {
		return nil
	}
	return &responses.RenderResponse{
		Key:        result.Key,
		Markdown:   result.Markdown,
		PlainText:  result.StyledText.PlainText(),
		StyledText: result.StyledText,
		Elements:   result.Elements,
		ImageURLs:  result.ImageURLs(),
		Mentions:   mentionedUsers(result.StyledText),
	}
}

// ToMarkdownResponse keeps only the converter output
func ToMarkdownResponse(result *domain.RenderResult) *responses.MarkdownResponse {
	if result == nil {
		return nil
	}
	return &responses.MarkdownResponse{Key: result.Key, Markdown: result.Markdown}
}

// ToElementsResponse keeps only the extracted elements. Slices are never
// nil so clients always see arrays.
func ToElementsResponse(result *domain.RenderResult) *responses.ElementsResponse {
	if result == nil {
		return nil
	}
	resp := &responses.ElementsResponse{
		Key:       result.Key,
		Elements:  result.Elements,
		ImageURLs: domain.ImageURLs(result.Elements),
	}
	if resp.Elements == nil {
		resp.Elements = []domain.ContentElement{}
	}
	if resp.ImageURLs == nil {
		resp.ImageURLs = []string{}
	}
	return resp
}

// ToDetectResponse converts a detector verdict
func ToDetectResponse(tag string, ok bool) *responses.DetectResponse {
	if !ok {
		return &responses.DetectResponse{}
	}
	return &responses.DetectResponse{
		Detected:    true,
		Language:    tag,
		DisplayName: language.DisplayName(tag),
	}
}

// ToMentionsResponse lists mentions and their distinct usernames
func ToMentionsResponse(mentions []domain.Mention) *responses.MentionsResponse {
	resp := &responses.MentionsResponse{
		Mentions:  make([]domain.Mention, 0, len(mentions)),
		Usernames: []string{},
	}
	seen := make(map[string]bool, len(mentions))
	for _, m := range mentions {
		resp.Mentions = append(resp.Mentions, m)
		if !seen[m.Username] {
			seen[m.Username] = true
			resp.Usernames = append(resp.Usernames, m.Username)
		}
	}
	return resp
}

func mentionedUsers(st domain.StyledText) []string {
	var users []string
	seen := make(map[string]bool)
	for _, tap := range st.TargetsOfKind(domain.TapMention) {
		if !seen[tap.Value] {
			seen[tap.Value] = true
			users = append(users, tap.Value)
		}
	}
	return users
}
