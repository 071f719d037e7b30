package mappers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"v2ex-richview/core/domain"
)

func sampleResult() *domain.RenderResult {
	return &domain.RenderResult{
		Key:      "abc:def",
		Markdown: "hi @livid and @livid",
		StyledText: domain.StyledText{
			Spans: []domain.Span{{Text: "hi "}, {Text: "@livid"}, {Text: " and "}, {Text: "@livid"}},
			Taps: []domain.TapTarget{
				{Kind: domain.TapMention, Value: "livid", Range: domain.Range{Start: 3, End: 9}},
				{Kind: domain.TapMention, Value: "livid", Range: domain.Range{Start: 14, End: 20}},
			},
		},
		Elements: []domain.ContentElement{
			domain.Image{URL: "https://i.v2ex.co/a.png", Alt: "a"},
		},
	}
}

func TestToRenderResponse(t *testing.T) {
	resp := ToRenderResponse(sampleResult())

	require.NotNil(t, resp)
	assert.Equal(t, "abc:def", resp.Key)
	assert.Equal(t, "hi @livid and @livid", resp.PlainText)
	assert.Equal(t, []string{"livid"}, resp.Mentions)
	assert.Equal(t, []string{"https://i.v2ex.co/a.png"}, resp.ImageURLs)
	assert.Len(t, resp.Elements, 1)
}

func TestToRenderResponse_Nil(t *testing.T) {
	assert.Nil(t, ToRenderResponse(nil))
	assert.Nil(t, ToMarkdownResponse(nil))
	assert.Nil(t, ToElementsResponse(nil))
}

func TestToElementsResponse_NeverNilSlices(t *testing.T) {
	resp := ToElementsResponse(&domain.RenderResult{Key: "k"})

	assert.NotNil(t, resp.Elements)
	assert.NotNil(t, resp.ImageURLs)
	assert.Empty(t, resp.Elements)
}

func TestToDetectResponse(t *testing.T) {
	assert.Equal(t, "Go", ToDetectResponse("go", true).DisplayName)
	assert.False(t, ToDetectResponse("", false).Detected)
}

func TestToMentionsResponse(t *testing.T) {
	mentions := []domain.Mention{
		{FullText: "@a", Username: "a", Range: domain.Range{Start: 0, End: 2}},
		{FullText: "@b", Username: "b", Range: domain.Range{Start: 3, End: 5}},
		{FullText: "@a", Username: "a", Range: domain.Range{Start: 6, End: 8}},
	}

	resp := ToMentionsResponse(mentions)

	assert.Len(t, resp.Mentions, 3)
	assert.Equal(t, []string{"a", "b"}, resp.Usernames)

	empty := ToMentionsResponse(nil)
	assert.NotNil(t, empty.Mentions)
	assert.NotNil(t, empty.Usernames)
}
