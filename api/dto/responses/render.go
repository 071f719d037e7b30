// ABOUTME: Response DTOs for the render preview endpoints
// ABOUTME: Flattens render results into JSON-friendly shapes

package responses

import "v2ex-richview/core/domain"

// RenderResponse is the full pipeline output
type RenderResponse struct {
	Key        string                  `json:"key" doc:"Identifies the (html, configuration) pair"`
	Markdown   string                  `json:"markdown"`
	PlainText  string                  `json:"plain_text" doc:"Concatenated span text; tap ranges index into it"`
	StyledText domain.StyledText       `json:"styled_text"`
	Elements   []domain.ContentElement `json:"elements,omitempty"`
	ImageURLs  []string                `json:"image_urls,omitempty"`
	Mentions   []string                `json:"mentions,omitempty" doc:"Mentioned usernames in order of first appearance"`
}

// MarkdownResponse is the converter output only
type MarkdownResponse struct {
	Key      string `json:"key"`
	Markdown string `json:"markdown"`
}

// ElementsResponse is the extracted block structure
type ElementsResponse struct {
	Key       string                  `json:"key"`
	Elements  []domain.ContentElement `json:"elements"`
	ImageURLs []string                `json:"image_urls"`
}

// DetectResponse reports the guessed language
type DetectResponse struct {
	Detected    bool   `json:"detected"`
	Language    string `json:"language,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// MentionsResponse lists every mention with its byte range
type MentionsResponse struct {
	Mentions  []domain.Mention `json:"mentions"`
	Usernames []string         `json:"usernames"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Backend string `json:"backend"`
}
