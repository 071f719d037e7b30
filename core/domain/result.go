// ABOUTME: RenderResult domain model is what the render pipeline hands back to callers
// ABOUTME: Markdown and styled text are always present; elements only when images are enabled

package domain

// RenderResult is the output of one pipeline run
type RenderResult struct {
	// Key identifies the (html, configuration) pair the result belongs to
	Key string `json:"key"`

	Markdown   string           `json:"markdown"`
	StyledText StyledText       `json:"styledText"`
	Elements   []ContentElement `json:"elements,omitempty"`
}

// ImageURLs returns the image URLs of the extracted elements, or of the
// styled text attachments when no elements were extracted
func (r *RenderResult) ImageURLs() []string {
	if len(r.Elements) > 0 {
		return ImageURLs(r.Elements)
	}
	var urls []string
	for _, tap := range r.StyledText.TargetsOfKind(TapImage) {
		urls = append(urls, tap.Value)
	}
	return urls
}
