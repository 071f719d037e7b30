// ABOUTME: Request DTOs for the render preview endpoints
// ABOUTME: Carries the HTML fragment and per-request configuration overrides

package requests

// RenderRequest is the body of the render, markdown and elements endpoints
type RenderRequest struct {
	// HTML is the topic or reply fragment as served by the forum
	HTML string `json:"html" maxLength:"1048576" doc:"HTML fragment to render"`

	// Profile selects the topic ("default") or reply ("compact") styling
	Profile string `json:"profile,omitempty" enum:"default,compact" doc:"Render profile; the server profile when omitted"`

	// Lenient degrades unsupported tags to text instead of failing
	Lenient bool `json:"lenient,omitempty" doc:"Use the lenient tag policy; requires the lenient override flag"`

	// Images overrides whether images are attached and elements extracted
	Images *bool `json:"images,omitempty" doc:"Enable images and element extraction"`

	// Highlight overrides code highlighting
	Highlight *bool `json:"highlight,omitempty" doc:"Enable code highlighting"`
}

// HasOverrides reports whether the request changes the server configuration
func (r *RenderRequest) HasOverrides() bool {
	return r.Profile != "" || r.Lenient || r.Images != nil || r.Highlight != nil
}

// DetectRequest is the body of the language detection endpoint
type DetectRequest struct {
	Code string `json:"code" minLength:"1" maxLength:"262144" doc:"Code snippet"`
}

// MentionsRequest is the body of the mention scan endpoint
type MentionsRequest struct {
	Text string `json:"text" maxLength:"262144" doc:"Plain text to scan for @username mentions"`
}
