package viewcache

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"v2ex-richview/core/domain"
	"v2ex-richview/core/interfaces"
)

// fingerprintMode uses Core Deterministic Encoding so equal option values
// always produce identical bytes
var fingerprintMode cbor.EncMode

func init() {
	var err error
	fingerprintMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("viewcache: CBOR encoder initialization failed: " + err.Error())
	}
}

// ContentHash returns the hex blake3 digest of text
func ContentHash(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Fingerprint returns a short stable digest of an option value
func Fingerprint(v any) string {
	data, err := fingerprintMode.Marshal(v)
	if err != nil {
		data = []byte(fmt.Sprintf("%#v", v))
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

type convertFingerprint struct {
	Policy   int    `cbor:"1,keyasint"`
	BaseURL  string `cbor:"2,keyasint"`
	Escalate bool   `cbor:"3,keyasint"`
}

type renderFingerprint struct {
	Stylesheet   domain.Stylesheet `cbor:"1,keyasint"`
	Images       bool              `cbor:"2,keyasint"`
	Highlighting bool              `cbor:"3,keyasint"`
}

func convertKey(prefix, html string, opts interfaces.ConvertOptions) string {
	return prefix + ":" + ContentHash(html) + ":" + Fingerprint(convertFingerprint{
		Policy:   int(opts.Policy),
		BaseURL:  opts.BaseURL,
		Escalate: opts.Escalate,
	})
}

// MarkdownKey keys the Markdown tier by the HTML text and the options
// that change converter output
func MarkdownKey(html string, opts interfaces.ConvertOptions) string {
	return convertKey("md", html, opts)
}

// ElementsKey keys the elements tier the same way as the Markdown tier
func ElementsKey(html string, opts interfaces.ConvertOptions) string {
	return convertKey("el", html, opts)
}

// StyledKey keys the styled-text tier by the Markdown text, the
// stylesheet and the render switches
func StyledKey(markdown string, stylesheet domain.Stylesheet, opts interfaces.RenderOptions) string {
	return "st:" + ContentHash(markdown) + ":" + Fingerprint(renderFingerprint{
		Stylesheet:   stylesheet,
		Images:       opts.EnableImages,
		Highlighting: opts.EnableCodeHighlighting,
	})
}
