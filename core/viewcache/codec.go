package viewcache

import (
	"github.com/fxamacker/cbor/v2"

	"v2ex-richview/core/domain"
)

var styledDecMode cbor.DecMode

func init() {
	var err error
	styledDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("viewcache: CBOR decoder initialization failed: " + err.Error())
	}
}

// encodeStyled serializes styled text for the backing store
func encodeStyled(st domain.StyledText) ([]byte, error) {
	return fingerprintMode.Marshal(st)
}

func decodeStyled(data []byte, st *domain.StyledText) error {
	return styledDecMode.Unmarshal(data, st)
}
