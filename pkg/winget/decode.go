// pkg/winget/decode.go
package winget

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeOutput converts captured process output to a string. A UTF-16 byte
// order mark switches decoding to UTF-16; a UTF-8 BOM is dropped. Anything
// else is treated as UTF-8.
func DecodeOutput(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}
