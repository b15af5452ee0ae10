package transport

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeResponse turns raw device bytes into a UTF-8 string. Network
// operating systems generally emit ASCII, but banners and interface
// descriptions show up in Latin-1 on older images, which produces
// invalid UTF-8 if passed through untouched.
func decodeResponse(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		// ISO8859_1 decoding cannot actually fail; keep the raw bytes
		// rather than dropping output.
		return string(raw)
	}
	return string(decoded)
}
