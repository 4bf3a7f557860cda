package capture

import (
	"runtime"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// fallbackEncoding maps every byte to a rune, so decoding with it cannot fail
func fallbackEncoding() encoding.Encoding {
	if runtime.GOOS == "windows" {
		return charmap.Windows1252
	}
	return charmap.ISO8859_1
}

// Decode turns captured bytes into text. Valid UTF-8 is kept as is; anything
// else is decoded with the platform fallback codec.
func Decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	out, err := fallbackEncoding().NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}
