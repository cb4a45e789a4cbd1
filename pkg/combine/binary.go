package combine

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	errBinary  = errors.New("contains NUL bytes, likely a binary file")
	errNotUTF8 = errors.New("not valid UTF-8 text")
)

// checkText verifies that data is UTF-8 text that an XML 1.0 document can
// carry unchanged.
func checkText(data []byte) error {
	if bytes.IndexByte(data, 0) >= 0 {
		return errBinary
	}
	if !utf8.Valid(data) {
		return errNotUTF8
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if !isXMLChar(r) {
			return fmt.Errorf("character %U at byte %d cannot be represented in XML", r, i)
		}
		i += size
	}
	return nil
}

// isXMLChar implements the Char production of XML 1.0.
func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
