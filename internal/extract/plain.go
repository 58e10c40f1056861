package extract

import (
	"bytes"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// extractPlain decodes bytes as text. UTF-8 passes through minus any BOM,
// UTF-16 with a BOM is decoded, and anything else has invalid sequences
// replaced with U+FFFD.
func extractPlain(content []byte) (string, error) {
	if len(content) >= 2 {
		switch {
		case content[0] == 0xFE && content[1] == 0xFF:
			return decodeUTF16(content[2:], true), nil
		case content[0] == 0xFF && content[1] == 0xFE:
			return decodeUTF16(content[2:], false), nil
		}
	}
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return strings.ToValidUTF8(string(content), "�"), nil
	}
	return string(content), nil
}

func decodeUTF16(b []byte, bigEndian bool) string {
	u := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		if bigEndian {
			u = append(u, uint16(b[i])<<8|uint16(b[i+1]))
		} else {
			u = append(u, uint16(b[i])|uint16(b[i+1])<<8)
		}
	}
	return string(utf16.Decode(u))
}
