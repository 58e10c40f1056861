package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// opendocContentPath is the main content file inside OpenDocument zips
// (.odt, .odp, .ods).
const opendocContentPath = "content.xml"

// odText matches paragraph, heading, and span text nodes in document order.
// A flat capture is enough: an element wrapping nested markup cannot match
// (its capture would have to cross a tag), while the nested elements
// surface on their own.
var odText = regexp.MustCompile(`<text:(?:p|h|span)[^>]*>([^<]+)</text:(?:p|h|span)>`)

// extractOpenDocument extracts text from OpenDocument zip bytes. Writer,
// presentation, and spreadsheet files all keep their body in content.xml.
// format names the file type in error messages.
func extractOpenDocument(content []byte, format string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract %s: not a zip: %w", format, err)
	}
	f := findZipEntry(zr, opendocContentPath)
	if f == nil {
		return "", fmt.Errorf("extract %s: %s not found", format, opendocContentPath)
	}
	data, err := readZipEntry(f)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", format, err)
	}

	var b strings.Builder
	for _, m := range odText.FindAllSubmatch(data, -1) {
		t := strings.TrimSpace(string(m[1]))
		if t == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t)
	}
	return b.String(), nil
}
