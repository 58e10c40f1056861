package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

const (
	docxDefaultDocumentPart = "word/document.xml"
	ooxmlContentTypesPart   = "[Content_Types].xml"
	docxMainContentType     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

// wtTag matches <w:t> text nodes whatever attributes they carry, including
// xml:space="preserve".
var wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// docxPartOverrides locate the main document part declared in
// [Content_Types].xml, in either attribute order.
var docxPartOverrides = []*regexp.Regexp{
	regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"`),
	regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"[^>]+PartName="([^"]+)"`),
}

// docxDocumentPart resolves the body part name. Some producers store the
// body somewhere other than word/document.xml (word/document2.xml is common
// after repeated saves) and declare it in [Content_Types].xml.
func docxDocumentPart(zr *zip.Reader) string {
	f := findZipEntry(zr, ooxmlContentTypesPart)
	if f == nil {
		return docxDefaultDocumentPart
	}
	data, err := readZipEntry(f)
	if err != nil {
		return docxDefaultDocumentPart
	}
	for _, re := range docxPartOverrides {
		if m := re.FindSubmatch(data); len(m) > 1 {
			return strings.TrimPrefix(string(m[1]), "/")
		}
	}
	return docxDefaultDocumentPart
}

// extractDOCX extracts text from .docx bytes. The body is one XML part in
// the zip; every <w:t> text node contributes, so runs keep their text no
// matter which paragraph or run attributes surround them.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract DOCX: not a zip: %w", err)
	}
	part := docxDocumentPart(zr)
	f := findZipEntry(zr, part)
	if f == nil {
		return "", fmt.Errorf("extract DOCX: %s not found", part)
	}
	data, err := readZipEntry(f)
	if err != nil {
		return "", fmt.Errorf("extract DOCX: %w", err)
	}

	var b strings.Builder
	for _, m := range wtTag.FindAllSubmatch(data, -1) {
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
