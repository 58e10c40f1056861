// Package e2e end-to-end tests; this file builds minimal files of each
// supported document type so ingestion can be exercised per format.
package e2e

import (
	"archive/zip"
	"bytes"

	"github.com/xuri/excelize/v2"
)

// SupportedFileExtensions lists the extensions the file-based tests cover.
// Plain text (.txt, .md, .rst), OOXML (.docx, .xlsx, .pptx), and OpenDocument
// (.odp, .ods). The extractor also handles .pdf, .odt, and .rtf; a minimal
// PDF with extractable text cannot be produced here, and .odt shares the
// .odp/.ods code path.
var SupportedFileExtensions = []string{
	".txt", ".md", ".rst",
	".docx", ".xlsx", ".pptx", ".odp", ".ods",
}

// WriteMinimalFile returns the bytes of a minimal file of the given extension
// containing the given text. Plain types return the raw text; zip-based types
// wrap it in the smallest structure the extractor accepts.
func WriteMinimalFile(ext, text string) ([]byte, error) {
	switch ext {
	case ".docx":
		body := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`
		return zipWithEntry("word/document.xml", body), nil
	case ".pptx":
		body := `<p:sld xmlns:p="a" xmlns:a="b"><p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`
		return zipWithEntry("ppt/slides/slide1.xml", body), nil
	case ".odp":
		body := `<office:document><office:body><draw:page><draw:text-box><text:p>` + text + `</text:p></draw:text-box></draw:page></office:body></office:document>`
		return zipWithEntry("content.xml", body), nil
	case ".ods":
		body := `<office:document><office:body><table:table><table:table-row><table:table-cell><text:p>` + text + `</text:p></table:table-cell></table:table-row></table:table></office:body></office:document>`
		return zipWithEntry("content.xml", body), nil
	case ".xlsx":
		return minimalXlsx(text), nil
	default:
		return []byte(text), nil
	}
}

// zipWithEntry builds a zip archive holding a single named XML entry.
func zipWithEntry(name, content string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create(name)
	_, _ = fw.Write([]byte(content))
	_ = w.Close()
	return buf.Bytes()
}

func minimalXlsx(text string) []byte {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", text)
	var buf bytes.Buffer
	_, _ = f.WriteTo(&buf)
	return buf.Bytes()
}
