// Package filetext turns uploaded resume files into plain text for the
// providers that prompt with text instead of bytes.
package filetext

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/talentbase/resumeflow/internal/utils"
)

const (
	MimePDF  = "application/pdf"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// Supported reports whether Extract can handle the mime type.
func Supported(mime string) bool {
	switch mime {
	case MimeText, MimePDF, MimeDocx:
		return true
	}
	return false
}

// Extract returns the plain text of the document. A scanned PDF with no
// text layer comes back empty, not as an error.
func Extract(mime string, data []byte) (string, error) {
	const op = "filetext.Extract"

	switch mime {
	case MimeText:
		return string(data), nil
	case MimePDF:
		return pdfText(data)
	case MimeDocx:
		return docxText(data)
	default:
		return "", utils.E(utils.CodeInvalidArgument, op, "unsupported file type: "+mime, nil)
	}
}

func pdfText(data []byte) (string, error) {
	const op = "filetext.pdfText"

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", utils.E(utils.CodeMalformed, op, "failed to read pdf", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		b.WriteString(text)
	}
	return b.String(), nil
}

func docxText(data []byte) (string, error) {
	const op = "filetext.docxText"

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", utils.E(utils.CodeMalformed, op, "failed to parse docx", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
