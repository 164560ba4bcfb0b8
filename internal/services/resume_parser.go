package services

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MIMEPlainText = "text/plain"
	MIMEPDF       = "application/pdf"
	MIMEDOCX      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

type ResumeParserService interface {
	ExtractText(filename, mimeType string, data []byte) (*ResumeContent, error)
}

type ResumeContent struct {
	Text      string
	PageCount int
	Filename  string
	MIMEType  string
}

type resumeParserService struct{}

func NewResumeParserService() ResumeParserService {
	return &resumeParserService{}
}

// ExtractText implements ResumeParserService.
func (p *resumeParserService) ExtractText(filename, mimeType string, data []byte) (*ResumeContent, error) {
	kind := DetectMIMEType(filename, mimeType)

	content := &ResumeContent{
		Filename:  filename,
		MIMEType:  kind,
		PageCount: 1,
	}

	var err error
	switch kind {
	case MIMEPDF:
		content.Text, content.PageCount, err = extractPDFText(data)
	case MIMEDOCX:
		content.Text, err = extractDOCXText(data)
	case MIMEPlainText:
		if !utf8.Valid(data) {
			return nil, errors.New("failed to read text file: invalid UTF-8")
		}
		content.Text = string(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, kind)
	}
	if err != nil {
		return nil, err
	}

	content.Text = CleanText(content.Text)
	if content.Text == "" {
		return nil, ErrNoTextContent
	}

	return content, nil
}

// DetectMIMEType prefers the file extension and falls back to the declared
// content type, minus any parameters.
func DetectMIMEType(filename, declared string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MIMEPDF
	case ".docx":
		return MIMEDOCX
	case ".txt", ".md":
		return MIMEPlainText
	}

	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(declared))
	}
	if strings.HasPrefix(mediaType, "text/") {
		return MIMEPlainText
	}
	return mediaType
}

func extractPDFText(data []byte) (string, int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// skip unreadable pages
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), totalPage, nil
}

func extractDOCXText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer doc.Close()

	return stripDocumentXML(doc.Editable().GetContent()), nil
}

// stripDocumentXML keeps the character data of a word/document.xml body,
// ending a line at every paragraph and break.
func stripDocumentXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var b strings.Builder

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}

		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				b.WriteString("\t")
			}
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// CleanText trims every line and drops the blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
