// Package extract turns uploaded files into plain text.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupported is returned for content that cannot be decoded as its format.
var ErrUnsupported = errors.New("unsupported document")

// maxDownloadBytes caps Fetch.
const maxDownloadBytes = 64 << 20

// Format is a recognised document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "text"
)

// DetectFormat picks the format from the file extension.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	default:
		return FormatText
	}
}

type Extractor struct {
	client *http.Client
}

func New() *Extractor {
	return &Extractor{client: &http.Client{Timeout: 60 * time.Second}}
}

// NewWithClient uses c for Fetch.
func NewWithClient(c *http.Client) *Extractor {
	return &Extractor{client: c}
}

// ExtractFile reads path and extracts its text.
func (e *Extractor) ExtractFile(p string) (string, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", p, err)
	}
	return e.ExtractBytes(filepath.Base(p), data)
}

// ExtractBytes extracts text from data, choosing the format from name.
func (e *Extractor) ExtractBytes(name string, data []byte) (string, error) {
	switch DetectFormat(name) {
	case FormatPDF:
		return extractPDF(data)
	case FormatDOCX:
		return extractDOCX(data)
	default:
		return strings.ToValidUTF8(string(data), ""), nil
	}
}

// Fetch downloads rawURL into dir, keeping the URL's base name, and returns
// the local path.
func (e *Extractor) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("invalid document url %q", rawURL)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		name = "document.txt"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: %s", rawURL, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	if len(data) > maxDownloadBytes {
		return "", fmt.Errorf("download %s: larger than %d bytes", rawURL, maxDownloadBytes)
	}
	local := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("save %s: %w", local, err)
	}
	if err := os.WriteFile(local, data, 0o644); err != nil {
		return "", fmt.Errorf("save %s: %w", local, err)
	}
	return local, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w: %v", ErrUnsupported, err)
	}
	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// some pages fail to decode; keep the rest
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// extractDOCX reads word/document.xml and emits one line per paragraph.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open DOCX: %w: %v", ErrUnsupported, err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}
		var doc documentXML
		if err := xml.Unmarshal(content, &doc); err != nil {
			return "", fmt.Errorf("parse document.xml: %w: %v", ErrUnsupported, err)
		}
		var b strings.Builder
		for i, para := range doc.Body.Paragraphs {
			if i > 0 {
				b.WriteString("\n")
			}
			for _, r := range para.Runs {
				for _, t := range r.Text {
					b.WriteString(t.Content)
				}
			}
		}
		return b.String(), nil
	}
	return "", fmt.Errorf("%w: DOCX without word/document.xml", ErrUnsupported)
}
