package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatPDF, DetectFormat("Policy.PDF"))
	assert.Equal(t, FormatDOCX, DetectFormat("a/b/wording.docx"))
	assert.Equal(t, FormatText, DetectFormat("notes.txt"))
	assert.Equal(t, FormatText, DetectFormat("README"))
}

func TestExtractBytes_Text(t *testing.T) {
	got, err := New().ExtractBytes("a.txt", []byte("caf\xffé line\nnext"))
	require.NoError(t, err)
	assert.Equal(t, "café line\nnext", got)
}

func TestExtractBytes_DOCX(t *testing.T) {
	xmlDoc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>1. Surgery for </w:t></w:r><w:r><w:t>cataract</w:t></w:r></w:p>
<w:p><w:r><w:t>2. Surgery for hernia</w:t></w:r></w:p>
</w:body>
</w:document>`
	got, err := New().ExtractBytes("policy.docx", buildDOCX(t, xmlDoc))
	require.NoError(t, err)
	assert.Equal(t, "1. Surgery for cataract\n2. Surgery for hernia", got)
}

func TestExtractBytes_Invalid(t *testing.T) {
	_, err := New().ExtractBytes("broken.docx", []byte("not a zip"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = New().ExtractBytes("broken.pdf", []byte("not a pdf"))
	assert.ErrorIs(t, err, ErrUnsupported)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	require.NoError(t, zw.Close())
	_, err = New().ExtractBytes("empty.docx", buf.Bytes())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestExtractFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "policy.txt")
	require.NoError(t, os.WriteFile(p, []byte("hello"), 0o644))
	got, err := New().ExtractFile(p)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = New().ExtractFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/docs/policy.txt" {
			_, _ = w.Write([]byte("policy body"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := t.TempDir()
	e := NewWithClient(srv.Client())
	local, err := e.Fetch(context.Background(), srv.URL+"/docs/policy.txt", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "policy.txt"), local)
	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "policy body", string(data))

	_, err = e.Fetch(context.Background(), srv.URL+"/missing.pdf", dir)
	assert.ErrorContains(t, err, "404")

	_, err = e.Fetch(context.Background(), "ftp://example.com/a.pdf", dir)
	assert.Error(t, err)
}

func TestFetch_SaveErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("policy body"))
	}))
	defer srv.Close()

	// a regular file where the download directory should be
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	dir := filepath.Join(blocker, "sub")

	_, err := NewWithClient(srv.Client()).Fetch(context.Background(), srv.URL+"/policy.txt", dir)
	require.Error(t, err)
	assert.ErrorContains(t, err, "save "+filepath.Join(dir, "policy.txt"))
	var pathErr *fs.PathError
	assert.True(t, errors.As(err, &pathErr))
}
