package services

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("resume_file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["resume_file"][0]
}

func TestStorageSaveAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	storage := NewStorageService(dir, 1024)

	path, err := storage.SaveFile(fileHeader(t, "CV.PDF", []byte("%PDF-1.4")))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, storage.DeleteFile(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, storage.DeleteFile(path))
}

func TestStorageRejectsInvalidUploads(t *testing.T) {
	storage := NewStorageService(t.TempDir(), 4)

	_, err := storage.SaveFile(fileHeader(t, "cv.docx", []byte("x")))
	require.ErrorIs(t, err, ErrInvalidResume)

	_, err = storage.SaveFile(fileHeader(t, "cv.pdf", []byte("too large")))
	require.ErrorIs(t, err, ErrInvalidResume)
}

type fakeParser struct {
	seenPath string
	content  *PDFContent
	err      error
}

func (f *fakeParser) ExtractText(path string) (*PDFContent, error) {
	f.seenPath = path
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return f.content, f.err
}

func TestResumeReaderRemovesUpload(t *testing.T) {
	dir := t.TempDir()
	parser := &fakeParser{content: &PDFContent{Text: "Go engineer", PageCount: 1}}
	reader := NewResumeReader(NewStorageService(dir, 1024), parser, zaptest.NewLogger(t))

	text, err := reader.Read(fileHeader(t, "cv.pdf", []byte("%PDF")))
	require.NoError(t, err)
	assert.Equal(t, "Go engineer", text)

	_, err = os.Stat(parser.seenPath)
	assert.True(t, os.IsNotExist(err))

	parser.err = errors.New("broken")
	_, err = reader.Read(fileHeader(t, "cv.pdf", []byte("%PDF")))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPDFParserRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o600))

	_, err := NewPDFParserService(zaptest.NewLogger(t)).ExtractText(path)
	require.ErrorIs(t, err, ErrInvalidResume)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a\nb", CleanText("  a  \n\n\n b \n"))
	assert.Equal(t, "", CleanText(" \n "))
}
