package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestPDF writes an uncompressed PDF with the given number of empty A4
// pages.
func writeTestPDF(t *testing.T, path string, pages int) {
	t.Helper()
	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages),
	}
	for i := 0; i < pages; i++ {
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << >> >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestDuplexPadding(t *testing.T) {
	testCases := []struct {
		name   string
		counts []int
		want   []bool
	}{
		{"empty", nil, []bool{}},
		{"single odd source is never padded", []int{3}, []bool{false}},
		{"odd then even", []int{1, 2}, []bool{true, false}},
		{"even then odd", []int{2, 1}, []bool{false, false}},
		{"last odd source is not padded", []int{3, 1, 1}, []bool{true, true, false}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, duplexPadding(tc.counts))
		})
	}
}

func TestCombinePadsOddSources(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "1001.pdf")
	b := filepath.Join(dir, "1002.pdf")
	c := filepath.Join(dir, "1003.pdf")
	writeTestPDF(t, a, 1)
	writeTestPDF(t, b, 2)
	writeTestPDF(t, c, 3)
	out := filepath.Join(dir, "packets", "1001-1003.pdf")

	pages, err := NewPdfCombiner(false).Combine(context.Background(), []string{a, b, c}, out)
	require.NoError(t, err)
	// 1 + blank + 2 + 3
	assert.Equal(t, 7, pages)

	got, err := api.PageCountFile(out)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	for _, src := range []string{a, b, c} {
		assert.NoFileExists(t, src)
	}
}

func TestCombineKeepsSources(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	writeTestPDF(t, a, 2)
	writeTestPDF(t, b, 1)
	out := filepath.Join(dir, "out.pdf")

	pages, err := NewPdfCombiner(true).Combine(context.Background(), []string{a, b}, out)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
	assert.FileExists(t, a)
	assert.FileExists(t, b)
}

func TestCombineSingleSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "only.pdf")
	writeTestPDF(t, src, 3)
	out := filepath.Join(dir, "packet.pdf")

	pages, err := NewPdfCombiner(false).Combine(context.Background(), []string{src}, out)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
	assert.FileExists(t, out)
	assert.NoFileExists(t, src)
}

func TestCombineErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewPdfCombiner(false).Combine(context.Background(), nil, filepath.Join(dir, "out.pdf"))
	assert.Error(t, err)

	bogus := filepath.Join(dir, "bogus.pdf")
	require.NoError(t, os.WriteFile(bogus, []byte("not a pdf"), 0o644))
	_, err = NewPdfCombiner(false).Combine(context.Background(), []string{bogus}, filepath.Join(dir, "out.pdf"))
	var ete *ExternalToolError
	require.ErrorAs(t, err, &ete)
	assert.Equal(t, "pdfcpu", ete.Tool)
	assert.FileExists(t, bogus)
}
