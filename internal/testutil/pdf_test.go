package testutil

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPDFStructure(t *testing.T) {
	raw := BuildPDF("hello", "world")

	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-1.4\n")))
	assert.True(t, bytes.HasSuffix(raw, []byte("%%EOF\n")))
	assert.Contains(t, string(raw), "/Type /Catalog")
	assert.Contains(t, string(raw), "(hello\\n) Tj")
	assert.Contains(t, string(raw), "(world\\n) Tj")
}

func TestBuildPDFStartXref(t *testing.T) {
	raw := string(BuildPDF("x"))

	xrefPos := strings.Index(raw, "xref\n")
	require.Positive(t, xrefPos)

	lines := strings.Split(strings.TrimSpace(raw), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	// startxref value is the second-to-last line, before %%EOF.
	declared, err := strconv.Atoi(lines[len(lines)-2])
	require.NoError(t, err)
	assert.Equal(t, xrefPos, declared)
}

func TestBuildPDFObjectOffsets(t *testing.T) {
	raw := BuildPDF("x")

	xrefPos := bytes.Index(raw, []byte("xref\n"))
	require.Positive(t, xrefPos)
	// Entries start after "xref\n0 6\n"; each is exactly 20 bytes.
	entries := raw[xrefPos+len("xref\n0 6\n"):]

	for i := 1; i <= 5; i++ {
		entry := entries[20*i : 20*i+20]
		offset, err := strconv.Atoi(string(entry[:10]))
		require.NoError(t, err)

		marker := []byte(strconv.Itoa(i) + " 0 obj")
		assert.True(t, bytes.HasPrefix(raw[offset:], marker), "object %d offset points at its header", i)
	}
}

func TestEscapePDFString(t *testing.T) {
	assert.Equal(t, `a\(b\)c`, escapePDFString("a(b)c"))
	assert.Equal(t, `a\\b`, escapePDFString(`a\b`))
}

func TestWriteCorruptPDF(t *testing.T) {
	path := WriteCorruptPDF(t, t.TempDir(), "bad.pdf")
	assert.FileExists(t, path)
}
