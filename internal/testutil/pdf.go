// Package testutil provides test fixtures: minimal but structurally valid
// PDF documents with a real text layer, so pipeline tests run end-to-end
// without binary fixtures checked into the repository.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// WritePDF writes a single-page PDF containing the given text lines as a
// proper text layer and returns its path. Offsets in the cross-reference
// table are computed while writing, so the file parses with strict readers.
func WritePDF(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, BuildPDF(lines...), 0o600))
	return path
}

// WriteMultiPagePDF writes a PDF with one page per line slice.
func WriteMultiPagePDF(t *testing.T, dir, name string, pages ...[]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, BuildPDFPages(pages...), 0o600))
	return path
}

// WriteCorruptPDF writes a file that is not parseable as a PDF.
func WriteCorruptPDF(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o600))
	return path
}

// BuildPDF renders the raw bytes of a one-page PDF with the given text
// lines. Each line becomes one text-showing operation terminated by an
// embedded newline so text extraction preserves line structure.
func BuildPDF(lines ...string) []byte {
	return BuildPDFPages(lines)
}

// BuildPDFPages renders a PDF with one page per line slice.
func BuildPDFPages(pages ...[]string) []byte {
	fontRef := 3 + 2*len(pages)

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
	}
	for i, lines := range pages {
		var content strings.Builder
		content.WriteString("BT /F1 12 Tf 50 750 Td 14 TL\n")
		for _, line := range lines {
			content.WriteString("(" + escapePDFString(line) + "\\n) Tj T*\n")
		}
		content.WriteString("ET\n")
		stream := content.String()

		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R "+
				"/Resources << /Font << /F1 %d 0 R >> >> >>", 4+2*i, fontRef),
			fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream),
		)
	}
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects)+1)
	for i, obj := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefStart)

	return buf.Bytes()
}

func escapePDFString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "(", "\\(")
	s = strings.ReplaceAll(s, ")", "\\)")
	return s
}

// SampleInvoiceLines is a text-layer fixture matching the common
// description/HSN/bags layout.
func SampleInvoiceLines() []string {
	return []string{
		"TAX INVOICE",
		"M/s SHRI GANESH RICE MILL",
		"FSSAI No: 12345678901234",
		"Invoice No: INV-2024-001",
		"Date of Invoice: 15/03/2024",
		"DESCRIPTION | HSN | BAGS | WEIGHT | RATE | AMOUNT",
		"STEAM KOLAM RICE | 10063090 | 500 | 250 qtl | 4300 | 1075000",
		"GRAND TOTAL | | 500 | | | 1075000",
	}
}
