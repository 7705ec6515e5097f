package reader

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFile_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("You must decide today."), 0644); err != nil {
		t.Fatal(err)
	}

	text, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if text != "You must decide today." {
		t.Errorf("text = %q", text)
	}
}

func TestReadFile_RejectsInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.txt")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 'h', 'i'}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err == nil {
		t.Fatal("expected an error for invalid UTF-8")
	}
}

func TestReadFile_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestReadFile_Missing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestHTML_VisibleTextOnly(t *testing.T) {
	const page = `<html><head><title>t</title><style>p{color:red}</style></head>
<body><p>Act now or lose everything.</p><script>alert(1)</script>
<div>Nobody else will help you.</div></body></html>`

	text, err := HTML(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.Contains(text, "alert") || strings.Contains(text, "color:red") {
		t.Errorf("script/style leaked into text: %q", text)
	}
	if !strings.Contains(text, "Act now or lose everything.") {
		t.Errorf("paragraph text missing: %q", text)
	}

	// Block elements separate paragraphs, keeping sentences apart.
	lines := strings.Split(text, "\n")
	var nonEmpty int
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty++
		}
	}
	if nonEmpty < 2 {
		t.Errorf("expected separate lines per block, got %q", text)
	}
}

func TestRTF_StripsControlWords(t *testing.T) {
	const src = `{\rtf1\ansi{\fonttbl{\f0 Arial;}}\f0\fs24 Everyone knows you\'27re wrong.\par Act now.}`

	text := RTF(src)
	if !strings.Contains(text, "Everyone knows you're wrong.") {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(text, "Act now.") {
		t.Errorf("paragraph after \\par missing: %q", text)
	}
	if strings.Contains(text, "Arial") || strings.Contains(text, "fs24") {
		t.Errorf("control content leaked: %q", text)
	}
}

func TestRTF_UnicodeEscape(t *testing.T) {
	// \u233? is é with '?' as the fallback to skip.
	text := RTF(`{\rtf1 caf\u233?!}`)
	if text != "café!" {
		t.Errorf("text = %q", text)
	}
}

func TestDOCX_Paragraphs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.docx")
	writeDocx(t, path, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>You always do this.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Fix it </w:t></w:r><w:r><w:t>right now.</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	text, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "You always do this.\n\nFix it right now."
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestDOCX_MissingDocumentPart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	if _, err := zw.Create("word/styles.xml"); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := ReadFile(path); err == nil {
		t.Fatal("expected an error for a docx without document.xml")
	}
}

func writeDocx(t *testing.T, path, documentXML string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}
