package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	bserrors "github.com/matzehuels/baseline/pkg/errors"
	"github.com/matzehuels/baseline/pkg/feature"
)

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		path, flag string
		want       feature.Language
		wantErr    bool
	}{
		{"styles.css", "", feature.LanguageCSS, false},
		{"app.mjs", "", feature.LanguageJavaScript, false},
		{"app.tsx", "", feature.LanguageTypeScript, false},
		{"README.md", "", feature.LanguageOther, false},
		{"notes.txt", "css", feature.LanguageCSS, false},
		{"app.js", "TypeScript", feature.LanguageTypeScript, false},
		{"-", "javascriptreact", feature.LanguageJavaScript, false},
		{"-", "", "", true},
		{"app.js", "java\tscript", "", true},
	}
	for _, tt := range tests {
		got, err := resolveLanguage(tt.path, tt.flag)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveLanguage(%q, %q) error = %v, wantErr %v", tt.path, tt.flag, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveLanguage(%q, %q) = %q, want %q", tt.path, tt.flag, got, tt.want)
		}
	}
}

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.js")
	if err := os.WriteFile(path, []byte("x ?? y"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := readDocument(path, "", nil)
	if err != nil {
		t.Fatalf("readDocument() error: %v", err)
	}
	if doc.Source != "x ?? y" || doc.Language != feature.LanguageJavaScript {
		t.Errorf("readDocument() = %+v", doc)
	}

	doc, err = readDocument("-", "css", strings.NewReader("a { gap: 1px }"))
	if err != nil {
		t.Fatalf("readDocument(stdin) error: %v", err)
	}
	if doc.Source != "a { gap: 1px }" || doc.Language != feature.LanguageCSS {
		t.Errorf("readDocument(stdin) = %+v", doc)
	}

	_, err = readDocument(filepath.Join(dir, "nope.js"), "", nil)
	if !bserrors.Is(err, bserrors.ErrCodeFileNotFound) {
		t.Errorf("readDocument(missing) error = %v, want FILE_NOT_FOUND", err)
	}

	_, err = readDocument("", "", nil)
	if !bserrors.Is(err, bserrors.ErrCodeInvalidPath) {
		t.Errorf("readDocument(\"\") error = %v, want INVALID_PATH", err)
	}
}
