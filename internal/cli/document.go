package cli

import (
	"errors"
	"io"
	"io/fs"
	"os"

	bserrors "github.com/matzehuels/baseline/pkg/errors"
	"github.com/matzehuels/baseline/pkg/feature"
)

// stdinPath reads the document from standard input.
const stdinPath = "-"

// document is one source file to scan.
type document struct {
	Path     string
	Source   string
	Language feature.Language
}

// resolveLanguage picks the language from the --language flag, falling back
// to the file extension.
func resolveLanguage(path, flag string) (feature.Language, error) {
	if flag != "" {
		if err := bserrors.ValidateLanguage(flag); err != nil {
			return "", err
		}
		return feature.ParseLanguage(flag), nil
	}
	if path == stdinPath {
		return "", bserrors.New(bserrors.ErrCodeInvalidLanguage, "--language is required when reading from stdin")
	}
	return feature.LanguageForPath(path), nil
}

// readDocument loads path ("-" for stdin) and resolves its language.
func readDocument(path, langFlag string, stdin io.Reader) (document, error) {
	if err := bserrors.ValidatePath(path); err != nil {
		return document{}, err
	}
	lang, err := resolveLanguage(path, langFlag)
	if err != nil {
		return document{}, err
	}

	var data []byte
	if path == stdinPath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return document{}, bserrors.Wrap(bserrors.ErrCodeFileNotFound, err, "%s", path)
		}
		return document{}, err
	}
	return document{Path: path, Source: string(data), Language: lang}, nil
}
