package actions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/acalanetwork/relver/pkg/domain/interfaces"
	"github.com/acalanetwork/relver/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

var _ interfaces.EntryWriter = (*FileWriter)(nil)

// FileWriter appends key=value lines to a workflow command file such as
// $GITHUB_OUTPUT or $GITHUB_ENV
type FileWriter struct {
	path string
}

// NewFileWriter creates a FileWriter for path
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

// Write validates all entries first and then appends them in a single write,
// so an invalid entry leaves the file untouched
func (w *FileWriter) Write(entries ...model.Entry) error {
	if w.path == "" {
		return goerr.Wrap(model.ErrMissingArgument, "workflow command file path is empty")
	}

	if err := ValidateEntries(entries...); err != nil {
		return err
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s=%s\n", e.Key, e.Value)
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return goerr.Wrap(err, "failed to open workflow command file", goerr.V("path", w.path))
	}

	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return goerr.Wrap(err, "failed to write workflow command file", goerr.V("path", w.path))
	}

	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close workflow command file", goerr.V("path", w.path))
	}

	return nil
}

// ValidateEntries checks that every entry can be written as a single key=value line
func ValidateEntries(entries ...model.Entry) error {
	for _, e := range entries {
		if err := validateEntry(e); err != nil {
			return err
		}
	}
	return nil
}

func validateEntry(e model.Entry) error {
	if e.Key == "" || strings.ContainsAny(e.Key, "=\r\n") {
		return goerr.New("invalid workflow command key", goerr.V("key", e.Key))
	}
	if strings.ContainsAny(e.Value, "\r\n") {
		return goerr.New("multi-line value is not supported", goerr.V("key", e.Key))
	}
	return nil
}

// Warning prints msg as a workflow warning annotation
func Warning(w io.Writer, msg string) error {
	if _, err := fmt.Fprintf(w, "::warning::%s\n", escapeData(msg)); err != nil {
		return goerr.Wrap(err, "failed to write warning annotation")
	}
	return nil
}

var dataEscaper = strings.NewReplacer(
	"%", "%25",
	"\r", "%0D",
	"\n", "%0A",
)

func escapeData(s string) string {
	return dataEscaper.Replace(s)
}
