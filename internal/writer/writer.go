// Package writer persists assembled notebooks, either to a local file or to
// a stage followed by a CREATE NOTEBOOK registration.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"nbconv/internal/notebook"
	"nbconv/internal/snowflake"
)

// WriteError reports a destination that could not be written.
type WriteError struct {
	Destination string
	Err         error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write notebook to %q: %v", e.Destination, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Options tune output naming and stage registration.
type Options struct {
	// MainFileName overrides the title-derived notebook file name.
	MainFileName string

	// Warehouse is passed as QUERY_WAREHOUSE when registering a stage
	// notebook. Empty omits the clause.
	Warehouse string
}

// Writer persists notebooks. A nil Stage makes stage destinations fail with
// a WriteError.
type Writer struct {
	Stage snowflake.StageClient
}

var filenameSanitizeRe = regexp.MustCompile(`[\\:*?"<>|]`)

// SanitizeFilename makes a notebook title safe to use as a file name.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "/", "-")
	return filenameSanitizeRe.ReplaceAllString(name, "-")
}

// Write serializes doc and persists it at dest, returning the final
// location. An empty dest writes "<title>.ipynb" into the working directory;
// a "@..." dest uploads to that stage directory and registers the notebook.
// The document is fully serialized before any I/O, so a failure never leaves
// a partial notebook behind.
func (w *Writer) Write(doc *notebook.Document, title, dest string, opts Options) (string, error) {
	data, err := doc.MarshalIndented()
	if err != nil {
		return "", &WriteError{Destination: dest, Err: err}
	}

	filename := opts.MainFileName
	if filename == "" {
		filename = SanitizeFilename(title) + ".ipynb"
	}

	if snowflake.IsStagePath(dest) {
		return w.writeStage(data, filename, dest, opts)
	}

	out := dest
	if out == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", &WriteError{Destination: dest, Err: err}
		}
		out = filepath.Join(cwd, filename)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return "", &WriteError{Destination: out, Err: err}
	}
	return out, nil
}

// writeStage uploads through a scratch file, then issues the registration
// statement referencing the uploaded path.
func (w *Writer) writeStage(data []byte, filename, dest string, opts Options) (string, error) {
	stage := w.Stage
	if stage == nil {
		stage = snowflake.Unavailable{}
	}

	scratch, err := os.MkdirTemp("", "nbconv-"+uuid.NewString()[:8]+"-")
	if err != nil {
		return "", &WriteError{Destination: dest, Err: err}
	}
	defer os.RemoveAll(scratch)

	local := filepath.Join(scratch, filename)
	if err := os.WriteFile(local, data, 0644); err != nil {
		return "", &WriteError{Destination: dest, Err: err}
	}

	stageDir := strings.TrimRight(dest, "/") + "/"
	if err := stage.PutFile(local, stageDir); err != nil {
		return "", &WriteError{Destination: dest, Err: err}
	}

	root, rel := snowflake.SplitStagePath(dest, filename)
	if err := stage.Exec(snowflake.CreateNotebookStatement(root, rel, opts.Warehouse)); err != nil {
		return "", &WriteError{Destination: dest, Err: err}
	}
	return stageDir + filename, nil
}
