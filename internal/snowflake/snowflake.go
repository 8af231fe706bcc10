// Package snowflake models the optional hosted-platform capability as an
// injected interface: stage reads, stage uploads, and SQL execution. The
// converter core never references the platform directly, so running outside
// a Snowflake session degrades to clean capability errors.
package snowflake

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// StageClient is the remote capability needed for stage-addressed I/O and
// notebook registration.
type StageClient interface {
	// ReadFile returns the contents of a stage-addressed file.
	ReadFile(path string) (string, error)

	// PutFile uploads a local file into a stage directory.
	PutFile(localPath, stageDir string) error

	// Exec runs a SQL statement on the remote platform.
	Exec(stmt string) error
}

// ErrUnavailable is returned by Unavailable for every operation.
var ErrUnavailable = errors.New("snowflake session not available")

// Unavailable is the StageClient used when no session is configured. Every
// call fails with ErrUnavailable.
type Unavailable struct{}

func (Unavailable) ReadFile(string) (string, error) { return "", ErrUnavailable }
func (Unavailable) PutFile(string, string) error    { return ErrUnavailable }
func (Unavailable) Exec(string) error               { return ErrUnavailable }

// IsStagePath reports whether a locator addresses a stage ("@..." syntax).
func IsStagePath(path string) bool {
	return strings.HasPrefix(strings.TrimSpace(path), "@")
}

// SplitStagePath splits a stage path like "@db.schema.stage/sub/dir" into
// the stage root and the path of filename relative to that root.
func SplitStagePath(stagePath, filename string) (root, rel string) {
	sp := strings.TrimSpace(stagePath)
	if i := strings.Index(sp, "/"); i >= 0 {
		return sp[:i], strings.TrimRight(sp[i+1:], "/") + "/" + filename
	}
	return sp, filename
}

// CreateNotebookStatement builds the registration statement for an uploaded
// notebook file. The warehouse clause is included only when non-empty.
func CreateNotebookStatement(stageRoot, mainFile, warehouse string) string {
	stmt := fmt.Sprintf("CREATE NOTEBOOK FROM '%s'\n MAIN_FILE = '%s'", stageRoot, mainFile)
	if warehouse != "" {
		stmt += "\n QUERY_WAREHOUSE = " + warehouse
	}
	return stmt + ";"
}

// SQLClient adapts a database/sql connection, such as one opened with the
// Snowflake driver, to the StageClient capability. Stage reads select the
// raw lines of the staged file; uploads go through a PUT statement.
type SQLClient struct {
	DB *sql.DB
}

func (c *SQLClient) ReadFile(path string) (string, error) {
	rows, err := c.DB.Query(fmt.Sprintf("SELECT $1 FROM '%s'", strings.TrimSpace(path)))
	if err != nil {
		return "", fmt.Errorf("stage read failed: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return "", fmt.Errorf("stage read failed: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("stage read failed: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}

func (c *SQLClient) PutFile(localPath, stageDir string) error {
	stmt := fmt.Sprintf("PUT 'file://%s' '%s' OVERWRITE = TRUE AUTO_COMPRESS = FALSE", localPath, stageDir)
	if _, err := c.DB.Exec(stmt); err != nil {
		return fmt.Errorf("stage upload failed: %w", err)
	}
	return nil
}

func (c *SQLClient) Exec(stmt string) error {
	if _, err := c.DB.Exec(stmt); err != nil {
		return fmt.Errorf("statement failed: %w", err)
	}
	return nil
}
