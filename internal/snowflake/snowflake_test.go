package snowflake

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStagePath(t *testing.T) {
	assert.True(t, IsStagePath("@db.schema.stage"))
	assert.True(t, IsStagePath("  @db.schema.stage/dir "))
	assert.False(t, IsStagePath("https://example.com"))
	assert.False(t, IsStagePath("local/file.md"))
	assert.False(t, IsStagePath(""))
}

func TestSplitStagePath(t *testing.T) {
	root, rel := SplitStagePath("@db.schema.stage", "lab.ipynb")
	assert.Equal(t, "@db.schema.stage", root)
	assert.Equal(t, "lab.ipynb", rel)

	root, rel = SplitStagePath("@db.schema.stage/sub/dir", "lab.ipynb")
	assert.Equal(t, "@db.schema.stage", root)
	assert.Equal(t, "sub/dir/lab.ipynb", rel)

	root, rel = SplitStagePath("@stg/sub/", "lab.ipynb")
	assert.Equal(t, "@stg", root)
	assert.Equal(t, "sub/lab.ipynb", rel)
}

func TestCreateNotebookStatement(t *testing.T) {
	assert.Equal(t,
		"CREATE NOTEBOOK FROM '@stg'\n MAIN_FILE = 'lab.ipynb';",
		CreateNotebookStatement("@stg", "lab.ipynb", ""))

	assert.Equal(t,
		"CREATE NOTEBOOK FROM '@stg'\n MAIN_FILE = 'sub/lab.ipynb'\n QUERY_WAREHOUSE = COMPUTE_WH;",
		CreateNotebookStatement("@stg", "sub/lab.ipynb", "COMPUTE_WH"))
}

func TestUnavailable(t *testing.T) {
	var client StageClient = Unavailable{}

	_, err := client.ReadFile("@stg/lab.md")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, client.PutFile("x", "@stg/"), ErrUnavailable)
	assert.ErrorIs(t, client.Exec("SELECT 1"), ErrUnavailable)
}

// A minimal database/sql driver that records statements and serves canned
// rows, standing in for the real Snowflake driver.
var (
	recordedStmts []string
	queuedRows    [][]string
)

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) { return fakeConn{}, nil }

type fakeConn struct{}

func (fakeConn) Prepare(query string) (driver.Stmt, error) { return &fakeStmt{query: query}, nil }
func (fakeConn) Close() error                              { return nil }
func (fakeConn) Begin() (driver.Tx, error)                 { return nil, errors.New("transactions not supported") }

type fakeStmt struct{ query string }

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return 0 }

func (s *fakeStmt) Exec([]driver.Value) (driver.Result, error) {
	recordedStmts = append(recordedStmts, s.query)
	return driver.RowsAffected(0), nil
}

func (s *fakeStmt) Query([]driver.Value) (driver.Rows, error) {
	recordedStmts = append(recordedStmts, s.query)
	var lines []string
	if len(queuedRows) > 0 {
		lines = queuedRows[0]
		queuedRows = queuedRows[1:]
	}
	return &fakeRows{lines: lines}, nil
}

type fakeRows struct {
	lines []string
	pos   int
}

func (r *fakeRows) Columns() []string { return []string{"$1"} }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.lines) {
		return io.EOF
	}
	dest[0] = r.lines[r.pos]
	r.pos++
	return nil
}

func init() {
	sql.Register("fakesnow", fakeDriver{})
}

func TestSQLClient(t *testing.T) {
	db, err := sql.Open("fakesnow", "account/db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	client := &SQLClient{DB: db}

	t.Run("ReadFile selects the staged lines", func(t *testing.T) {
		recordedStmts = nil
		queuedRows = [][]string{{"# Title", "body line"}}

		text, err := client.ReadFile(" @stg/lab.md ")
		require.NoError(t, err)
		assert.Equal(t, "# Title\nbody line", text)
		require.Len(t, recordedStmts, 1)
		assert.Equal(t, "SELECT $1 FROM '@stg/lab.md'", recordedStmts[0])
	})

	t.Run("PutFile issues a PUT statement", func(t *testing.T) {
		recordedStmts = nil

		require.NoError(t, client.PutFile("/tmp/lab.ipynb", "@stg/sub/"))
		require.Len(t, recordedStmts, 1)
		assert.Equal(t, "PUT 'file:///tmp/lab.ipynb' '@stg/sub/' OVERWRITE = TRUE AUTO_COMPRESS = FALSE", recordedStmts[0])
	})

	t.Run("Exec passes the statement through", func(t *testing.T) {
		recordedStmts = nil

		require.NoError(t, client.Exec("CREATE NOTEBOOK FROM '@stg'\n MAIN_FILE = 'lab.ipynb';"))
		require.Len(t, recordedStmts, 1)
		assert.Contains(t, recordedStmts[0], "CREATE NOTEBOOK")
	})
}
