package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nbconv/internal/notebook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStage struct {
	puts  []string
	execs []string
}

func (s *recordingStage) ReadFile(string) (string, error) { return "", nil }

func (s *recordingStage) PutFile(localPath, stageDir string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	s.puts = append(s.puts, stageDir+filepath.Base(localPath)+"|"+string(data[:1]))
	return nil
}

func (s *recordingStage) Exec(stmt string) error {
	s.execs = append(s.execs, stmt)
	return nil
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func testDocument() *notebook.Document {
	return &notebook.Document{
		Metadata:      notebook.Metadata{Kernelspec: notebook.Kernelspec{DisplayName: "Streamlit Notebook", Name: "streamlit"}},
		NBFormatMinor: 5,
		NBFormat:      4,
		Cells:         []notebook.Cell{notebook.NewMarkdownCell("Notebook Header", "hi", true)},
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Lab", "My Lab"},
		{"  padded  ", "padded"},
		{"My/Lab: Test?", "My-Lab- Test-"},
		{`a\b*c"d<e>f|g`, "a-b-c-d-e-f-g"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestWrite_LocalPath(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.ipynb")
	w := &Writer{}

	loc, err := w.Write(testDocument(), "My Lab", dest, Options{})
	require.NoError(t, err)
	assert.Equal(t, dest, loc)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"nbformat\": 4")
}

func TestWrite_EmptyDestUsesTitleInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	w := &Writer{}

	loc, err := w.Write(testDocument(), "My/Lab", "", Options{})
	require.NoError(t, err)
	assert.Equal(t, "My-Lab.ipynb", filepath.Base(loc))
	assert.FileExists(t, filepath.Join(dir, "My-Lab.ipynb"))
}

func TestWrite_MainFileNameOverride(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	w := &Writer{}

	loc, err := w.Write(testDocument(), "Whatever Title", "", Options{MainFileName: "custom.ipynb"})
	require.NoError(t, err)
	assert.Equal(t, "custom.ipynb", filepath.Base(loc))
}

func TestWrite_Stage(t *testing.T) {
	stage := &recordingStage{}
	w := &Writer{Stage: stage}

	loc, err := w.Write(testDocument(), "My Lab", "@db.schema.stage/labs", Options{Warehouse: "COMPUTE_WH"})
	require.NoError(t, err)
	assert.Equal(t, "@db.schema.stage/labs/My Lab.ipynb", loc)

	require.Len(t, stage.puts, 1)
	assert.True(t, strings.HasPrefix(stage.puts[0], "@db.schema.stage/labs/My Lab.ipynb|"))

	require.Len(t, stage.execs, 1)
	assert.Equal(t,
		"CREATE NOTEBOOK FROM '@db.schema.stage'\n MAIN_FILE = 'labs/My Lab.ipynb'\n QUERY_WAREHOUSE = COMPUTE_WH;",
		stage.execs[0])
}

func TestWrite_StageWithoutClientFails(t *testing.T) {
	w := &Writer{}
	_, err := w.Write(testDocument(), "My Lab", "@stg/labs", Options{})
	require.Error(t, err)

	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "@stg/labs", writeErr.Destination)
}
