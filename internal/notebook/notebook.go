package notebook

import "encoding/json"

// Language identifies the execution language of a code cell.
type Language string

const (
	LanguageSQL    Language = "sql"
	LanguagePython Language = "python"
)

// CellType discriminates the two cell variants.
type CellType string

const (
	CellMarkdown CellType = "markdown"
	CellCode     CellType = "code"
)

// Cell is one unit of notebook content, either prose or executable code.
// Name is unique within a document. Collapsed is meaningful for markdown
// cells only, Language for code cells only.
type Cell struct {
	Type      CellType
	Name      string
	Collapsed bool
	Language  Language
	Source    string
}

// NewMarkdownCell creates a prose cell.
func NewMarkdownCell(name, text string, collapsed bool) Cell {
	return Cell{Type: CellMarkdown, Name: name, Collapsed: collapsed, Source: text}
}

// NewCodeCell creates an executable cell.
func NewCodeCell(name string, language Language, code string) Cell {
	return Cell{Type: CellCode, Name: name, Language: language, Source: code}
}

type markdownMeta struct {
	Name      string `json:"name"`
	Collapsed bool   `json:"collapsed"`
}

type codeMeta struct {
	Language Language `json:"language"`
	Name     string   `json:"name"`
}

// MarshalJSON emits the notebook wire form of the cell: code cells carry a
// null execution_count and an empty outputs list.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Type == CellCode {
		return json.Marshal(struct {
			CellType       CellType          `json:"cell_type"`
			Metadata       codeMeta          `json:"metadata"`
			Source         string            `json:"source"`
			ExecutionCount *int              `json:"execution_count"`
			Outputs        []json.RawMessage `json:"outputs"`
		}{c.Type, codeMeta{c.Language, c.Name}, c.Source, nil, []json.RawMessage{}})
	}
	return json.Marshal(struct {
		CellType CellType     `json:"cell_type"`
		Metadata markdownMeta `json:"metadata"`
		Source   string       `json:"source"`
	}{c.Type, markdownMeta{c.Name, c.Collapsed}, c.Source})
}

// Kernelspec identifies the notebook runtime.
type Kernelspec struct {
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
}

// Metadata is the fixed top-level notebook metadata.
type Metadata struct {
	Kernelspec Kernelspec `json:"kernelspec"`
}

// Document is a complete notebook: fixed metadata plus an ordered cell list.
type Document struct {
	Metadata      Metadata `json:"metadata"`
	NBFormatMinor int      `json:"nbformat_minor"`
	NBFormat      int      `json:"nbformat"`
	Cells         []Cell   `json:"cells"`
}

// MarshalIndented serializes the document the way notebook files are stored
// on disk, indented by one space per level.
func (d *Document) MarshalIndented() ([]byte, error) {
	return json.MarshalIndent(d, "", " ")
}
