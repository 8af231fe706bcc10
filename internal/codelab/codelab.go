// Package codelab converts semi-structured codelab markdown into a notebook
// document: an ordered sequence of uniquely named markdown and code cells.
// Parsing is total over arbitrary input; malformed documents degrade
// gracefully instead of failing.
package codelab

import (
	"regexp"
	"strings"

	"nbconv/internal/notebook"
)

// Options tune document assembly. The zero value uses the sfquickstarts
// raw-content root and the Streamlit kernel.
type Options struct {
	BaseURLRoot string
	Kernel      notebook.Kernelspec
}

func (o Options) withDefaults() Options {
	if o.BaseURLRoot == "" {
		o.BaseURLRoot = defaultBaseURLRoot
	}
	if o.Kernel.Name == "" {
		o.Kernel = notebook.Kernelspec{DisplayName: "Streamlit Notebook", Name: "streamlit"}
	}
	return o
}

// SplitHeaderAndBody separates the free-text metadata block preceding the
// first top-level heading from the rest of the document. The body keeps the
// heading line; the header is trimmed.
func SplitHeaderAndBody(md string) (header, body string) {
	lines := strings.Split(md, "\n")
	i := 0
	for i < len(lines) && !strings.HasPrefix(lines[i], "# ") {
		i++
	}
	return strings.TrimSpace(strings.Join(lines[:i], "\n")), strings.Join(lines[i:], "\n")
}

var headerIDRe = regexp.MustCompile(`^\s*id\s*:\s*(.+?)\s*$`)

// ParseHeaderID extracts the value of an "id:" line from the header block,
// or "" when none is present.
func ParseHeaderID(header string) string {
	for _, line := range strings.Split(header, "\n") {
		if m := headerIDRe.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// Build converts raw codelab markdown into a notebook document and its
// title. The title comes from the first top-level heading ("Untitled" when
// absent); a collapsed header cell always precedes the section cells.
func Build(raw string, opts Options) (string, *notebook.Document) {
	opts = opts.withDefaults()
	header, body := SplitHeaderAndBody(raw)
	baseURL := BaseURL(opts.BaseURLRoot, ParseHeaderID(header))

	lines := strings.Split(body, "\n")
	title := "Untitled"
	start := 0
	if len(lines) > 0 && strings.HasPrefix(lines[0], "# ") {
		title = strings.TrimSpace(lines[0][2:])
		start = 1
	}

	b := newBuilder(baseURL)
	b.cells = append(b.cells, notebook.NewMarkdownCell(
		b.names.claim("Notebook Header"),
		rewriteDocURLs(header, baseURL),
		true,
	))
	for _, line := range lines[start:] {
		b.feed(line)
	}
	b.finish()

	cells := b.cells
	for i := range cells {
		if cells[i].Type == notebook.CellMarkdown {
			cells[i].Source = NormalizeDurations(cells[i].Source)
		}
	}

	return title, &notebook.Document{
		Metadata:      notebook.Metadata{Kernelspec: opts.Kernel},
		NBFormatMinor: 5,
		NBFormat:      4,
		Cells:         cells,
	}
}
