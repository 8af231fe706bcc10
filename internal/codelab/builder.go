package codelab

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"nbconv/internal/notebook"
)

// globalSection keys code blocks that appear before any section heading.
const globalSection = "Global"

var (
	fenceRe          = regexp.MustCompile("^```(\\w+)?\\s*$")
	durationTokenRe  = regexp.MustCompile(`Duration:\s*(\d+)`)
	sectionHeadingRe = regexp.MustCompile(`^\s*##\s+`)
)

// builder is the line-oriented state machine that turns a codelab body into
// an ordered, uniquely named cell list. All state is local to one build.
type builder struct {
	baseURL string

	cells []notebook.Cell
	names nameSet

	sectionTitle    string
	haveSection     bool
	buffer          []string
	flushCount      int
	codeCounts      map[codeKey]int
	durationHandled bool

	inFence   bool
	fenceHint string
	codeLines []string
}

type codeKey struct {
	section  string
	language notebook.Language
}

func newBuilder(baseURL string) *builder {
	return &builder{
		baseURL:    baseURL,
		names:      make(nameSet),
		codeCounts: make(map[codeKey]int),
	}
}

// feed consumes one body line and advances the state machine.
func (b *builder) feed(line string) {
	if m := fenceRe.FindStringSubmatch(line); m != nil {
		if b.inFence {
			b.inFence = false
			b.emitCode()
			return
		}
		// Opening a fence turns any pending prose into its own cell first.
		b.injectDuration()
		b.flushProse()
		b.inFence = true
		b.fenceHint = m[1]
		b.codeLines = nil
		return
	}

	if b.inFence {
		// Everything inside a fence is literal, headings included.
		b.codeLines = append(b.codeLines, line)
		return
	}

	if strings.HasPrefix(line, "## ") {
		b.startSection(strings.TrimSpace(line[3:]))
		return
	}
	if strings.HasPrefix(line, "# ") {
		b.startSection(strings.TrimSpace(line[2:]))
		return
	}

	b.buffer = append(b.buffer, line)
	b.injectDuration()
}

// finish flushes whatever prose the last section still holds. An unclosed
// fence at end of document discards its partial code block.
func (b *builder) finish() {
	b.flushProse()
}

// startSection closes out the previous section and opens a new one whose
// buffer is seeded with the heading line.
func (b *builder) startSection(title string) {
	b.flushProse()
	b.sectionTitle = title
	b.haveSection = true
	b.buffer = []string{"## " + title}
	b.flushCount = 0
	b.durationHandled = false
}

// flushProse emits the buffered prose of the active section as a markdown
// cell. Prose seen before any section heading is dropped. The first flush of
// a section is named after the section title; later flushes get a
// "(cont. N)" sub-name, with the namer resolving any remaining collisions.
func (b *builder) flushProse() {
	if !b.haveSection || len(b.buffer) == 0 {
		b.buffer = nil
		return
	}
	content := strings.Trim(strings.Join(b.buffer, "\n"), "\n")
	b.buffer = nil
	if content == "" {
		return
	}
	b.flushCount++
	base := b.sectionTitle
	if b.flushCount > 1 {
		base = fmt.Sprintf("%s (cont. %d)", b.sectionTitle, b.flushCount)
	}
	name := b.names.claim(base)
	b.cells = append(b.cells, notebook.NewMarkdownCell(name, rewriteDocURLs(content, b.baseURL), false))
}

// emitCode classifies the accumulated fence content and appends a code cell
// named after the section, language, and a per-(section, language) counter.
func (b *builder) emitCode() {
	code := strings.Join(b.codeLines, "\n")
	b.codeLines = nil

	language := DetectLanguage(b.fenceHint, code)
	section := globalSection
	if b.haveSection {
		section = b.sectionTitle
	}
	key := codeKey{section: section, language: language}
	b.codeCounts[key]++

	var base string
	if language == notebook.LanguageSQL {
		base = fmt.Sprintf("%s SQL - Query %d", section, b.codeCounts[key])
	} else {
		base = fmt.Sprintf("%s Python code %d", section, b.codeCounts[key])
	}
	b.cells = append(b.cells, notebook.NewCodeCell(b.names.claim(base), language, code))
}

// injectDuration relocates the first "Duration: N" token of the section's
// buffer to a standalone line right under the heading, followed by a blank
// line. It effectively runs once per section: the handled flag is set on the
// first attempt whether or not a token was found, so occurrences appearing
// later in the section stay where they are (the normalization pass still
// canonicalizes their unit and spacing in place).
func (b *builder) injectDuration() {
	if !b.haveSection || b.durationHandled {
		return
	}

	var header string
	hasHeader := false
	found := -1
	rest := make([]string, 0, len(b.buffer))
	for i, line := range b.buffer {
		if i == 0 && sectionHeadingRe.MatchString(line) {
			header = line
			hasHeader = true
			continue
		}
		if found < 0 {
			if m := durationTokenRe.FindStringSubmatch(line); m != nil {
				found, _ = strconv.Atoi(m[1])
				if stripped := strings.TrimSpace(durationTokenRe.ReplaceAllString(line, "")); stripped != "" {
					rest = append(rest, stripped)
				}
				continue
			}
		}
		rest = append(rest, line)
	}
	b.durationHandled = true
	if found < 0 {
		return
	}

	out := make([]string, 0, len(rest)+3)
	if hasHeader {
		out = append(out, header)
	}
	out = append(out, fmt.Sprintf("Duration: %d %s", found, minuteUnit(found)), "")
	b.buffer = append(out, rest...)
}

func minuteUnit(n int) string {
	if n == 1 {
		return "minute"
	}
	return "minutes"
}
