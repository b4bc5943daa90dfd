// Package document implements the region classifier and transformer for the
// catalog README.
//
// The document is processed line by line. A small state machine tracks the
// two context-sensitive modes (inside a fenced code block, inside the
// table-of-contents table); every other line is classified independently by
// pattern match. Classification is total: any line no rule recognizes is
// passed through verbatim, so the output is always a complete document even
// when the input contains constructs the transformer was never written for.
//
// Rule order matters and is fixed: the code fence toggle consumes its line
// before anything else, catalog entries take precedence over the heading
// dictionary, heading lookup precedes the paragraph patterns, and the
// table-row rule only applies while table-of-contents mode is active.
package document

import (
	"regexp"
	"strings"

	"github.com/openclaw-community/readmeloc/rules"
)

// ---------------------------------------------------------------------------
// Region model
// ---------------------------------------------------------------------------

// Kind is the classification assigned to a line.
type Kind int

const (
	// Passthrough is the default: reproduce the line exactly.
	Passthrough Kind = iota
	// Fence is a code fence delimiter line.
	Fence
	// CodeLine is any line inside a fenced code block.
	CodeLine
	// Switcher is an existing locale-switcher line (dropped on output).
	Switcher
	// CatalogEntry is a "- [name](link) - description" line.
	CatalogEntry
	// Heading is a line present in the heading dictionary.
	Heading
	// TOCRow is a table row inside the table-of-contents table.
	TOCRow
	// CategorySummary is a category <summary> header line.
	CategorySummary
	// FixedParagraph is a line matched by the ordered paragraph patterns.
	FixedParagraph
)

// Region is a classified line.
type Region struct {
	Kind Kind
	Line string
}

// ---------------------------------------------------------------------------
// Line patterns
// ---------------------------------------------------------------------------

// tocHeading is the heading that opens table-of-contents mode.
const tocHeading = "## Table of Contents"

var (
	// entryPattern splits a catalog entry into its fixed display part
	// (name + link) and the free-text description.
	entryPattern = regexp.MustCompile(`^(- \[.+?\]\(.+?\)) - (.+)$`)

	// summaryPattern matches a category summary header.
	summaryPattern = regexp.MustCompile(`^(<summary><h3 style="display:inline">)(.+?)(</h3></summary>)$`)

	// tocCellPattern matches a "[name](#anchor) (count)" cell.
	tocCellPattern = regexp.MustCompile(`^\[(.+?)\]\((#.+?)\)\s*\((\d+)\)`)
)

// ---------------------------------------------------------------------------
// Classifier (explicit state machine)
// ---------------------------------------------------------------------------

type state int

const (
	// stateText is the default mode.
	stateText state = iota
	// stateCode: inside a fenced code block; everything is passthrough.
	stateCode
	// stateTOC: inside the table-of-contents table.
	stateTOC
)

// Classifier assigns a Region kind to each line of the document in order.
// It is stateful and must see every line exactly once, top to bottom.
type Classifier struct {
	rules    *rules.Set
	switcher string

	st state
	// resume is the state to restore when the current code block closes,
	// so a fenced block inside the table of contents does not end TOC mode.
	resume state
}

// NewClassifier returns a classifier in the initial state.
func NewClassifier(rs *rules.Set, switcher string) *Classifier {
	return &Classifier{rules: rs, switcher: switcher, st: stateText}
}

// Next classifies one line and advances the state machine.
func (c *Classifier) Next(line string) Region {
	// Code blocks override every other rule.
	if c.st == stateCode {
		if strings.HasPrefix(line, "```") {
			c.st = c.resume
			return Region{Fence, line}
		}
		return Region{CodeLine, line}
	}
	if strings.HasPrefix(line, "```") {
		c.resume = c.st
		c.st = stateCode
		return Region{Fence, line}
	}

	// An already-present switcher line is dropped so regeneration stays
	// idempotent after `readmeloc patch`.
	if line == c.switcher {
		return Region{Switcher, line}
	}

	if entryPattern.MatchString(line) {
		return Region{CatalogEntry, line}
	}

	if _, ok := c.rules.Heading(line); ok {
		switch {
		case line == tocHeading:
			c.st = stateTOC
		case strings.HasPrefix(line, "## "):
			c.st = stateText
		}
		return Region{Heading, line}
	}

	if c.st == stateTOC {
		if strings.HasPrefix(line, "|") {
			return Region{TOCRow, line}
		}
		// Exit condition: the first non-empty line that is neither a table
		// row nor an embedded block tag ends table-of-contents mode.
		if line != "" && !strings.HasPrefix(line, "<") {
			c.st = stateText
		}
	}

	if summaryPattern.MatchString(line) {
		return Region{CategorySummary, line}
	}

	if _, ok := c.rules.ExpandParagraph(line); ok {
		return Region{FixedParagraph, line}
	}

	return Region{Passthrough, line}
}

// ---------------------------------------------------------------------------
// Transformer
// ---------------------------------------------------------------------------

// Transformer rewrites classified lines. It is total: every Region kind has
// a rule and the fallback is verbatim reproduction.
type Transformer struct {
	rules *rules.Set
	descs map[string]string
}

// NewTransformer returns a transformer using the given dictionaries and the
// description translation mapping (may be empty when description translation
// is disabled).
func NewTransformer(rs *rules.Set, descs map[string]string) *Transformer {
	if descs == nil {
		descs = map[string]string{}
	}
	return &Transformer{rules: rs, descs: descs}
}

// Apply rewrites one region. The second return value is false when the line
// must be dropped from the output entirely.
func (t *Transformer) Apply(r Region) (string, bool) {
	switch r.Kind {
	case Switcher:
		return "", false

	case CatalogEntry:
		m := entryPattern.FindStringSubmatch(r.Line)
		if m == nil {
			return r.Line, true
		}
		if zh, ok := t.descs[m[2]]; ok {
			return m[1] + " - " + zh, true
		}
		return r.Line, true

	case Heading:
		if zh, ok := t.rules.Heading(r.Line); ok {
			return zh, true
		}
		return r.Line, true

	case TOCRow:
		return t.tocRow(r.Line), true

	case CategorySummary:
		return t.summary(r.Line), true

	case FixedParagraph:
		if out, ok := t.rules.ExpandParagraph(r.Line); ok {
			return out, true
		}
		return r.Line, true

	default: // Passthrough, Fence, CodeLine
		return r.Line, true
	}
}

// tocRow translates the category names inside a table-of-contents row.
// Separator rows and cells that do not look like "[name](#anchor) (count)"
// pass through unchanged.
func (t *Transformer) tocRow(line string) string {
	if !strings.HasPrefix(line, "|") || strings.Contains(line, "---") {
		return line
	}
	cells := strings.Split(line, "|")
	for i, cell := range cells {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		cells[i] = t.tocCell(cell)
	}
	return strings.Join(cells, "|")
}

// tocCell rebuilds one cell, translating only the name. Anchor and count are
// reproduced byte-for-byte.
func (t *Transformer) tocCell(cell string) string {
	m := tocCellPattern.FindStringSubmatch(strings.TrimSpace(cell))
	if m == nil {
		return cell
	}
	name, anchor, count := m[1], m[2], m[3]
	return "[" + t.rules.Category(name) + "](" + anchor + ") (" + count + ")"
}

// summary rewrites a category summary header, translating the name and
// adding an anchor id derived from the original (untranslated) name so that
// table-of-contents links keep working.
func (t *Transformer) summary(line string) string {
	m := summaryPattern.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	name := m[2]
	return `<summary><h3 style="display:inline" id="` + Anchor(name) + `">` +
		t.rules.Category(name) + `</h3></summary>`
}

// Anchor derives the heading anchor identifier from a category name:
// lowercased, " & " becomes "--", remaining spaces become "-".
func Anchor(name string) string {
	a := strings.ToLower(name)
	a = strings.ReplaceAll(a, " & ", "--")
	return strings.ReplaceAll(a, " ", "-")
}

// ---------------------------------------------------------------------------
// Whole-document operations
// ---------------------------------------------------------------------------

// Translate classifies and transforms every line of the document, in order.
// descs maps source descriptions to translations; entries without a mapping
// keep their original description.
func Translate(lines []string, rs *rules.Set, switcher string, descs map[string]string) []string {
	cl := NewClassifier(rs, switcher)
	tr := NewTransformer(rs, descs)

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if s, ok := tr.Apply(cl.Next(line)); ok {
			out = append(out, s)
		}
	}
	return out
}

// CollectDescriptions returns the distinct catalog-entry descriptions in
// first-seen order. Uniqueness is by exact string equality.
func CollectDescriptions(lines []string) []string {
	var descs []string
	seen := make(map[string]bool)
	for _, line := range lines {
		m := entryPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if !seen[m[2]] {
			descs = append(descs, m[2])
			seen[m[2]] = true
		}
	}
	return descs
}

// Stats summarizes a document for status reporting.
type Stats struct {
	// Entries is the number of catalog entry lines.
	Entries int
	// Descriptions is the number of distinct descriptions.
	Descriptions int
	// Categories is the number of category summary headers.
	Categories int
}

// Scan computes document statistics in one pass.
func Scan(lines []string) Stats {
	var st Stats
	seen := make(map[string]bool)
	for _, line := range lines {
		if m := entryPattern.FindStringSubmatch(line); m != nil {
			st.Entries++
			if !seen[m[2]] {
				seen[m[2]] = true
				st.Descriptions++
			}
			continue
		}
		if summaryPattern.MatchString(line) {
			st.Categories++
		}
	}
	return st
}
