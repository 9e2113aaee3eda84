package reorder

import (
	"fmt"
	"strconv"
)

// SupplementLiteral is the chapter designation used for supplement pages.
const SupplementLiteral = "S"

// Provenance records how a page's current classification was obtained.
type Provenance int

const (
	ProvenanceNone Provenance = iota
	ProvenanceText
	ProvenanceOCR
	ProvenanceManual
)

func (p Provenance) String() string {
	switch p {
	case ProvenanceText:
		return "text"
	case ProvenanceOCR:
		return "ocr"
	case ProvenanceManual:
		return "manual"
	default:
		return "none"
	}
}

// Chapter is either a numbered chapter or the supplement marker.
type Chapter struct {
	number     int
	supplement bool
}

// Numbered returns a numeric chapter.
func Numbered(n int) Chapter { return Chapter{number: n} }

// Supplement is the chapter that ranks after every numbered chapter.
var Supplement = Chapter{supplement: true}

func (c Chapter) IsSupplement() bool { return c.supplement }

// Number returns the chapter number; it is meaningless for Supplement.
func (c Chapter) Number() int { return c.number }

func (c Chapter) String() string {
	if c.supplement {
		return SupplementLiteral
	}
	return strconv.Itoa(c.number)
}

// compare orders numbered chapters by value and puts Supplement last.
func (c Chapter) compare(o Chapter) int {
	switch {
	case c.supplement && o.supplement:
		return 0
	case c.supplement:
		return 1
	case o.supplement:
		return -1
	}
	return cmpInt(c.number, o.number)
}

// Label is a printed (chapter, page-in-chapter) pair.
type Label struct {
	Chapter Chapter
	Page    int
}

func (l Label) String() string { return fmt.Sprintf("%s-%d", l.Chapter, l.Page) }

// Page is one physical page of the source document. A page is either
// classified, carrying a Label and its Provenance, or unclassified.
type Page struct {
	index      int
	label      Label
	classified bool
	provenance Provenance
}

// Unclassified returns the page at the 0-based original index with no label.
func Unclassified(index int) Page { return Page{index: index} }

// Classified returns the page at the 0-based original index carrying label.
func Classified(index int, label Label, prov Provenance) Page {
	return Page{index: index, label: label, classified: true, provenance: prov}
}

// Index is the 0-based position of the page in the source document.
func (p Page) Index() int { return p.index }

// Number is the 1-based physical page number.
func (p Page) Number() int { return p.index + 1 }

func (p Page) IsClassified() bool { return p.classified }

// Label returns the page label and whether the page is classified.
func (p Page) Label() (Label, bool) { return p.label, p.classified }

func (p Page) Provenance() Provenance { return p.provenance }

func (p Page) String() string {
	if !p.classified {
		return fmt.Sprintf("%d: No page number parsed", p.Number())
	}
	return fmt.Sprintf("%d: %s", p.Number(), p.label)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
