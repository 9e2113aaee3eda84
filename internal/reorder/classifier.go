package reorder

import (
	"regexp"
	"strconv"

	"github.com/rs/zerolog/log"
)

var (
	// TextLabelPattern matches labels such as "12 - 4" or "S-3" in a text layer.
	// "$" is accepted as a common extraction artifact of the supplement "S".
	TextLabelPattern = regexp.MustCompile(`(\d+|S|\$)\W*-\W*(\d+)\W*`)

	// OCRLabelPattern is the stricter variant used on recognized text.
	OCRLabelPattern = regexp.MustCompile(`(\d+|S)\W*-\W*(\d+)\W*`)
)

// TextSource gives access to the extracted text of each page.
type TextSource interface {
	NumPage() int
	Text(index int) (string, error)
}

// MatchLabel returns the last label found in text. Labels printed near the
// end of a page (footers) win over numerals earlier in the body.
func MatchLabel(pattern *regexp.Regexp, text string) (Label, string, bool) {
	if text == "" {
		return Label{}, "", false
	}
	matches := pattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return Label{}, "", false
	}
	last := matches[len(matches)-1]
	page, err := strconv.Atoi(last[2])
	if err != nil {
		return Label{}, last[0], false
	}
	var chapter Chapter
	switch last[1] {
	case SupplementLiteral, "$":
		chapter = Supplement
	default:
		n, err := strconv.Atoi(last[1])
		if err != nil {
			return Label{}, last[0], false
		}
		chapter = Numbered(n)
	}
	return Label{Chapter: chapter, Page: page}, last[0], true
}

// Classifier derives page labels from extracted text.
type Classifier struct {
	pattern *regexp.Regexp
}

// NewClassifier returns a classifier using TextLabelPattern.
func NewClassifier() *Classifier {
	return &Classifier{pattern: TextLabelPattern}
}

// Classify labels a single page. Missing text or no match yields an
// unclassified page; neither is an error.
func (c *Classifier) Classify(index int, text string) Page {
	label, _, ok := MatchLabel(c.pattern, text)
	if !ok {
		return Unclassified(index)
	}
	return Classified(index, label, ProvenanceText)
}

// ClassifyAll labels every page of src, one entry per physical page in
// original order. Pages whose text cannot be read stay unclassified.
func (c *Classifier) ClassifyAll(src TextSource) []Page {
	n := src.NumPage()
	pages := make([]Page, n)
	for i := 0; i < n; i++ {
		text, err := src.Text(i)
		if err != nil {
			log.Warn().Err(err).Int("page", i+1).Msg("text extraction failed; page left unclassified")
			pages[i] = Unclassified(i)
			continue
		}
		pages[i] = c.Classify(i, text)
	}
	return pages
}
