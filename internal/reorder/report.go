package reorder

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteReport writes one line per page in the given order, in the form
// "<page>: <chapter>-<page>" followed by the provenance.
func WriteReport(w io.Writer, pages []Page) error {
	bw := bufio.NewWriter(w)
	for _, p := range pages {
		if p.IsClassified() {
			fmt.Fprintf(bw, "%s (%s)\n", p, p.Provenance())
			continue
		}
		fmt.Fprintln(bw, p)
	}
	return bw.Flush()
}

// WriteOCRLog writes the diagnostic record of OCR attempts.
func WriteOCRLog(w io.Writer, attempts []OCRAttempt) error {
	bw := bufio.NewWriter(w)
	for _, a := range attempts {
		fmt.Fprintf(bw, "Page Index: %d\n", a.Index)
		fmt.Fprintf(bw, "Raw OCR Text: %s\n", strconv.Quote(a.RawText))
		if a.Err != nil {
			fmt.Fprintf(bw, "Error: %v\n", a.Err)
		}
		fmt.Fprintf(bw, "Regex Matched: %t\n", a.Match != "")
		if a.Match != "" {
			fmt.Fprintf(bw, "Last Match: %s\n", strconv.Quote(a.Match))
		}
		if a.Matched {
			fmt.Fprintf(bw, "Accepted: %s\n", a.Label)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
