package reorder

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Overrides maps a 1-based physical page number to the label it must carry.
type Overrides map[int]Label

// ApplyOverrides returns a copy of pages where every page named in
// overrides is reclassified with ProvenanceManual, whatever its current
// state. Pages are looked up by original index, never by slice position.
// All entries are validated before any page is touched.
func ApplyOverrides(pages []Page, overrides Overrides) ([]Page, error) {
	slotByIndex := make(map[int]int, len(pages))
	for slot, p := range pages {
		slotByIndex[p.Index()] = slot
	}

	numbers := make([]int, 0, len(overrides))
	for num, label := range overrides {
		key := strconv.Itoa(num)
		if _, ok := slotByIndex[num-1]; !ok {
			return nil, &InputError{Source: "overrides", Key: key,
				Reason: fmt.Sprintf("page out of range [1, %d]", len(pages))}
		}
		if !label.Chapter.IsSupplement() && label.Chapter.Number() < 0 {
			return nil, &InputError{Source: "overrides", Key: key, Reason: "chapter must be non-negative"}
		}
		if label.Page < 0 {
			return nil, &InputError{Source: "overrides", Key: key, Reason: "chapter page must be non-negative"}
		}
		numbers = append(numbers, num)
	}
	sort.Ints(numbers)

	out := make([]Page, len(pages))
	copy(out, pages)
	for _, num := range numbers {
		slot := slotByIndex[num-1]
		label := overrides[num]
		if prev, ok := out[slot].Label(); ok {
			log.Debug().Int("page", num).Str("from", prev.String()).Str("to", label.String()).Msg("manual override replaces label")
		} else {
			log.Debug().Int("page", num).Str("to", label.String()).Msg("manual override labels page")
		}
		out[slot] = Classified(num-1, label, ProvenanceManual)
	}
	return out, nil
}
