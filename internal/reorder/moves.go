package reorder

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Move asks for Source to be placed immediately after the current position
// of Anchor. Both are 1-based page numbers of the original document.
type Move struct {
	Source int
	Anchor int
}

// MoveSet maps a source page to its anchor page; keying by source rules
// out duplicate moves of one page.
type MoveSet map[int]int

// Moves validates the set against a document of n pages and returns the
// moves in execution order: ascending anchor, then ascending source.
// Self-moves are dropped.
func (ms MoveSet) Moves(n int) ([]Move, error) {
	moves := make([]Move, 0, len(ms))
	for src, anchor := range ms {
		key := strconv.Itoa(src)
		if src < 1 || src > n {
			return nil, &InputError{Source: "moves", Key: key,
				Reason: fmt.Sprintf("source page %d out of range [1, %d]", src, n)}
		}
		if anchor < 1 || anchor > n {
			return nil, &InputError{Source: "moves", Key: key,
				Reason: fmt.Sprintf("anchor page %d out of range [1, %d]", anchor, n)}
		}
		if src == anchor {
			continue
		}
		moves = append(moves, Move{Source: src, Anchor: anchor})
	}
	slices.SortFunc(moves, func(a, b Move) int {
		if c := cmpInt(a.Anchor, b.Anchor); c != 0 {
			return c
		}
		return cmpInt(a.Source, b.Source)
	})
	return moves, nil
}

// ApplyMoves starts from the identity order of n pages and applies ms one
// move at a time. Anchors are always resolved by the current position of
// the anchor page value. Input errors are reported before the order is
// touched.
func ApplyMoves(n int, ms MoveSet) (Order, error) {
	moves, err := ms.Moves(n)
	if err != nil {
		return nil, err
	}
	order := Identity(n)
	for _, m := range moves {
		order, err = order.apply(m)
		if err != nil {
			return nil, err
		}
		if err := order.Validate(n); err != nil {
			return nil, fmt.Errorf("after moving page %d: %w", m.Source, err)
		}
	}
	return order, nil
}

func (o Order) apply(m Move) (Order, error) {
	from := slices.Index(o, m.Source)
	if from < 0 {
		log.Warn().Int("source", m.Source).Msg("move source missing from order; skipping")
		return o, nil
	}
	o = slices.Delete(o, from, from+1)
	at := slices.Index(o, m.Anchor)
	if at < 0 {
		return nil, &InvariantError{Op: "move",
			Reason: fmt.Sprintf("anchor page %d missing while moving page %d", m.Anchor, m.Source)}
	}
	o = slices.Insert(o, at+1, m.Source)
	log.Debug().Int("source", m.Source).Int("anchor", m.Anchor).Int("position", at+2).Msg("page moved")
	return o, nil
}
