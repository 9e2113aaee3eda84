package reorder

import "slices"

// Order is a sequence of 1-based original page numbers. A valid order of a
// document with N pages is a permutation of [1..N].
type Order []int

// Identity returns the order [1, 2, ..., n].
func Identity(n int) Order {
	o := make(Order, n)
	for i := range o {
		o[i] = i + 1
	}
	return o
}

// Compare ranks pages by classification status, chapter (Supplement last),
// chapter page and finally original index. Distinct pages never compare
// equal because original indexes are unique.
func Compare(a, b Page) int {
	switch {
	case a.classified && !b.classified:
		return -1
	case !a.classified && b.classified:
		return 1
	case a.classified:
		if c := a.label.Chapter.compare(b.label.Chapter); c != 0 {
			return c
		}
		if c := cmpInt(a.label.Page, b.label.Page); c != 0 {
			return c
		}
	}
	return cmpInt(a.index, b.index)
}

// SortPages returns a new slice holding pages in logical order.
func SortPages(pages []Page) []Page {
	out := slices.Clone(pages)
	slices.SortStableFunc(out, Compare)
	return out
}

// OrderOf returns the page numbers of pages sorted into logical order.
func OrderOf(pages []Page) Order {
	sorted := SortPages(pages)
	o := make(Order, len(sorted))
	for i, p := range sorted {
		o[i] = p.Number()
	}
	return o
}

// Validate checks that o is a permutation of [1..n].
func (o Order) Validate(n int) error {
	if len(o) != n {
		return &InvariantError{Op: "order", Reason: "length does not match page count"}
	}
	seen := make([]bool, n+1)
	for _, v := range o {
		if v < 1 || v > n {
			return &InvariantError{Op: "order", Reason: "page value out of range"}
		}
		if seen[v] {
			return &InvariantError{Op: "order", Reason: "duplicate page value"}
		}
		seen[v] = true
	}
	return nil
}
