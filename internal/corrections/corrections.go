// Package corrections decodes operator-supplied correction files: manual
// label overrides and move lists. Both are JSON objects keyed by 1-based
// physical page number. Any malformed entry is a fatal input error.
package corrections

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/local/pagereorder/internal/reorder"
)

const (
	sourceOverrides = "overrides"
	sourceMoves     = "moves"
)

// ParseOverrides decodes {"<page>": [<chapter>, <chapter_page>], ...}.
// chapter is a non-negative integer, a numeric string or "S".
func ParseOverrides(data []byte) (reorder.Overrides, error) {
	raw, err := decodeObject(sourceOverrides, data)
	if err != nil {
		return nil, err
	}
	out := make(reorder.Overrides, len(raw))
	for key, val := range raw {
		page, err := parsePageKey(sourceOverrides, key)
		if err != nil {
			return nil, err
		}
		var pair []json.RawMessage
		if err := json.Unmarshal(val, &pair); err != nil || len(pair) != 2 {
			return nil, &reorder.InputError{Source: sourceOverrides, Key: key,
				Reason: "value must be a [chapter, chapter_page] pair"}
		}
		chapter, err := parseChapter(key, pair[0])
		if err != nil {
			return nil, err
		}
		chapterPage, ok := decodeInt(pair[1])
		if !ok || chapterPage < 0 {
			return nil, &reorder.InputError{Source: sourceOverrides, Key: key,
				Reason: fmt.Sprintf("chapter page %s is not a non-negative integer", pair[1])}
		}
		out[page] = reorder.Label{Chapter: chapter, Page: chapterPage}
	}
	return out, nil
}

// ParseMoves decodes {"<source_page>": <anchor_page>, ...}.
func ParseMoves(data []byte) (reorder.MoveSet, error) {
	raw, err := decodeObject(sourceMoves, data)
	if err != nil {
		return nil, err
	}
	out := make(reorder.MoveSet, len(raw))
	for key, val := range raw {
		src, err := parsePageKey(sourceMoves, key)
		if err != nil {
			return nil, err
		}
		anchor, ok := decodeInt(val)
		if !ok {
			return nil, &reorder.InputError{Source: sourceMoves, Key: key,
				Reason: fmt.Sprintf("anchor page %s is not an integer", val)}
		}
		out[src] = anchor
	}
	return out, nil
}

// LoadOverrides reads and decodes an overrides file.
func LoadOverrides(path string) (reorder.Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	return ParseOverrides(data)
}

// LoadMoves reads and decodes a move-list file.
func LoadMoves(path string) (reorder.MoveSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read moves: %w", err)
	}
	return ParseMoves(data)
}

func decodeObject(source string, data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &reorder.InputError{Source: source, Reason: "expected a JSON object: " + err.Error()}
	}
	if raw == nil {
		return nil, &reorder.InputError{Source: source, Reason: "expected a JSON object"}
	}
	return raw, nil
}

func parsePageKey(source, key string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil {
		return 0, &reorder.InputError{Source: source, Key: key, Reason: "page number is not an integer"}
	}
	return n, nil
}

func parseChapter(key string, raw json.RawMessage) (reorder.Chapter, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == reorder.SupplementLiteral {
			return reorder.Supplement, nil
		}
	}
	n, ok := decodeInt(raw)
	if !ok || n < 0 {
		return reorder.Chapter{}, &reorder.InputError{Source: sourceOverrides, Key: key,
			Reason: fmt.Sprintf("chapter %s is neither a non-negative integer nor %q", raw, reorder.SupplementLiteral)}
	}
	return reorder.Numbered(n), nil
}

// decodeInt accepts an integral JSON number or a string holding one.
func decodeInt(raw json.RawMessage) (int, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
