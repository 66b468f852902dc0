package domain

import (
	"sort"
	"strconv"
	"strings"
)

type selectionKind int

const (
	selAll selectionKind = iota
	selSingle
	selRange
	selSet
)

// PageSelection picks which 1-indexed pages of a document to convert.
// Construct one with AllPages, SinglePage, PageRange or PageSet.
type PageSelection struct {
	kind   selectionKind
	single int
	lo, hi int
	set    []int
}

func AllPages() PageSelection               { return PageSelection{kind: selAll} }
func SinglePage(n int) PageSelection        { return PageSelection{kind: selSingle, single: n} }
func PageRange(a, b int) PageSelection      { return PageSelection{kind: selRange, lo: a, hi: b} }
func PageSet(ns ...int) PageSelection       { return PageSelection{kind: selSet, set: ns} }

// Resolve returns the sorted, deduplicated, 1-indexed page numbers this
// selection names against a document of totalPages pages. Any named
// page outside [1, totalPages] raises PageOutOfRange.
func (s PageSelection) Resolve(totalPages int) ([]int, error) {
	switch s.kind {
	case selAll:
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	case selSingle:
		if s.single < 1 || s.single > totalPages {
			return nil, PageOutOfRange(s.single, totalPages)
		}
		return []int{s.single}, nil
	case selRange:
		if s.lo < 1 || s.hi > totalPages || s.lo > s.hi {
			bad := s.lo
			if s.hi > totalPages {
				bad = s.hi
			}
			return nil, PageOutOfRange(bad, totalPages)
		}
		pages := make([]int, 0, s.hi-s.lo+1)
		for p := s.lo; p <= s.hi; p++ {
			pages = append(pages, p)
		}
		return pages, nil
	case selSet:
		seen := make(map[int]struct{}, len(s.set))
		for _, p := range s.set {
			if p < 1 || p > totalPages {
				return nil, PageOutOfRange(p, totalPages)
			}
			seen[p] = struct{}{}
		}
		pages := make([]int, 0, len(seen))
		for p := range seen {
			pages = append(pages, p)
		}
		sort.Ints(pages)
		return pages, nil
	default:
		return nil, InvalidInput("unknown page selection")
	}
}

// ParsePageSelection parses the CLI-facing spec syntax: "all", "N",
// "A-B", or a comma-separated list mixing any of the above, e.g.
// "3-15" or "1,3,5,1" (which deduplicates to {1,3,5} once resolved).
func ParsePageSelection(spec string) (PageSelection, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.EqualFold(spec, "all") {
		return AllPages(), nil
	}
	if !strings.Contains(spec, ",") {
		if lo, hi, ok := parseRangeToken(spec); ok {
			return PageRange(lo, hi), nil
		}
		n, err := strconv.Atoi(spec)
		if err != nil {
			return PageSelection{}, InvalidInput("bad page spec: " + spec)
		}
		return SinglePage(n), nil
	}
	var ns []int
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if lo, hi, ok := parseRangeToken(tok); ok {
			for p := lo; p <= hi; p++ {
				ns = append(ns, p)
			}
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return PageSelection{}, InvalidInput("bad page spec token: " + tok)
		}
		ns = append(ns, n)
	}
	return PageSet(ns...), nil
}

func parseRangeToken(tok string) (lo, hi int, ok bool) {
	parts := strings.SplitN(tok, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	a, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}
