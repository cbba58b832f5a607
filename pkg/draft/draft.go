// Package draft implements the core weaving-draft transformations: expanding
// a sectioned treadling into a flat pick sequence and deriving the per-pick
// shaft lifts from a tie-up.
//
// A floor-loom draft is written in terms of treadles; a table loom has none,
// so the weaver needs a lift plan listing the shafts to raise on every pick.
// The two stages are strictly ordered:
//
//  1. Expand: recursively flatten named, repeatable sections into one
//     ordered pick sequence, with begin/end annotations at section
//     boundaries.
//  2. Derive: resolve each pick's treadles through the tie-up and union the
//     tied shafts into a sorted lift set.
//
// Both stages are pure functions over immutable value inputs. A single run
// holds no state, so independent runs may execute concurrently without
// coordination.
package draft

import (
	"github.com/weftworks/liftplan/pkg/errors"
)

// Treadle identifies a foot lever on the floor loom. It has no meaning
// beyond being a key into the tie-up.
type Treadle = int

// Shaft identifies a harness, 1..N where N is the configured shaft count.
type Shaft = int

// TieUp maps each treadle to the set of shafts it raises. It is built once
// per run and read-only afterwards.
type TieUp map[Treadle][]Shaft

// EntryKind discriminates the two section entry variants.
type EntryKind int

const (
	// KindPick is a leaf weaving pick: a list of treadles pressed together.
	KindPick EntryKind = iota
	// KindRef is a reference to another section with a repeat count.
	KindRef
)

// Entry is one element of a section: either a leaf pick or a reference to
// another section. Use [Pick] and [Ref] to construct entries; the Kind field
// keeps handling exhaustive.
type Entry struct {
	Kind     EntryKind
	Treadles []Treadle // KindPick: treadles pressed on this pick (may be empty)
	Name     string    // KindRef: referenced section name
	Repeat   int       // KindRef: times to weave the referenced section
}

// Pick creates a leaf pick entry. An empty treadle list is a valid pick
// (a plain tabby row woven with nothing raised).
func Pick(treadles ...Treadle) Entry {
	return Entry{Kind: KindPick, Treadles: treadles}
}

// Ref creates a reference entry to section name, woven repeat times.
func Ref(name string, repeat int) Entry {
	return Entry{Kind: KindRef, Name: name, Repeat: repeat}
}

// Sections maps section names to their ordered entries. Definitions are
// immutable for the duration of an expansion run.
type Sections map[string][]Entry

// SeqRef is one element of the main sequence: a section played repeat times.
// The main sequence itself is not a section and cannot be referenced.
type SeqRef struct {
	Name   string
	Repeat int
}

// MainSequence is the top-level weaving order, the entry point of expansion.
type MainSequence []SeqRef

// Expanded is one unit of expander output: either a weaving pick or a
// structural annotation marking a section boundary. Exactly one variant is
// populated, discriminated by Annotation.
type Expanded struct {
	// Annotation is true for begin/end marker rows. They carry no treadles
	// and must render as labeled dividers, not weaving rows.
	Annotation bool

	// Treadles holds the pick's treadle list when Annotation is false.
	Treadles []Treadle

	// Label is the annotation text for markers, or the innermost enclosing
	// section name for weaving picks (used downstream for divider grouping).
	Label string
}

// Lift is the final derived unit: the shafts to raise on one pick.
type Lift struct {
	// Pick is the 1-based weaving pick number, dense over weaving rows.
	// Annotation rows have Pick == 0.
	Pick int

	// Shafts is the ascending deduplicated union of the shafts tied to every
	// treadle pressed on this pick. Values beyond the declared shaft count
	// are preserved untruncated so renderers can surface the discrepancy.
	Shafts []Shaft

	// Label carries section metadata: the annotation text for marker rows,
	// or the enclosing section name for weaving rows.
	Label string

	// Annotation marks structural divider rows.
	Annotation bool
}

// Validate checks a tie-up for well-formedness: every shaft value must be a
// positive integer. Shaft values are deliberately not bounds-checked against
// the configured shaft count here; out-of-range shafts surface at render
// time so the discrepancy stays visible.
func (t TieUp) Validate() error {
	for treadle, shafts := range t {
		if treadle < 1 {
			return errors.New(errors.ErrCodeInvalidTieUp, "treadle %d: treadle numbers must be positive", treadle)
		}
		for _, s := range shafts {
			if s < 1 {
				return errors.New(errors.ErrCodeInvalidTieUp, "treadle %d: shaft %d is not a positive shaft number", treadle, s)
			}
		}
	}
	return nil
}
