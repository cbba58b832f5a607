package draft

import (
	"slices"
)

// Derive resolves an expanded pick sequence into a lift plan.
//
// Weaving picks get dense 1-based pick numbers in emission order; annotation
// rows pass through unnumbered with their label intact. For each weaving
// pick the lift set is the ascending deduplicated union of the shafts tied
// to its treadles. Treadles absent from the tie-up contribute nothing:
// hand-authored tie-up tables commonly omit unused treadles, so a missing
// key is tolerated rather than fatal. An empty treadle list yields an empty
// lift set, also not an error.
//
// Derive performs no I/O and never mutates its inputs; identical inputs
// always produce identical output. shaftCount is accepted for interface
// symmetry with the renderers but does not clamp the result: shafts beyond
// it are preserved so the caller can surface the mismatch.
func Derive(seq []Expanded, tieup TieUp, shaftCount int) []Lift {
	plan := make([]Lift, 0, len(seq))
	pick := 0
	for _, e := range seq {
		if e.Annotation {
			plan = append(plan, Lift{Label: e.Label, Annotation: true})
			continue
		}
		pick++
		plan = append(plan, Lift{
			Pick:   pick,
			Shafts: liftSet(e.Treadles, tieup),
			Label:  e.Label,
		})
	}
	return plan
}

// liftSet unions the tied shafts of every pressed treadle, sorted ascending.
func liftSet(treadles []Treadle, tieup TieUp) []Shaft {
	seen := make(map[Shaft]bool)
	for _, t := range treadles {
		for _, s := range tieup[t] {
			seen[s] = true
		}
	}
	shafts := make([]Shaft, 0, len(seen))
	for s := range seen {
		shafts = append(shafts, s)
	}
	slices.Sort(shafts)
	return shafts
}

// Generate runs Expand followed by Derive.
func Generate(main MainSequence, sections Sections, tieup TieUp, shaftCount int) ([]Lift, error) {
	if err := tieup.Validate(); err != nil {
		return nil, err
	}
	seq, err := Expand(main, sections)
	if err != nil {
		return nil, err
	}
	return Derive(seq, tieup, shaftCount), nil
}

// MaxShaft returns the highest shaft number appearing in the plan, or 0 for
// an empty plan. Renderers use it to widen the grid past the declared shaft
// count when the tie-up references shafts the loom does not have.
func MaxShaft(plan []Lift) Shaft {
	max := 0
	for _, l := range plan {
		for _, s := range l.Shafts {
			if s > max {
				max = s
			}
		}
	}
	return max
}
