package draft

import (
	"fmt"

	"github.com/weftworks/liftplan/pkg/errors"
)

// MaxDepth bounds section nesting. It exists purely as a circuit breaker
// against circular or pathological input, not as a domain constraint.
const MaxDepth = 20

// Expand flattens the main sequence into the literal weaving order.
//
// Each (name, repeat) in main is woven repeat times in order. Every
// iteration emits a begin annotation with its 1-based repeat index, the
// recursively expanded section body, and an end annotation. References
// inside sections expand the same way.
//
// Undefined section names fail at the point of reference, a section
// re-entered along its own expansion path fails as a circular reference,
// and nesting deeper than [MaxDepth] fails even without a true cycle. The
// visited set is copied per branch, so two sibling repeats (or two
// independent references to the same section) never see each other's path.
//
// A reference to the empty section name is anonymous: its body is woven
// without begin/end annotations and its picks carry no label. Flat
// treadling files load as one anonymous section.
func Expand(main MainSequence, sections Sections) ([]Expanded, error) {
	var out []Expanded
	for _, ref := range main {
		if ref.Repeat < 1 {
			return nil, errors.New(errors.ErrCodeInvalidRepeat, "section %q: repeat count %d must be at least 1", ref.Name, ref.Repeat)
		}
		for i := 1; i <= ref.Repeat; i++ {
			if ref.Name != "" {
				out = append(out, beginMarker(ref.Name, i))
			}
			body, err := expandSection(ref.Name, sections, 0, map[string]bool{})
			if err != nil {
				return nil, err
			}
			out = append(out, body...)
			if ref.Name != "" {
				out = append(out, endMarker(ref.Name))
			}
		}
	}
	return out, nil
}

// expandSection walks one section's entries depth-first, in order. visited
// holds the section names on the current expansion path only; callers pass a
// copy when branching so sibling iterations start from the ancestor path.
func expandSection(name string, sections Sections, depth int, visited map[string]bool) ([]Expanded, error) {
	if depth > MaxDepth {
		return nil, errors.New(errors.ErrCodeTooDeep, "section %q: nesting exceeds %d levels", name, MaxDepth)
	}
	entries, ok := sections[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUndefinedSection, "undefined section %q", name)
	}
	if visited[name] {
		return nil, errors.New(errors.ErrCodeCircular, "circular reference detected at section %q", name)
	}
	visited[name] = true

	var out []Expanded
	for _, e := range entries {
		switch e.Kind {
		case KindPick:
			out = append(out, Expanded{Treadles: e.Treadles, Label: name})
		case KindRef:
			if e.Repeat < 1 {
				return nil, errors.New(errors.ErrCodeInvalidRepeat, "section %q: reference to %q has repeat count %d, must be at least 1", name, e.Name, e.Repeat)
			}
			for i := 1; i <= e.Repeat; i++ {
				out = append(out, beginMarker(e.Name, i))
				body, err := expandSection(e.Name, sections, depth+1, copyVisited(visited))
				if err != nil {
					return nil, err
				}
				out = append(out, body...)
				out = append(out, endMarker(e.Name))
			}
		default:
			return nil, errors.New(errors.ErrCodeInternal, "section %q: unknown entry kind %d", name, e.Kind)
		}
	}
	return out, nil
}

func beginMarker(name string, repeat int) Expanded {
	return Expanded{Annotation: true, Label: fmt.Sprintf("Begin section %s (repeat %d)", name, repeat)}
}

func endMarker(name string) Expanded {
	return Expanded{Annotation: true, Label: fmt.Sprintf("End section %s", name)}
}

func copyVisited(v map[string]bool) map[string]bool {
	c := make(map[string]bool, len(v))
	for k := range v {
		c[k] = true
	}
	return c
}
