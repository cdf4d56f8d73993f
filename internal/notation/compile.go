package notation

import (
	"github.com/tidalforge/cyclist/internal/pattern"
	"github.com/tidalforge/cyclist/internal/rational"
)

// Compile parses and lowers src into a Pattern. Bare atoms compile to their
// string name; "name:n" atoms compile to pattern.ControlMap{"s": name,
// "n": n}, matching the sample-selector shorthand from spec.md §4.3.
func Compile(src string) (pattern.Pattern, error) {
	st, err := Parse(src)
	if err != nil {
		return pattern.Silence(), err
	}
	return compileStack(st), nil
}

func compileStack(st *StackNode) pattern.Pattern {
	pats := make([]pattern.Pattern, len(st.Alts))
	for i, seq := range st.Alts {
		pats[i] = compileSeq(seq)
	}
	if len(pats) == 1 {
		return pats[0]
	}
	return pattern.Stack(pats...)
}

func compileSeq(seq *SeqNode) pattern.Pattern {
	items := make([]pattern.Weighted, len(seq.Steps))
	for i, st := range seq.Steps {
		items[i] = pattern.Weighted{Weight: rational.FromInt(int64(st.Weight)), Pattern: compileNode(st.Node)}
	}
	return pattern.TimeCat(items)
}

func compileNode(n Node) pattern.Pattern {
	switch v := n.(type) {
	case RestNode:
		return pattern.Silence()
	case AtomNode:
		if v.Num != nil {
			return pattern.Pure(pattern.ControlMap{"s": v.Name, "n": *v.Num})
		}
		return pattern.Pure(v.Name)
	case GroupNode:
		return compileStack(v.Stack)
	case AltNode:
		return compileAlt(v.Seq)
	case FastNode:
		return compileNode(v.Inner).Fast(v.Factor)
	}
	return pattern.Silence()
}

// compileAlt lowers "<a b c>" to slowcat(a,b,c), resolving "_" elongation
// within an alternation statically at compile time: the parser folds each
// "_" into the preceding step's Weight, and a step of weight w fills w
// consecutive cycles, so "<7 _ _ 6>" plays 7, 7, 7, 6. An ElongateNode step
// left in a hand-built tree resolves to the pattern of the nearest
// preceding non-elongate step, found cyclically. This sidesteps runtime
// recursion while repeating the previous cycle's value for each "_".
func compileAlt(seq *SeqNode) pattern.Pattern {
	k := len(seq.Steps)
	if k == 0 {
		return pattern.Silence()
	}
	compiled := make([]pattern.Pattern, k)
	isElongate := make([]bool, k)
	for i, st := range seq.Steps {
		if _, ok := st.Node.(ElongateNode); ok {
			isElongate[i] = true
			continue
		}
		compiled[i] = compileNode(st.Node)
	}
	resolved := make([]pattern.Pattern, 0, k)
	for i := 0; i < k; i++ {
		p := compiled[i]
		if isElongate[i] {
			p = pattern.Silence()
			for back := 1; back <= k; back++ {
				j := ((i-back)%k + k) % k
				if !isElongate[j] {
					p = compiled[j]
					break
				}
			}
		}
		for w := 0; w < seq.Steps[i].Weight; w++ {
			resolved = append(resolved, p)
		}
	}
	return pattern.Slowcat(resolved...)
}
