// Package notation implements the mini-notation surface grammar — the only
// textual DSL this repository accepts — and lowers it into the pattern
// algebra. The parser is a hand-written recursive-descent scanner over a
// byte cursor, in the same style as the teacher's internal/mml parser
// (index-based cursor, per-character dispatch, explicit error messages
// carrying the failing byte offset) generalised to this grammar's bracket
// nesting instead of MML's flat per-character command stream.
package notation

import (
	"fmt"
	"strconv"

	"github.com/tidalforge/cyclist/internal/rational"
)

// Node is one parsed grammar element.
type Node interface{ isNode() }

type AtomNode struct {
	Name string
	Num  *int
}
type RestNode struct{}
type ElongateNode struct{}
type GroupNode struct{ Stack *StackNode }
type AltNode struct{ Seq *SeqNode }
type FastNode struct {
	Inner  Node
	Factor rational.Rational
}

func (AtomNode) isNode()     {}
func (RestNode) isNode()     {}
func (ElongateNode) isNode() {}
func (GroupNode) isNode()    {}
func (AltNode) isNode()      {}
func (FastNode) isNode()     {}

// StepNode is one element of a sequence, with its accumulated weight
// (1 plus one per trailing "_" elongation).
type StepNode struct {
	Node   Node
	Weight int
}

// SeqNode is a space-separated run of steps.
type SeqNode struct{ Steps []*StepNode }

// StackNode is a comma-separated set of sequences, all playing at once.
type StackNode struct{ Alts []*SeqNode }

// Parse parses the full mini-notation string s.
func Parse(s string) (*StackNode, error) {
	p := &parser{s: s}
	st, err := p.parseStack()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.i != len(p.s) {
		return nil, fmt.Errorf("notation: unexpected trailing input at %d: %q", p.i, p.s[p.i:])
	}
	return st, nil
}

type parser struct {
	s string
	i int
}

func (p *parser) parseStack() (*StackNode, error) {
	seq, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	alts := []*SeqNode{seq}
	for {
		p.skipSpace()
		if p.i < len(p.s) && p.s[p.i] == ',' {
			p.i++
			seq2, err := p.parseSequence()
			if err != nil {
				return nil, err
			}
			alts = append(alts, seq2)
			continue
		}
		break
	}
	return &StackNode{Alts: alts}, nil
}

func (p *parser) parseSequence() (*SeqNode, error) {
	var steps []*StepNode
	for {
		p.skipSpace()
		if p.i >= len(p.s) || p.peekIsTerminator() {
			break
		}
		node, count, err := p.parseElementWithMod()
		if err != nil {
			return nil, err
		}
		if _, ok := node.(ElongateNode); ok {
			if len(steps) == 0 {
				return nil, fmt.Errorf("notation: elongate (_) with no preceding step at %d", p.i)
			}
			steps[len(steps)-1].Weight++
			continue
		}
		for k := 0; k < count; k++ {
			steps = append(steps, &StepNode{Node: node, Weight: 1})
		}
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("notation: empty sequence at %d", p.i)
	}
	return &SeqNode{Steps: steps}, nil
}

func (p *parser) peekIsTerminator() bool {
	if p.i >= len(p.s) {
		return true
	}
	c := p.s[p.i]
	return c == ',' || c == ']' || c == '>'
}

// parseElementWithMod parses one base element plus an optional trailing
// "*n" (speed) or "!n" (inline replicate) modifier. Returns the node and
// the number of sequence steps it should expand to (>1 only for "!n").
func (p *parser) parseElementWithMod() (Node, int, error) {
	node, err := p.parseElement()
	if err != nil {
		return nil, 0, err
	}
	if p.i < len(p.s) {
		switch p.s[p.i] {
		case '*':
			p.i++
			f, err := p.parseRationalLiteral()
			if err != nil {
				return nil, 0, err
			}
			return FastNode{Inner: node, Factor: f}, 1, nil
		case '!':
			p.i++
			n, err := p.parseIntDefault(2)
			if err != nil {
				return nil, 0, err
			}
			return node, n, nil
		}
	}
	return node, 1, nil
}

func (p *parser) parseElement() (Node, error) {
	if p.i >= len(p.s) {
		return nil, fmt.Errorf("notation: unexpected end of input")
	}
	c := p.s[p.i]
	switch {
	case c == '~' || c == '-':
		p.i++
		return RestNode{}, nil
	case c == '[':
		p.i++
		st, err := p.parseStack()
		if err != nil {
			return nil, err
		}
		if p.i >= len(p.s) || p.s[p.i] != ']' {
			return nil, fmt.Errorf("notation: expected ']' at %d", p.i)
		}
		p.i++
		return GroupNode{Stack: st}, nil
	case c == '<':
		p.i++
		seq, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		if p.i >= len(p.s) || p.s[p.i] != '>' {
			return nil, fmt.Errorf("notation: expected '>' at %d", p.i)
		}
		p.i++
		return AltNode{Seq: seq}, nil
	case isNameChar(c):
		start := p.i
		for p.i < len(p.s) && isNameChar(p.s[p.i]) {
			p.i++
		}
		name := p.s[start:p.i]
		if name == "_" {
			return ElongateNode{}, nil
		}
		var num *int
		if p.i < len(p.s) && p.s[p.i] == ':' {
			j := p.i + 1
			start2 := j
			for j < len(p.s) && p.s[j] >= '0' && p.s[j] <= '9' {
				j++
			}
			if j > start2 {
				n, _ := strconv.Atoi(p.s[start2:j])
				num = &n
				p.i = j
			}
		}
		return AtomNode{Name: name, Num: num}, nil
	default:
		return nil, fmt.Errorf("notation: unexpected character %q at %d", c, p.i)
	}
}

func isNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '#' || c == '.'
}

func (p *parser) parseRationalLiteral() (rational.Rational, error) {
	start := p.i
	if p.i < len(p.s) && p.s[p.i] == '-' {
		p.i++
	}
	digitsStart := p.i
	for p.i < len(p.s) && p.s[p.i] >= '0' && p.s[p.i] <= '9' {
		p.i++
	}
	fracDigits := 0
	if p.i < len(p.s) && p.s[p.i] == '.' {
		p.i++
		fracStart := p.i
		for p.i < len(p.s) && p.s[p.i] >= '0' && p.s[p.i] <= '9' {
			p.i++
		}
		fracDigits = p.i - fracStart
	}
	if p.i == digitsStart {
		return rational.Rational{}, fmt.Errorf("notation: expected number at %d", start)
	}
	digits := p.s[start:p.i]
	neg := false
	if len(digits) > 0 && digits[0] == '-' {
		neg = true
		digits = digits[1:]
	}
	compact := ""
	for _, c := range digits {
		if c != '.' {
			compact += string(c)
		}
	}
	num, err := strconv.ParseInt(compact, 10, 64)
	if err != nil {
		return rational.Rational{}, fmt.Errorf("notation: invalid number %q at %d", digits, start)
	}
	den := int64(1)
	for i := 0; i < fracDigits; i++ {
		den *= 10
	}
	if neg {
		num = -num
	}
	return rational.New(num, den), nil
}

func (p *parser) parseIntDefault(def int) (int, error) {
	start := p.i
	for p.i < len(p.s) && p.s[p.i] >= '0' && p.s[p.i] <= '9' {
		p.i++
	}
	if p.i == start {
		return def, nil
	}
	n, err := strconv.Atoi(p.s[start:p.i])
	if err != nil {
		return 0, fmt.Errorf("notation: invalid replicate count at %d", start)
	}
	return n, nil
}

func (p *parser) skipSpace() {
	for p.i < len(p.s) {
		switch p.s[p.i] {
		case ' ', '\t', '\n', '\r':
			p.i++
		default:
			return
		}
	}
}
