package pattern

import "strings"

var modes = map[string][]int{
	"major":           {0, 2, 4, 5, 7, 9, 11},
	"minor":           {0, 2, 3, 5, 7, 8, 10},
	"ionian":          {0, 2, 4, 5, 7, 9, 11},
	"aeolian":         {0, 2, 3, 5, 7, 8, 10},
	"dorian":          {0, 2, 3, 5, 7, 9, 10},
	"phrygian":        {0, 1, 3, 5, 7, 8, 10},
	"lydian":          {0, 2, 4, 6, 7, 9, 11},
	"mixolydian":      {0, 2, 4, 5, 7, 9, 10},
	"locrian":         {0, 1, 3, 5, 6, 8, 10},
	"chromatic":       {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	"pentatonic":      {0, 2, 4, 7, 9},
	"minorpentatonic": {0, 3, 5, 7, 10},
	"blues":           {0, 3, 5, 6, 7, 10},
	"wholetone":       {0, 2, 4, 6, 8, 10},
	"harmonicminor":   {0, 2, 3, 5, 7, 8, 11},
	"melodicminor":    {0, 2, 3, 5, 7, 9, 11},
}

var pitchClasses = map[byte]int{'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11}

// degreeToSemitone maps a (possibly negative or multi-octave) scale degree
// to a semitone offset from the scale root, by wrapping within the mode and
// adding whole octaves. Negative degrees mirror symmetrically: degree -1 is
// one scale step below degree 0.
func degreeToSemitone(d int, mode []int) int {
	n := len(mode)
	if n == 0 {
		return 0
	}
	if d >= 0 {
		oct := d / n
		idx := d % n
		return oct*12 + mode[idx]
	}
	ad := -d
	oct := (ad-1)/n + 1
	idx := n - 1 - ((ad - 1) % n)
	return -oct*12 + mode[idx]
}

func parseRoot(root string) (pitchClass int, rest string, ok bool) {
	if len(root) == 0 {
		return 0, root, false
	}
	base, found := pitchClasses[lowerByte(root[0])]
	if !found {
		return 0, root, false
	}
	i := 1
	for i < len(root) {
		switch root[i] {
		case '#', '+':
			base++
			i++
			continue
		case '-':
			base--
			i++
			continue
		}
		if lowerByte(root[i]) == 'b' {
			base--
			i++
			continue
		}
		break
	}
	return ((base % 12) + 12) % 12, root[i:], true
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// parseScaleName splits "root:mode" (e.g. "c:major", "d#4:dorian") into
// pitch class, mode table, and octave (default 4, so a bare root's degree
// 0 lands on middle C = 60 per spec.md §8 scenario 6 — see DESIGN.md).
func parseScaleName(name string) (pc int, mode []int, octave int) {
	octave = 4
	parts := strings.SplitN(name, ":", 2)
	root := parts[0]
	modeName := "major"
	if len(parts) == 2 {
		modeName = parts[1]
	}
	pc2, rest, ok := parseRoot(root)
	if ok {
		pc = pc2
		if rest != "" {
			if n, err := parseOctaveDigits(rest); err == nil {
				octave = n
			}
		}
	}
	m, ok2 := modes[strings.ToLower(strings.ReplaceAll(modeName, "_", ""))]
	if !ok2 {
		m = modes["major"]
	}
	return pc, m, octave
}

func parseOctaveDigits(s string) (int, error) {
	neg := false
	i := 0
	if i < len(s) && s[i] == '-' {
		neg = true
		i++
	}
	n := 0
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, errNotANumber
	}
	if neg {
		n = -n
	}
	return n, nil
}

var errNotANumber = &scaleError{"not a number"}

type scaleError struct{ msg string }

func (e *scaleError) Error() string { return e.msg }

// Scale returns a combinator that lowers each hap's bare integer degree
// value into ControlMap{"note": semitone}, per name ("root:mode").
func Scale(name string) func(Pattern) Pattern {
	pc, mode, octave := parseScaleName(name)
	base := (octave+1)*12 + pc
	return func(p Pattern) Pattern {
		return p.WithValue(func(v any) any {
			d := toInt(v)
			semi := base + degreeToSemitone(d, mode)
			return ControlMap{"note": semi}
		})
	}
}
