// Package diff computes and applies compact opcode diffs between two texts.
// Positions are rune offsets into the old text, so diffs are stable across
// any UTF-8 content.
//
// Texts are expected to be valid UTF-8. Each byte of an invalid sequence
// reads as U+FFFD, so Apply(old, Compute(old, new)) returns new only when
// new is valid UTF-8.
package diff

// Tag identifies the kind of an opcode.
type Tag string

const (
	// Equal keeps old[I1:I2].
	Equal Tag = "="
	// Replace substitutes old[I1:I2] with Text.
	Replace Tag = "~"
	// Delete drops old[I1:I2].
	Delete Tag = "-"
	// Insert adds Text at old position I1.
	Insert Tag = "+"
)

// Op is a single instruction of an edit script.
type Op struct {
	Tag  Tag
	I1   int
	I2   int
	Text string
}

// Diff is an edit script from an old text to a new text.
// OldLen records the rune length of the old text the script was computed against.
type Diff struct {
	Ops    []Op `json:"ops"`
	OldLen int  `json:"old_len"`
}

// Empty reports whether the diff carries no opcodes.
func (d Diff) Empty() bool {
	return len(d.Ops) == 0
}

type step uint8

const (
	keep step = iota
	drop
	add
)

// Compute returns the diff that transforms old into new. Invalid UTF-8 in
// either text is read as U+FFFD per byte. The alignment is a shortest edit script over runes, so unchanged spans
// collapse into Equal opcodes.
func Compute(old, new string) Diff {
	a, b := []rune(old), []rune(new)
	d := Diff{OldLen: len(a), Ops: []Op{}}

	if len(a) == 0 && len(b) == 0 {
		return d
	}

	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	steps := make([]step, 0, len(a)+len(b))
	for range prefix {
		steps = append(steps, keep)
	}
	steps = append(steps, script(a[prefix:len(a)-suffix], b[prefix:len(b)-suffix])...)
	for range suffix {
		steps = append(steps, keep)
	}

	d.Ops = group(steps, b)
	return d
}

// group folds single-rune steps into opcodes. A run of drops and adds
// between two kept spans becomes one Replace, Delete, or Insert.
func group(steps []step, b []rune) []Op {
	ops := make([]Op, 0)
	i, j, k := 0, 0, 0

	for k < len(steps) {
		if steps[k] == keep {
			start := i
			for k < len(steps) && steps[k] == keep {
				i++
				j++
				k++
			}
			ops = append(ops, Op{Tag: Equal, I1: start, I2: i})
			continue
		}

		si, sj := i, j
		for k < len(steps) && steps[k] != keep {
			if steps[k] == drop {
				i++
			} else {
				j++
			}
			k++
		}

		switch {
		case i > si && j > sj:
			ops = append(ops, Op{Tag: Replace, I1: si, I2: i, Text: string(b[sj:j])})
		case i > si:
			ops = append(ops, Op{Tag: Delete, I1: si, I2: i})
		default:
			ops = append(ops, Op{Tag: Insert, I1: si, I2: si, Text: string(b[sj:j])})
		}
	}

	return ops
}

// script returns a shortest edit script between a and b using Myers' O(ND) algorithm.
func script(a, b []rune) []step {
	n, m := len(a), len(b)

	switch {
	case n == 0 && m == 0:
		return nil
	case n == 0:
		return repeat(add, m)
	case m == 0:
		return repeat(drop, n)
	}

	limit := n + m
	offset := limit + 1
	v := make([]int, 2*limit+3)
	trace := make([][]int, 0)

	for d := 0; d <= limit; d++ {
		trace = append(trace, snapshot(v, offset, d))

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}

			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x

			if x >= n && y >= m {
				return backtrack(trace, n, m)
			}
		}
	}

	return nil
}

// snapshot copies the diagonals -d-1..d+1 of v that round d reads from.
func snapshot(v []int, offset, d int) []int {
	lo := offset - d - 1
	hi := offset + d + 2
	return append([]int(nil), v[lo:hi]...)
}

func backtrack(trace [][]int, n, m int) []step {
	steps := make([]step, 0, n+m)
	x, y := n, m

	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		at := func(k int) int { return v[k+d+1] }

		k := x - y
		var prevK int
		if k == -d || (k != d && at(k-1) < at(k+1)) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}

		prevX := at(prevK)
		prevY := prevX - prevK

		for x > prevX && y > prevY && x > 0 && y > 0 {
			steps = append(steps, keep)
			x--
			y--
		}

		if d > 0 {
			if x == prevX {
				steps = append(steps, add)
			} else {
				steps = append(steps, drop)
			}
			x, y = prevX, prevY
		}
	}

	for l, r := 0, len(steps)-1; l < r; l, r = l+1, r-1 {
		steps[l], steps[r] = steps[r], steps[l]
	}
	return steps
}

func repeat(s step, n int) []step {
	steps := make([]step, n)
	for i := range steps {
		steps[i] = s
	}
	return steps
}
