package differ

// editKind is the kind of one step of an edit script.
type editKind uint8

const (
	editEqual editKind = iota
	editInsert
	editDelete
)

// edit is one step of an edit script.
type edit struct {
	kind     editKind
	oldIndex int
	newIndex int
}

// myers implements the Myers diff algorithm and returns the edit script
// turning a into b.
func myers[T comparable](a, b []T) []edit {
	n := len(a)
	m := len(b)

	if n == 0 && m == 0 {
		return nil
	}
	if n == 0 {
		ops := make([]edit, m)
		for i := range m {
			ops[i] = edit{kind: editInsert, newIndex: i}
		}
		return ops
	}
	if m == 0 {
		ops := make([]edit, n)
		for i := range n {
			ops[i] = edit{kind: editDelete, oldIndex: i}
		}
		return ops
	}

	maxD := n + m
	offset := maxD // V[-max..max] maps to slice[0..2*max]
	v := make([]int, 2*maxD+1)

	var trace [][]int

outer:
	for d := 0; d <= maxD; d++ {
		// trace[d] holds the state left by round d-1
		trace = append(trace, append([]int(nil), v...))

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
				trace = append(trace, append([]int(nil), v...))
				break outer
			}
		}
	}

	return backtrack(trace, n, m, offset)
}

// backtrack reconstructs the edit script from the trace.
func backtrack(trace [][]int, n, m, offset int) []edit {
	x, y := n, m
	var ops []edit

	for d := len(trace) - 2; d >= 0; d-- {
		v := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			ops = append(ops, edit{kind: editEqual, oldIndex: x, newIndex: y})
		}

		if d > 0 {
			if x > prevX {
				x--
				ops = append(ops, edit{kind: editDelete, oldIndex: x, newIndex: y})
			} else if y > prevY {
				y--
				ops = append(ops, edit{kind: editInsert, oldIndex: x, newIndex: y})
			}
		}
	}

	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}
