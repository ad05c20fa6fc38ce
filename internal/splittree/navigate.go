package splittree

// NavDirection is a spatial direction for moving focus between panes.
type NavDirection int

const (
	NavLeft NavDirection = iota
	NavRight
	NavUp
	NavDown
)

// Rect is a pane's position within the unit square, derived from the split
// ratios. Purely geometric; rendering maps it onto real cells.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) centerX() float64 { return r.X + r.W/2 }
func (r Rect) centerY() float64 { return r.Y + r.H/2 }

// Rects computes the unit-square rectangle of every leaf. Horizontal splits
// stack first above second; vertical splits place first left of second.
func Rects(n Node) map[LeafID]Rect {
	out := make(map[LeafID]Rect, MaxLeaves)
	rectsInto(n, Rect{X: 0, Y: 0, W: 1, H: 1}, out)
	return out
}

func rectsInto(n Node, r Rect, out map[LeafID]Rect) {
	switch t := n.(type) {
	case Leaf:
		out[t.ID] = r
	case Split:
		if t.Dir == Horizontal {
			top := Rect{X: r.X, Y: r.Y, W: r.W, H: r.H * t.Ratio}
			bottom := Rect{X: r.X, Y: r.Y + top.H, W: r.W, H: r.H - top.H}
			rectsInto(t.First, top, out)
			rectsInto(t.Second, bottom, out)
			return
		}
		left := Rect{X: r.X, Y: r.Y, W: r.W * t.Ratio, H: r.H}
		right := Rect{X: left.X + left.W, Y: r.Y, W: r.W - left.W, H: r.H}
		rectsInto(t.First, left, out)
		rectsInto(t.Second, right, out)
	}
}

// navEpsilon filters out leaves that share an axis position with the origin,
// so focus never "moves" onto a pane that is not actually in that direction.
const navEpsilon = 1e-9

// Navigate returns the leaf spatially nearest to `from` in the given
// direction, read-only over the tree. The candidate set is every leaf whose
// center lies strictly beyond the origin's center along the movement axis;
// among those the one with the smallest center distance wins, with the
// cross-axis offset weighted double so navigation prefers staying in the
// same row or column. Returns false when no pane lies that way.
func Navigate(n Node, from LeafID, dir NavDirection) (LeafID, bool) {
	rects := Rects(n)
	origin, ok := rects[from]
	if !ok {
		return 0, false
	}

	best := LeafID(0)
	bestScore := 0.0
	found := false
	for id, r := range rects {
		if id == from {
			continue
		}
		var along, cross float64
		switch dir {
		case NavLeft:
			along = origin.centerX() - r.centerX()
			cross = origin.centerY() - r.centerY()
		case NavRight:
			along = r.centerX() - origin.centerX()
			cross = origin.centerY() - r.centerY()
		case NavUp:
			along = origin.centerY() - r.centerY()
			cross = origin.centerX() - r.centerX()
		case NavDown:
			along = r.centerY() - origin.centerY()
			cross = origin.centerX() - r.centerX()
		}
		if along <= navEpsilon {
			continue
		}
		if cross < 0 {
			cross = -cross
		}
		score := along + 2*cross
		if !found || score < bestScore {
			best, bestScore, found = id, score, true
		}
	}
	return best, found
}
