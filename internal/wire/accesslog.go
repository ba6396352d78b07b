package wire

// AccessLog records every coordinate read during one evaluation, in the
// order the host reads happened. Duplicates are kept: the host's dependency
// tracker wants the raw sequence, not a set. An AccessLog is owned by a
// single evaluation and needs no locking.
type AccessLog struct {
	touched []Coordinate
}

// Touch appends c to the log.
func (l *AccessLog) Touch(c Coordinate) {
	l.touched = append(l.touched, c)
}

// TouchRange appends every coordinate of r in scan order (x outer, y
// inner), matching the host's dependency model. A formula that references a
// rectangle depends on the whole rectangle, so unpopulated cells are logged
// too.
func (l *AccessLog) TouchRange(r Range, sheet string) {
	for x := r.P0.X; x <= r.P1.X; x++ {
		for y := r.P0.Y; y <= r.P1.Y; y++ {
			l.touched = append(l.touched, Coordinate{X: x, Y: y, Sheet: sheet})
		}
	}
}

// Coordinates returns the logged sequence. The returned slice is the log's
// backing store; callers must not mutate it.
func (l *AccessLog) Coordinates() []Coordinate {
	return l.touched
}

// Len returns the number of logged reads.
func (l *AccessLog) Len() int { return len(l.touched) }
