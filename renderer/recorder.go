package renderer

// OpKind identifies a recorded draw command.
type OpKind uint8

const (
	OpClear OpKind = iota
	OpField
	OpSegment
	OpDisc
	OpGradient
)

func (k OpKind) String() string {
	switch k {
	case OpClear:
		return "clear"
	case OpField:
		return "field"
	case OpSegment:
		return "segment"
	case OpDisc:
		return "disc"
	case OpGradient:
		return "gradient"
	}
	return "unknown"
}

// Op is one recorded draw command. Unused fields are zero.
type Op struct {
	Kind   OpKind
	X, Y   float64
	X2, Y2 float64
	Width  float64 // segment width
	Radius float64
	Color  Color
	Outer  Color // gradient rim colour

	// Field payload
	Cols, Rows int
	CellSize   float64
	Alpha      float64
	Values     []float64 // copy of the field values
}

// Recorder is a Canvas that keeps every command of the current frame in
// memory. Used for headless runs and tests.
type Recorder struct {
	W, H int
	Ops  []Op

	// Err, when set, is returned by the next Flush.
	Err error
}

// NewRecorder creates a recorder for a w x h surface.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) Clear() {
	r.Ops = r.Ops[:0]
	r.Ops = append(r.Ops, Op{Kind: OpClear})
}

func (r *Recorder) Field(values []float64, cols, rows int, cellSize float64, tint Color, alpha float64) {
	cp := make([]float64, len(values))
	copy(cp, values)
	r.Ops = append(r.Ops, Op{
		Kind: OpField, Cols: cols, Rows: rows, CellSize: cellSize,
		Color: tint, Alpha: alpha, Values: cp,
	})
}

func (r *Recorder) Segment(x1, y1, x2, y2, width float64, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpSegment, X: x1, Y: y1, X2: x2, Y2: y2, Width: width, Color: c})
}

func (r *Recorder) Disc(x, y, radius float64, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpDisc, X: x, Y: y, Radius: radius, Color: c})
}

func (r *Recorder) RadialGradient(x, y, radius float64, inner, outer Color) {
	r.Ops = append(r.Ops, Op{Kind: OpGradient, X: x, Y: y, Radius: radius, Color: inner, Outer: outer})
}

// Flush returns and clears Err.
func (r *Recorder) Flush() error {
	err := r.Err
	r.Err = nil
	return err
}

// Count returns the number of recorded ops of the given kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
