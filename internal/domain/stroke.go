package domain

// Point is a single sampled pen position. T is the client's clock and is
// advisory only.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	T float64 `json:"t"`
}

// Stroke is one continuous pen gesture
type Stroke struct {
	ID     string  `json:"id"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Points []Point `json:"points"`
}

// StrokePoint is the typed view of one incremental draw event
type StrokePoint struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	T     float64 `json:"t"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// Point returns the positional part of the event
func (sp StrokePoint) Point() Point {
	return Point{X: sp.X, Y: sp.Y, T: sp.T}
}

// StrokeSet accumulates point events into strokes keyed by id.
// Strokes are kept in first-seen order and points in arrival order.
type StrokeSet struct {
	order []*Stroke
	byID  map[string]*Stroke
}

// NewStrokeSet creates an empty stroke set
func NewStrokeSet() *StrokeSet {
	return &StrokeSet{
		order: make([]*Stroke, 0),
		byID:  make(map[string]*Stroke),
	}
}

// Add appends p to the stroke with the given id, creating the stroke on
// first sight. Color and width are fixed by the first point.
func (s *StrokeSet) Add(id, color string, width float64, p Point) (*Stroke, bool) {
	if stroke, ok := s.byID[id]; ok {
		stroke.Points = append(stroke.Points, p)
		return stroke, false
	}

	stroke := &Stroke{
		ID:     id,
		Color:  color,
		Width:  width,
		Points: []Point{p},
	}
	s.byID[id] = stroke
	s.order = append(s.order, stroke)
	return stroke, true
}

// Get returns the stroke with the given id
func (s *StrokeSet) Get(id string) (*Stroke, bool) {
	stroke, ok := s.byID[id]
	return stroke, ok
}

// All returns a copy of every stroke in first-seen order
func (s *StrokeSet) All() []Stroke {
	out := make([]Stroke, 0, len(s.order))
	for _, stroke := range s.order {
		cp := *stroke
		cp.Points = append([]Point(nil), stroke.Points...)
		out = append(out, cp)
	}
	return out
}

// Len returns the number of strokes
func (s *StrokeSet) Len() int {
	return len(s.order)
}

// PointCount returns the number of points across all strokes
func (s *StrokeSet) PointCount() int {
	n := 0
	for _, stroke := range s.order {
		n += len(stroke.Points)
	}
	return n
}

// Clear drops every stroke
func (s *StrokeSet) Clear() {
	s.order = make([]*Stroke, 0)
	s.byID = make(map[string]*Stroke)
}
