package surfaces

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// polyline returns the Euclidean segments between consecutive positions.
func polyline(t *testing.T, p *EuclideanPlane, positions ...r3.Vector) []Curve {
	t.Helper()
	var out []Curve
	for i := range len(positions) - 1 {
		s, err := p.Segment(positions[i], positions[i+1])
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, s)
	}
	return out
}

// captureLogs installs a logger writing to the returned buffer for the
// duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func TestConcatenate(t *testing.T) {
	p := NewEuclideanPlane("E")
	segs := polyline(t, p, r3.Vector{}, r3.Vector{X: 1}, r3.Vector{X: 1, Y: 2})
	c, err := NewConcatenatedCurve(segs, false)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, 3.0, c.Length())
	diff(t, r3.Vector{X: 0.5}, c.ValueAt(0.5).Position())
	diff(t, r3.Vector{X: 1}, c.ValueAt(1).Position())
	diff(t, r3.Vector{X: 1, Y: 1}, c.ValueAt(2).Position())
	diff(t, r3.Vector{X: 1, Y: 2}, EndPosition(c))
	// The join belongs to the later segment.
	diff(t, r3.Vector{Y: 1}, c.DerivativeAt(1).Vector)
	diff(t, r3.Vector{X: 1}, c.DerivativeAt(1-1e-9).Vector)

	diff(t, []SingularPoint{{Time: 1, AngleJump: true}}, c.SingularPoints())
	if len(c.VisualJumpTimes()) != 0 {
		t.Errorf("unexpected visual jumps %v", c.VisualJumpTimes())
	}

	r := c.Reversed()
	for _, s := range []float64{0, 0.5, 1.5, 3} {
		diff(t, c.ValueAt(3-s).Position(), r.ValueAt(s).Position())
	}
}

func TestConcatenateSingularPoints(t *testing.T) {
	p := NewEuclideanPlane("E")
	a, err := p.Segment(r3.Vector{}, r3.Vector{X: 1})
	if err != nil {
		t.Fatal(err)
	}
	straight, err := p.Segment(r3.Vector{X: 1}, r3.Vector{X: 2})
	if err != nil {
		t.Fatal(err)
	}
	far, err := p.Segment(r3.Vector{X: 5}, r3.Vector{X: 6})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		next Curve
		want SingularPoint
	}{
		{"straight", straight, SingularPoint{Time: 1}},
		{"gap", far, SingularPoint{Time: 1, ActualJump: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewConcatenatedCurve([]Curve{a, tt.next}, false)
			if err != nil {
				t.Fatal(err)
			}
			diff(t, []SingularPoint{tt.want}, c.SingularPoints())
		})
	}
}

func TestConcatenateFlattens(t *testing.T) {
	p := NewEuclideanPlane("E")
	segs := polyline(t, p, r3.Vector{}, r3.Vector{X: 1}, r3.Vector{X: 1, Y: 1}, r3.Vector{Y: 1})
	inner, err := NewConcatenatedCurve(segs[:2], false)
	if err != nil {
		t.Fatal(err)
	}
	outer, err := NewConcatenatedCurve([]Curve{inner, segs[2]}, false)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, 3, len(outer.Segments()))
	diff(t, 2, len(outer.SingularPoints()))

	single, err := Concatenate(false, segs[1])
	if err != nil {
		t.Fatal(err)
	}
	if single != segs[1] {
		t.Errorf("concatenating a single segment returned %T", single)
	}
}

func TestConcatenateEmpty(t *testing.T) {
	if _, err := NewConcatenatedCurve(nil, false); !errors.Is(err, ErrZeroLength) {
		t.Errorf("got %v, want ErrZeroLength", err)
	}
}

func TestConcatenateSmoothed(t *testing.T) {
	p := NewEuclideanPlane("E")
	segs := polyline(t, p, r3.Vector{}, r3.Vector{X: 1}, r3.Vector{X: 1, Y: 2})
	c, err := NewConcatenatedCurve(segs, true)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, 3.0, c.Length(), cmpopts.EquateApprox(0, 1e-12))
	diff(t, 4, len(c.Segments()))
	for _, sp := range c.SingularPoints() {
		if sp.AngleJump || sp.ActualJump || sp.VisualJump {
			t.Errorf("smoothed curve has singular point %+v", sp)
		}
	}
	diff(t, r3.Vector{}, StartPosition(c))
	diff(t, r3.Vector{X: 1, Y: 2}, EndPosition(c), cmpopts.EquateApprox(0, 1e-12))
	// The smoothed curve passes through the corner, along the bisector.
	diff(t, r3.Vector{X: 1}, c.ValueAt(1).Position(), cmpopts.EquateApprox(0, 1e-12))
	diff(t, r3.Vector{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}, c.DerivativeAt(1).Vector, cmpopts.EquateApprox(0, 1e-12))

	// Away from the corner, the segments are untouched.
	diff(t, r3.Vector{X: 0.5}, c.ValueAt(0.5).Position(), cmpopts.EquateApprox(0, 1e-12))
	diff(t, r3.Vector{X: 1, Y: 1.5}, c.ValueAt(2.5).Position(), cmpopts.EquateApprox(0, 1e-12))
}

func TestSplineSegment(t *testing.T) {
	p := NewEuclideanPlane("E")
	start := NewTangentVector(NewPoint(r3.Vector{}), r3.Vector{X: 2})
	end := NewTangentVector(NewPoint(r3.Vector{X: 1, Y: 1}), r3.Vector{Y: -1})
	s, err := NewSplineSegment(p, start, end, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, r3.Vector{}, StartPosition(s))
	diff(t, r3.Vector{X: 1, Y: 1}, EndPosition(s), cmpopts.EquateApprox(0, 1e-12))
	diff(t, start.Vector, StartVelocity(s).Vector, cmpopts.EquateApprox(0, 1e-12))
	diff(t, end.Vector, EndVelocity(s).Vector, cmpopts.EquateApprox(0, 1e-12))

	if _, err := NewSplineSegment(p, start, end, 0); !errors.Is(err, ErrZeroLength) {
		t.Errorf("got %v, want ErrZeroLength", err)
	}
}
