package surfaces

import (
	"math"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/image/colornames"
)

func TestNewMultiPointPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewMultiPoint without positions didn't panic")
		}
	}()
	NewMultiPoint()
}

func TestPointDistance(t *testing.T) {
	a := NewMultiPoint(r3.Vector{}, r3.Vector{X: 1})
	b := NewMultiPoint(r3.Vector{X: 5}, r3.Vector{X: 1, Y: 0.5})
	diff(t, 0.25, DistanceSquaredBetween(a, b))
	if !PointsApproxEqual(a, b, 0.5) {
		t.Error("points within tolerance aren't equal")
	}
	if PointsApproxEqual(a, b, 0.4) {
		t.Error("points outside of tolerance are equal")
	}
	diff(t, 1, closestPositionIndex(b, r3.Vector{Y: 1}))
}

func TestPointColor(t *testing.T) {
	if c := NewPoint(r3.Vector{}).Color(); c != defaultPointColor {
		t.Errorf("uncolored point has color %v", c)
	}
	if c := NewColoredPoint(r3.Vector{}, colornames.Teal).Color(); c != colornames.Teal {
		t.Errorf("colored point has color %v", c)
	}
	if s := NewMultiPoint(r3.Vector{X: 1}, r3.Vector{Y: 2}).String(); !strings.Contains(s, " ~ ") {
		t.Errorf("multi-point formats as %q", s)
	}
}

func TestTangentVector(t *testing.T) {
	tv := NewTangentVector(NewPoint(r3.Vector{X: 1}), r3.Vector{X: 3, Y: 4})
	diff(t, r3.Vector{X: 0.6, Y: 0.8}, tv.Normalized().Vector, cmpopts.EquateApprox(0, 1e-15))
	diff(t, r3.Vector{X: -3, Y: -4}, tv.Negated().Vector)
	diff(t, r3.Vector{X: 6, Y: 8}, tv.Scaled(2).Vector)
	diff(t, r3.Vector{X: 1}, tv.Position())

	same, ok := tv.AtIndex(0)
	if !ok || same.Vector != tv.Vector || same.PositionIndex != 0 {
		t.Errorf("AtIndex of the current index gave %v, %t", same, ok)
	}
	multi := TangentVector{Point: NewMultiPoint(r3.Vector{}, r3.Vector{X: 1}), Vector: r3.Vector{X: 1}}
	if _, ok := multi.AtIndex(1); ok {
		t.Error("plain points can't transport directions")
	}
	diff(t, r3.Vector{}, NewTangentVector(NewPoint(r3.Vector{}), r3.Vector{}).Normalized().Vector)
}

func TestPlaneHelpers(t *testing.T) {
	diff(t, r3.Vector{X: -2, Y: 1}, planeNormal(r3.Vector{X: 1, Y: 2, Z: 3}))
	diff(t, math.Pi/2, planeAngle(r3.Vector{Y: 1}), cmpopts.EquateApprox(0, 1e-15))
}
