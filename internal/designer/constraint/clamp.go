// Package constraint keeps scene objects inside the printable safe area.
package constraint

import "github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"

// Clamp moves t so that bounds lies within area on each axis independently.
// An object larger than the area on an axis is pinned to the area's minimum on that axis.
// The object's size is never changed.
func Clamp(t domain.Transform, bounds domain.Rect, area domain.SafeArea) domain.Transform {
	t.X += axisShift(bounds.X, bounds.W, area.MinX, area.MaxX)
	t.Y += axisShift(bounds.Y, bounds.H, area.MinY, area.MaxY)
	return t
}

func axisShift(origin, size, min, max float64) float64 {
	if size > max-min {
		return min - origin
	}
	if origin < min {
		return min - origin
	}
	if origin+size > max {
		return max - (origin + size)
	}
	return 0
}

// Contains reports whether bounds lies fully inside area. Objects wider or taller than the area
// count as contained when pinned to the area's minimum on the oversized axis.
func Contains(bounds domain.Rect, area domain.SafeArea) bool {
	return axisOK(bounds.X, bounds.W, area.MinX, area.MaxX) &&
		axisOK(bounds.Y, bounds.H, area.MinY, area.MaxY)
}

const epsilon = 1e-9

func axisOK(origin, size, min, max float64) bool {
	if size > max-min {
		return abs(origin-min) < epsilon
	}
	return origin >= min-epsilon && origin+size <= max+epsilon
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Policy applies Clamp against a fixed safe area.
type Policy struct {
	Area domain.SafeArea
}

func NewPolicy(area domain.SafeArea) *Policy {
	return &Policy{Area: area}
}

// Apply returns next clamped for an object of the given intrinsic size.
func (p *Policy) Apply(obj domain.SceneObject, next domain.Transform) domain.Transform {
	return Clamp(next, domain.BoundsFor(next, obj.Width, obj.Height), p.Area)
}
