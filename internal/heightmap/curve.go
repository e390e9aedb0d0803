package heightmap

import (
	"errors"
	"sort"
)

// Key is one control point of a response curve.
type Key struct {
	Time  float32 `yaml:"time"`
	Value float32 `yaml:"value"`
}

// Curve is a piecewise-linear response curve. Evaluate caches the last
// segment it used, so a Curve must not be evaluated from several goroutines
// at once; take a Clone per goroutine instead.
type Curve struct {
	keys   []Key
	cursor int
}

// NewCurve builds a curve from keys sorted by Time.
func NewCurve(keys ...Key) (*Curve, error) {
	if len(keys) == 0 {
		return nil, errors.New("curve needs at least one key")
	}
	if !sort.SliceIsSorted(keys, func(i, j int) bool { return keys[i].Time < keys[j].Time }) {
		return nil, errors.New("curve keys must be sorted by time")
	}
	for i := 1; i < len(keys); i++ {
		if keys[i].Time == keys[i-1].Time {
			return nil, errors.New("curve keys must have distinct times")
		}
	}
	return &Curve{keys: append([]Key(nil), keys...)}, nil
}

// Linear returns the identity curve on [0,1].
func Linear() *Curve {
	return &Curve{keys: []Key{{0, 0}, {1, 1}}}
}

// Keys returns a copy of the control points.
func (c *Curve) Keys() []Key {
	return append([]Key(nil), c.keys...)
}

// Clone returns an independent copy with its own evaluation cursor.
func (c *Curve) Clone() *Curve {
	return &Curve{keys: c.keys}
}

// Evaluate returns the curve value at t, clamped to the end keys outside the
// key range.
func (c *Curve) Evaluate(t float32) float32 {
	n := len(c.keys)
	if n == 1 || t <= c.keys[0].Time {
		return c.keys[0].Value
	}
	if t >= c.keys[n-1].Time {
		return c.keys[n-1].Value
	}

	// Heights of neighbouring cells are close, so the previous segment is
	// usually still the right one.
	i := c.cursor
	if i >= n-1 || t < c.keys[i].Time || t >= c.keys[i+1].Time {
		i = sort.Search(n, func(k int) bool { return c.keys[k].Time > t }) - 1
		c.cursor = i
	}

	a, b := c.keys[i], c.keys[i+1]
	f := (t - a.Time) / (b.Time - a.Time)
	return a.Value + (b.Value-a.Value)*f
}
