package terrain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLadder    = errors.New("terrain: detail ladder is empty")
	ErrThresholdOrder = errors.New("terrain: visible distances must be strictly increasing")
	ErrColliderIndex  = errors.New("terrain: collider index out of range")
)

// DetailLevel is one rung of the ladder: chunks no farther than
// VisibleDistance from the viewer render at LOD. ColliderCandidate is set by
// NewLadder on the rung that supplies collision geometry.
type DetailLevel struct {
	LOD               int
	VisibleDistance   float32
	ColliderCandidate bool
}

// Ladder is an ordered list of detail levels, finest first.
type Ladder struct {
	levels   []DetailLevel
	collider int
}

// NewLadder validates levels and records which rung supplies colliders.
func NewLadder(levels []DetailLevel, colliderIndex int) (*Ladder, error) {
	if len(levels) == 0 {
		return nil, ErrEmptyLadder
	}
	for i, l := range levels {
		if l.LOD < 0 || l.LOD >= MaxLevelsOfDetail {
			return nil, fmt.Errorf("terrain: level %d has lod %d, want [0,%d)", i, l.LOD, MaxLevelsOfDetail)
		}
		if i > 0 && l.VisibleDistance <= levels[i-1].VisibleDistance {
			return nil, fmt.Errorf("%w: level %d (%v) after %v", ErrThresholdOrder, i, l.VisibleDistance, levels[i-1].VisibleDistance)
		}
	}
	if colliderIndex < 0 || colliderIndex >= len(levels) {
		return nil, fmt.Errorf("%w: %d with %d levels", ErrColliderIndex, colliderIndex, len(levels))
	}
	own := make([]DetailLevel, len(levels))
	for i, l := range levels {
		l.ColliderCandidate = i == colliderIndex
		own[i] = l
	}
	return &Ladder{levels: own, collider: colliderIndex}, nil
}

func (l *Ladder) Len() int                { return len(l.levels) }
func (l *Ladder) Level(i int) DetailLevel { return l.levels[i] }
func (l *Ladder) ColliderIndex() int      { return l.collider }

// MaxViewDistance is the last threshold; chunks beyond it are hidden.
func (l *Ladder) MaxViewDistance() float32 {
	return l.levels[len(l.levels)-1].VisibleDistance
}

// Select returns the index of the first level whose threshold is at least
// distance, or the last index when distance exceeds them all.
func (l *Ladder) Select(distance float32) int {
	for i := 0; i < len(l.levels)-1; i++ {
		if distance <= l.levels[i].VisibleDistance {
			return i
		}
	}
	return len(l.levels) - 1
}
