package terrain

import (
	"errors"
	"testing"
)

func TestLadderSelect(t *testing.T) {
	l, err := NewLadder([]DetailLevel{
		{LOD: 0, VisibleDistance: 100},
		{LOD: 1, VisibleDistance: 200},
		{LOD: 2, VisibleDistance: 300},
	}, 1)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		distance float32
		want     int
	}{
		{0, 0},
		{100, 0},
		{150, 1},
		{200, 1},
		{250, 2},
		{1000, 2},
	}
	for _, tc := range tests {
		if got := l.Select(tc.distance); got != tc.want {
			t.Errorf("Select(%v): expected %d, got %d", tc.distance, tc.want, got)
		}
	}
	if l.MaxViewDistance() != 300 {
		t.Errorf("expected max view distance 300, got %v", l.MaxViewDistance())
	}
	if !l.Level(1).ColliderCandidate || l.Level(0).ColliderCandidate {
		t.Error("expected only level 1 to be the collider candidate")
	}
}

func TestLadderSelectMonotonic(t *testing.T) {
	l := testLadder(t)
	prev := l.Select(0)
	if prev != 0 {
		t.Fatalf("distance 0 must select index 0, got %d", prev)
	}
	for d := float32(0); d <= 400; d += 0.5 {
		got := l.Select(d)
		if got < prev {
			t.Fatalf("selection decreased at distance %v: %d -> %d", d, prev, got)
		}
		prev = got
	}
}

func TestNewLadderRejectsBadInput(t *testing.T) {
	if _, err := NewLadder(nil, 0); !errors.Is(err, ErrEmptyLadder) {
		t.Errorf("expected ErrEmptyLadder, got %v", err)
	}
	_, err := NewLadder([]DetailLevel{{0, 100, false}, {1, 100, false}}, 0)
	if !errors.Is(err, ErrThresholdOrder) {
		t.Errorf("expected ErrThresholdOrder, got %v", err)
	}
	_, err = NewLadder([]DetailLevel{{0, 100, false}, {1, 50, false}}, 0)
	if !errors.Is(err, ErrThresholdOrder) {
		t.Errorf("expected ErrThresholdOrder for decreasing distances, got %v", err)
	}
	_, err = NewLadder([]DetailLevel{{0, 100, false}}, 1)
	if !errors.Is(err, ErrColliderIndex) {
		t.Errorf("expected ErrColliderIndex, got %v", err)
	}
	if _, err := NewLadder([]DetailLevel{{MaxLevelsOfDetail, 100, false}}, 0); err == nil {
		t.Error("expected error for out-of-range lod")
	}
}

func TestNewLadderCopiesLevels(t *testing.T) {
	levels := []DetailLevel{{0, 10, false}, {1, 20, false}}
	l, err := NewLadder(levels, 0)
	if err != nil {
		t.Fatal(err)
	}
	levels[0].VisibleDistance = 99
	if l.Level(0).VisibleDistance != 10 {
		t.Error("ladder shares the caller's slice")
	}
}
