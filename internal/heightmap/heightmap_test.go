package heightmap

import (
	"sync"
	"testing"

	"endless-terrain/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

func testSettings(t *testing.T) Settings {
	t.Helper()
	curve, err := NewCurve(Key{0, 0}, Key{0.4, 0.05}, Key{0.7, 0.5}, Key{1, 1})
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	return Settings{
		Noise: noise.Config{
			Seed:        7,
			Scale:       40,
			Octaves:     4,
			Persistence: 0.5,
			Lacunarity:  2,
			Normalize:   noise.NormalizeGlobal,
		},
		Curve:      curve,
		Multiplier: 30,
	}
}

func TestNewCurveRejectsBadKeys(t *testing.T) {
	if _, err := NewCurve(); err == nil {
		t.Error("expected error for empty curve")
	}
	if _, err := NewCurve(Key{1, 0}, Key{0, 1}); err == nil {
		t.Error("expected error for unsorted keys")
	}
	if _, err := NewCurve(Key{0.5, 0}, Key{0.5, 1}); err == nil {
		t.Error("expected error for duplicate key times")
	}
}

func TestCurveEvaluate(t *testing.T) {
	c, err := NewCurve(Key{0, 0}, Key{0.5, 0.1}, Key{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		t, want float32
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.05},
		{0.5, 0.1},
		{0.75, 0.55},
		{1, 1},
		{3, 1},
	}
	for _, tc := range tests {
		if got := c.Evaluate(tc.t); !mgl32.FloatEqualThreshold(got, tc.want, 1e-6) {
			t.Errorf("Evaluate(%v): expected %v, got %v", tc.t, tc.want, got)
		}
	}
}

func TestCurveCursorDoesNotChangeResults(t *testing.T) {
	c, _ := NewCurve(Key{0, 0}, Key{0.2, 0.3}, Key{0.4, 0.1}, Key{0.9, 0.8}, Key{1, 1})
	inputs := []float32{0.95, 0.1, 0.5, 0.3, 0.05, 0.99, 0.41, 0.2}
	for _, in := range inputs {
		want := c.Clone().Evaluate(in)
		if got := c.Evaluate(in); got != want {
			t.Errorf("Evaluate(%v) with warm cursor: expected %v, got %v", in, want, got)
		}
	}
}

func TestBuildAppliesCurveAndMultiplier(t *testing.T) {
	s := testSettings(t)
	b := NewBuilder(s)
	centre := mgl32.Vec2{96, -48}
	field := b.Build(21, 21, centre)

	cfg := s.Noise
	cfg.Offset = cfg.Offset.Add(mgl64.Vec2{96, -48})
	raw := noise.Generate(21, 21, cfg)
	curve := s.Curve.Clone()
	for i, v := range raw {
		want := s.Multiplier * curve.Evaluate(v)
		if got := field.At(i%21, i/21); got != want {
			t.Fatalf("cell %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestBuildTracksExtrema(t *testing.T) {
	field := NewBuilder(testSettings(t)).Build(30, 30, mgl32.Vec2{})
	values := field.Values()
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if field.MinValue() != lo || field.MaxValue() != hi {
		t.Errorf("expected extrema (%v,%v), got (%v,%v)", lo, hi, field.MinValue(), field.MaxValue())
	}
}

func TestBuildDeterministic(t *testing.T) {
	b := NewBuilder(testSettings(t))
	a := b.Build(17, 17, mgl32.Vec2{240, 240}).Values()
	c := b.Build(17, 17, mgl32.Vec2{240, 240}).Values()
	for i := range a {
		if a[i] != c[i] {
			t.Fatalf("cell %d differs between builds: %v vs %v", i, a[i], c[i])
		}
	}
}

// TestConcurrentBuildsShareSettings runs many builds against one shared
// curve; run with -race to catch shared evaluation state.
func TestConcurrentBuildsShareSettings(t *testing.T) {
	b := NewBuilder(testSettings(t))
	want := b.Build(19, 19, mgl32.Vec2{48, 0}).Values()

	var wg sync.WaitGroup
	results := make([][]float32, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = b.Build(19, 19, mgl32.Vec2{48, 0}).Values()
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("goroutine %d cell %d: expected %v, got %v", i, j, want[j], got[j])
			}
		}
	}
}

func TestFalloffLowersBorder(t *testing.T) {
	s := testSettings(t)
	s.Curve = Linear()
	s.Multiplier = 1
	s.Noise.Normalize = noise.NormalizeLocal
	plain := NewBuilder(s).Build(24, 24, mgl32.Vec2{})

	s.UseFalloff = true
	island := NewBuilder(s).Build(24, 24, mgl32.Vec2{})

	if island.At(0, 0) != 0 {
		t.Errorf("corner should be sea level with falloff, got %v", island.At(0, 0))
	}
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			if island.At(x, y) > plain.At(x, y) {
				t.Fatalf("falloff raised cell (%d,%d): %v > %v", x, y, island.At(x, y), plain.At(x, y))
			}
		}
	}
}

func TestSettingsHeightBands(t *testing.T) {
	s := testSettings(t)
	if got := s.MinHeight(); got != 0 {
		t.Errorf("expected min height 0, got %v", got)
	}
	if got := s.MaxHeight(); got != 30 {
		t.Errorf("expected max height 30, got %v", got)
	}
	s.Curve = nil
	s.Multiplier = 2
	if s.MaxHeight() != 2 {
		t.Errorf("nil curve should act as identity, got %v", s.MaxHeight())
	}
}
