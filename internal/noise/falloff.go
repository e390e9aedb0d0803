package noise

import "math"

// Shape of the falloff ramp: a controls steepness, b where it kicks in.
const (
	falloffA = 3.0
	falloffB = 2.2
)

// Falloff returns a size x size row-major mask that is close to 0 in the
// middle and rises to 1 at the border. Subtracting it from a normalized
// noise map produces island-like terrain.
func Falloff(size int) []float32 {
	if size <= 0 {
		return nil
	}
	out := make([]float32, size*size)
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			x := float64(i)/float64(size)*2 - 1
			y := float64(j)/float64(size)*2 - 1
			v := math.Max(math.Abs(x), math.Abs(y))
			out[j*size+i] = float32(falloffCurve(v))
		}
	}
	return out
}

func falloffCurve(v float64) float64 {
	pa := math.Pow(v, falloffA)
	return pa / (pa + math.Pow(falloffB-falloffB*v, falloffA))
}
