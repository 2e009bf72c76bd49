package noise

import "math"

// Fbm sums octaves octaves of t starting at baseFrequency, each
// successive octave at lacunarity times the prior frequency and gain
// persistence times the prior weight, normalized so the result stays in
// approximately [-1, 1].
func (t *TorusNoise) Fbm(xM, yM, baseFrequency float64, octaves int, lacunarity, persistence float64) float64 {
	var sum, norm, amplitude, frequency float64 = 0, 0, 1, baseFrequency
	for i := 0; i < octaves; i++ {
		sum += amplitude * t.sampleAtFrequency(xM, yM, frequency)
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// FbmDefault calls Fbm with the reference lacunarity (2) and
// persistence (0.5).
func (t *TorusNoise) FbmDefault(xM, yM, baseFrequency float64, octaves int) float64 {
	return t.Fbm(xM, yM, baseFrequency, octaves, 2, 0.5)
}

// Ridged sums octaves octaves the same way Fbm does, but replaces each
// octave sample s with (1-|s|)^2 before weighting, producing sharp
// ridge-like crests instead of smooth rolling hills.
func (t *TorusNoise) Ridged(xM, yM, baseFrequency float64, octaves int, lacunarity, persistence float64) float64 {
	var sum, norm, amplitude, frequency float64 = 0, 0, 1, baseFrequency
	for i := 0; i < octaves; i++ {
		s := t.sampleAtFrequency(xM, yM, frequency)
		ridge := math.Pow(1-math.Abs(s), 2)
		sum += amplitude * ridge
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// RidgedDefault calls Ridged with the reference lacunarity (2) and
// persistence (0.5).
func (t *TorusNoise) RidgedDefault(xM, yM, baseFrequency float64, octaves int) float64 {
	return t.Ridged(xM, yM, baseFrequency, octaves, 2, 0.5)
}
