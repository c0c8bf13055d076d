package subband

// noiseImage returns a deterministic textured test image: a gradient with
// pseudo-random noise, so every subband carries energy.
func noiseImage(rows, cols int) *Image {
	img := NewImage(rows, cols)
	seed := uint32(2024)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			seed = seed*1664525 + 1013904223
			v := float64((r*3+c*5)%128) + float64(seed>>25)
			img.Set(r, c, v)
		}
	}
	return img
}

func constantImage(rows, cols int, v float64) *Image {
	img := NewImage(rows, cols)
	for i := range img.Data {
		img.Data[i] = v
	}
	return img
}
