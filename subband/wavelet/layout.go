package wavelet

// BandDimensions returns the subband dimensions of a one-level decomposition
// of a rows x cols image. Odd sizes round up because the last row or column
// is replicated before filtering.
func BandDimensions(rows, cols int) (bandRows, bandCols int) {
	return splitLength(rows), splitLength(cols)
}

func splitLength(n int) int {
	return (n + 1) / 2
}

// padEven returns p extended to even dimensions by replicating its last row
// and column. Even-sized planes are returned as is.
func padEven(p *Plane) *Plane {
	rows, cols := 2*splitLength(p.Rows), 2*splitLength(p.Cols)
	if rows == p.Rows && cols == p.Cols {
		return p
	}

	out := NewPlane(rows, cols)
	for r := 0; r < rows; r++ {
		src := p.Row(min(r, p.Rows-1))
		dst := out.Row(r)
		copy(dst, src)
		for c := p.Cols; c < cols; c++ {
			dst[c] = src[p.Cols-1]
		}
	}
	return out
}

// crop returns the top-left rows x cols window of p
func crop(p *Plane, rows, cols int) *Plane {
	if p.Rows == rows && p.Cols == cols {
		return p
	}
	out := NewPlane(rows, cols)
	for r := 0; r < rows; r++ {
		copy(out.Row(r), p.Row(r)[:cols])
	}
	return out
}
