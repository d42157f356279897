package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// FlateDecode inflates zlib data and undoes any predictor. A stream that is
// truncated or has a bad checksum still yields whatever was inflated before
// the error, since many producers write slightly broken streams.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("flate header: %w", err)
	}
	defer zr.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, zr); err != nil && buf.Len() == 0 {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	return applyPredictor(buf.Bytes(), params)
}

// applyPredictor reverses TIFF (2) and PNG (10-15) prediction.
func applyPredictor(data []byte, params Params) ([]byte, error) {
	params = params.Normalize()
	switch {
	case params.Predictor == 1:
		return data, nil
	case params.Predictor == 2:
		return tiffPredictor(data, params)
	case params.Predictor >= 10 && params.Predictor <= 15:
		return pngPredictor(data, params)
	}
	return nil, fmt.Errorf("unsupported predictor %d", params.Predictor)
}

func tiffPredictor(data []byte, params Params) ([]byte, error) {
	if params.BitsPerComponent != 8 {
		return nil, fmt.Errorf("TIFF predictor with %d bits per component", params.BitsPerComponent)
	}
	rowSize := params.Columns * params.Colors
	out := make([]byte, len(data))
	copy(out, data)
	for start := 0; start < len(out); start += rowSize {
		end := start + rowSize
		if end > len(out) {
			end = len(out)
		}
		for i := start + params.Colors; i < end; i++ {
			out[i] += out[i-params.Colors]
		}
	}
	return out, nil
}

func pngPredictor(data []byte, params Params) ([]byte, error) {
	bpp := (params.Colors*params.BitsPerComponent + 7) / 8
	rowSize := (params.Columns*params.Colors*params.BitsPerComponent + 7) / 8
	stride := rowSize + 1

	prev := make([]byte, rowSize)
	out := make([]byte, 0, len(data)/stride*rowSize)
	for start := 0; start+stride <= len(data); start += stride {
		tag := data[start]
		row := make([]byte, rowSize)
		copy(row, data[start+1:start+stride])

		for i := range row {
			var left, upLeft byte
			if i >= bpp {
				left = row[i-bpp]
				upLeft = prev[i-bpp]
			}
			up := prev[i]
			switch tag {
			case 0:
			case 1:
				row[i] += left
			case 2:
				row[i] += up
			case 3:
				row[i] += byte((int(left) + int(up)) / 2)
			case 4:
				row[i] += paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("invalid PNG filter type %d", tag)
			}
		}
		out = append(out, row...)
		prev = row
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
