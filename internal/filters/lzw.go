package filters

import (
	"bytes"
	"compress/lzw"
	"fmt"
	"io"

	tifflzw "golang.org/x/image/tiff/lzw"
)

// LZWDecode decompresses LZW data. With the default /EarlyChange 1 the code
// width grows one code early, which is the TIFF variant x/image implements.
func LZWDecode(data []byte, params Params) ([]byte, error) {
	params = params.Normalize()

	var rc io.ReadCloser
	if params.EarlyChange == 0 {
		rc = lzw.NewReader(bytes.NewReader(data), lzw.MSB, 8)
	} else {
		rc = tifflzw.NewReader(bytes.NewReader(data), tifflzw.MSB, 8)
	}
	defer rc.Close()

	out, err := io.ReadAll(rc)
	if err != nil && len(out) == 0 {
		return nil, fmt.Errorf("lzw: %w", err)
	}
	return applyPredictor(out, params)
}
