package filters

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned for filters that produce image data rather than
// bytes a content stream could contain, and for encrypted streams.
var ErrUnsupported = errors.New("unsupported filter")

// Decode applies the named filter. Both full and abbreviated names are
// accepted.
func Decode(name string, data []byte, params Params) ([]byte, error) {
	params = params.Normalize()
	switch name {
	case "FlateDecode", "Fl":
		return FlateDecode(data, params)
	case "LZWDecode", "LZW":
		return LZWDecode(data, params)
	case "ASCIIHexDecode", "AHx":
		return ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		return ASCII85Decode(data)
	case "RunLengthDecode", "RL":
		return RunLengthDecode(data)
	case "CCITTFaxDecode", "CCF":
		return CCITTFaxDecode(data, params)
	case "DCTDecode", "DCT", "JPXDecode", "JBIG2Decode", "Crypt":
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	return nil, fmt.Errorf("%w: unknown filter %s", ErrUnsupported, name)
}
