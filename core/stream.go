package core

import (
	"fmt"

	"github.com/tsawler/pdftext/internal/filters"
)

// Decode runs the stream data through its /Filter chain. A stream with no
// filter returns its raw data.
func (s *Stream) Decode() ([]byte, error) {
	names, err := filterNames(s.Dict.Get("Filter"))
	if err != nil {
		return nil, err
	}

	data := s.Data
	parms := s.Dict.Get("DecodeParms")
	for i, name := range names {
		var pd Dict
		switch v := parms.(type) {
		case Dict:
			pd = v
		case Array:
			pd, _ = v.Get(i).(Dict)
		}
		data, err = filters.Decode(name, data, decodeParams(pd))
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", name, err)
		}
	}
	return data, nil
}

func filterNames(obj Object) ([]string, error) {
	switch v := obj.(type) {
	case nil:
		return nil, nil
	case Name:
		return []string{string(v)}, nil
	case Array:
		names := make([]string, 0, len(v))
		for _, item := range v {
			n, ok := item.(Name)
			if !ok {
				return nil, fmt.Errorf("filter array holds %s, not a name", item.Type())
			}
			names = append(names, string(n))
		}
		return names, nil
	}
	return nil, fmt.Errorf("invalid /Filter of type %s", obj.Type())
}

func decodeParams(d Dict) filters.Params {
	var p filters.Params
	if d == nil {
		return p
	}
	intParam := func(key string) int {
		n, _ := d.GetInt(key)
		return int(n)
	}
	p.Predictor = intParam("Predictor")
	p.Colors = intParam("Colors")
	p.BitsPerComponent = intParam("BitsPerComponent")
	p.Columns = intParam("Columns")
	p.K = intParam("K")
	p.Rows = intParam("Rows")
	if ec, ok := d.GetInt("EarlyChange"); ok {
		p.SetEarlyChange(int(ec))
	}
	if b, ok := d.Get("BlackIs1").(Bool); ok {
		p.BlackIs1 = bool(b)
	}
	return p
}
