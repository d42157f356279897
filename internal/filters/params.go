package filters

// Params holds the decode parameters a filter may use. Zero values are
// replaced by the PDF defaults in Normalize.
type Params struct {
	Predictor        int
	Colors           int
	BitsPerComponent int
	Columns          int
	EarlyChange      int
	K                int
	Rows             int
	BlackIs1         bool

	hasEarlyChange bool
}

// SetEarlyChange records an explicit /EarlyChange value.
func (p *Params) SetEarlyChange(v int) {
	p.EarlyChange = v
	p.hasEarlyChange = true
}

// Normalize returns a copy with defaults applied.
func (p Params) Normalize() Params {
	if p.Predictor == 0 {
		p.Predictor = 1
	}
	if p.Colors == 0 {
		p.Colors = 1
	}
	if p.BitsPerComponent == 0 {
		p.BitsPerComponent = 8
	}
	if p.Columns == 0 {
		p.Columns = 1
	}
	if !p.hasEarlyChange {
		p.EarlyChange = 1
		p.hasEarlyChange = true
	}
	return p
}
