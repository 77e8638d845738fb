package spectral

import (
	"fmt"
	"math"
)

const crusherFloorDB = -120

// Crusher is a kernel that quantizes bin magnitudes on a dB grid and keeps
// only every stride-th bin, holding its value over the skipped ones.
type Crusher struct {
	stepDB float64
	stride int
}

// NewCrusher returns a Crusher with levels magnitude steps spanning 120 dB
// and the given bin stride.
func NewCrusher(levels, stride int) (*Crusher, error) {
	c := &Crusher{}

	err := c.SetLevels(levels)
	if err != nil {
		return nil, err
	}

	err = c.SetStride(stride)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// SetLevels sets the number of magnitude steps, at least 2.
func (c *Crusher) SetLevels(levels int) error {
	if levels < 2 {
		return fmt.Errorf("spectral: crusher levels must be >= 2: %d", levels)
	}
	c.stepDB = -crusherFloorDB / float64(levels-1)
	return nil
}

// SetStride sets the bin decimation factor; 1 keeps every bin.
func (c *Crusher) SetStride(stride int) error {
	if stride < 1 {
		return fmt.Errorf("spectral: crusher stride must be >= 1: %d", stride)
	}
	c.stride = stride
	return nil
}

// Stride returns the bin decimation factor.
func (c *Crusher) Stride() int { return c.stride }

// ProcessFrame implements FrameProcessor.
func (c *Crusher) ProcessFrame(bins []complex128) {
	const dbPerNeper = 20 / math.Ln10

	var held float64
	for k, v := range bins {
		re, im := real(v), imag(v)
		mag := mathSqrt(re*re + im*im)
		if k%c.stride == 0 {
			held = 0
			if mag > 0 {
				db := max(dbPerNeper*mathLog(mag), crusherFloorDB)
				db = math.Round(db/c.stepDB) * c.stepDB
				if db > crusherFloorDB {
					held = mathExp(db / dbPerNeper)
				}
			}
		}
		if mag == 0 {
			bins[k] = complex(held, 0)
			continue
		}
		g := held / mag
		bins[k] = complex(re*g, im*g)
	}
}
