package scale

import (
	"fmt"

	"github.com/acqlab/tdms/errs"
	"github.com/acqlab/tdms/segment"
)

// RawDataInputSource in an input-source property marks a scale that reads
// the channel's raw data rather than another scale's output. It is also the
// default when the property is absent.
const RawDataInputSource uint32 = 0xFFFFFFFF

// Scaling is one step of a scaling chain. Implementations are value types
// built by FromProperties and validated there; Apply itself cannot fail.
type Scaling interface {
	// InputSource identifies where the step reads from: the index of an
	// earlier scale, or RawDataInputSource for the channel's raw data.
	InputSource() uint32
	// Apply transforms one column of samples into a new slice.
	Apply(input []float64) []float64

	fmt.Stringer
}

// Chain is an ordered list of scaling steps reconstructed from a channel's
// NI_Scale properties. The last step produces the channel's final values;
// earlier steps are evaluated on demand when a step references them.
type Chain struct {
	Scales []Scaling
}

// FromProperties builds the scaling chain described by a channel's
// properties.
//
// It returns (nil, nil) when the channel has no scaling to apply: no
// NI_Number_Of_Scales property, a zero scale count, or an NI_Scaling_Status
// of "scaled", which marks data already holding final values.
//
// Returns:
//   - *Chain: The chain, or nil when raw values are already final
//   - error: ErrUnknownScaleType for a scale type this reader does not
//     implement, ErrInvalidScale for missing or inconsistent scale
//     properties
func FromProperties(props segment.Properties) (*Chain, error) {
	if status, ok := props.GetString("NI_Scaling_Status"); ok && status == "scaled" {
		return nil, nil
	}

	count, ok := props.GetUint32("NI_Number_Of_Scales")
	if !ok || count == 0 {
		return nil, nil
	}

	scales := make([]Scaling, 0, count)
	for i := uint32(0); i < count; i++ {
		s, err := readScale(props, i)
		if err != nil {
			return nil, err
		}
		scales = append(scales, s)
	}

	return &Chain{Scales: scales}, nil
}

func readScale(props segment.Properties, index uint32) (Scaling, error) {
	typeName, ok := props.GetString(fmt.Sprintf("NI_Scale[%d]_Scale_Type", index))
	if !ok {
		return nil, fmt.Errorf("%w: scale %d has no type", errs.ErrInvalidScale, index)
	}

	switch typeName {
	case "Linear":
		return readLinear(props, index)
	case "Polynomial":
		return readPolynomial(props, index)
	case "Table":
		return readTable(props, index)
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownScaleType, typeName)
	}
}

// Scale runs the chain over the channel's raw samples and returns the final
// scaled values. raw is never modified.
func (c *Chain) Scale(raw []float64) ([]float64, error) {
	if len(c.Scales) == 0 {
		return nil, fmt.Errorf("%w: empty chain", errs.ErrInvalidScale)
	}

	memo := make(map[int][]float64, len(c.Scales))

	return c.eval(len(c.Scales)-1, raw, memo)
}

// eval computes scale i's output, resolving its input first. Input sources
// must reference strictly earlier scales, so the recursion always
// terminates.
func (c *Chain) eval(i int, raw []float64, memo map[int][]float64) ([]float64, error) {
	if out, ok := memo[i]; ok {
		return out, nil
	}

	scale := c.Scales[i]

	var input []float64
	if src := scale.InputSource(); src == RawDataInputSource {
		input = raw
	} else {
		if int(src) >= i {
			return nil, fmt.Errorf("%w: scale %d reads from scale %d", errs.ErrInvalidScale, i, src)
		}
		var err error
		input, err = c.eval(int(src), raw, memo)
		if err != nil {
			return nil, err
		}
	}

	out := scale.Apply(input)
	memo[i] = out

	return out, nil
}

// inputSource reads a scale's input-source property, defaulting to raw data.
func inputSource(props segment.Properties, prefix string) uint32 {
	src, ok := props.GetUint32(prefix + "_Input_Source")
	if !ok {
		return RawDataInputSource
	}

	return src
}

// requireFloat reads a mandatory numeric scale property.
func requireFloat(props segment.Properties, name string) (float64, error) {
	v, ok := props.GetFloat64(name)
	if !ok {
		return 0, fmt.Errorf("%w: missing property %q", errs.ErrInvalidScale, name)
	}

	return v, nil
}

// requireUint32 reads a mandatory count scale property.
func requireUint32(props segment.Properties, name string) (uint32, error) {
	v, ok := props.GetUint32(name)
	if !ok {
		return 0, fmt.Errorf("%w: missing property %q", errs.ErrInvalidScale, name)
	}

	return v, nil
}
