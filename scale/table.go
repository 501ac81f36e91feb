package scale

import (
	"fmt"

	"gonum.org/v1/gonum/interp"

	"github.com/acqlab/tdms/errs"
	"github.com/acqlab/tdms/segment"
)

// Table maps values through a lookup table by piecewise-linear
// interpolation between pre-scaled breakpoints. Values outside the table
// clamp to its end values.
type Table struct {
	preScaled []float64
	scaled    []float64
	predictor interp.PiecewiseLinear

	source uint32
}

func readTable(props segment.Properties, index uint32) (Table, error) {
	prefix := fmt.Sprintf("NI_Scale[%d]_Table", index)

	scaled, err := readValueList(props, prefix+"_Scaled_Values")
	if err != nil {
		return Table{}, err
	}
	preScaled, err := readValueList(props, prefix+"_Pre_Scaled_Values")
	if err != nil {
		return Table{}, err
	}

	if len(scaled) != len(preScaled) {
		return Table{}, fmt.Errorf("%w: table has %d pre-scaled but %d scaled values",
			errs.ErrInvalidScale, len(preScaled), len(scaled))
	}
	if len(preScaled) < 2 {
		return Table{}, fmt.Errorf("%w: table needs at least two breakpoints", errs.ErrInvalidScale)
	}
	for j := 1; j < len(preScaled); j++ {
		if preScaled[j] <= preScaled[j-1] {
			return Table{}, fmt.Errorf("%w: table pre-scaled values not strictly increasing", errs.ErrInvalidScale)
		}
	}

	t := Table{preScaled: preScaled, scaled: scaled, source: inputSource(props, prefix)}
	if err := t.predictor.Fit(preScaled, scaled); err != nil {
		return Table{}, fmt.Errorf("%w: %v", errs.ErrInvalidScale, err)
	}

	return t, nil
}

// readValueList reads an indexed property array with its _Size count.
func readValueList(props segment.Properties, prefix string) ([]float64, error) {
	count, err := requireUint32(props, prefix+"_Size")
	if err != nil {
		return nil, err
	}

	vals := make([]float64, count)
	for j := uint32(0); j < count; j++ {
		v, err := requireFloat(props, fmt.Sprintf("%s[%d]", prefix, j))
		if err != nil {
			return nil, err
		}
		vals[j] = v
	}

	return vals, nil
}

// InputSource identifies the scale this step reads from.
func (s Table) InputSource() uint32 {
	return s.source
}

// Apply interpolates each value through the table.
func (s Table) Apply(input []float64) []float64 {
	out := make([]float64, len(input))
	for i, x := range input {
		out[i] = s.predictor.Predict(x)
	}

	return out
}

func (s Table) String() string {
	return fmt.Sprintf("Table(%d breakpoints)", len(s.preScaled))
}
