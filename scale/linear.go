package scale

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/acqlab/tdms/segment"
)

// Linear maps values through slope*x + intercept.
type Linear struct {
	Slope     float64
	Intercept float64

	source uint32
}

func readLinear(props segment.Properties, index uint32) (Linear, error) {
	prefix := fmt.Sprintf("NI_Scale[%d]_Linear", index)

	slope, err := requireFloat(props, prefix+"_Slope")
	if err != nil {
		return Linear{}, err
	}
	intercept, err := requireFloat(props, prefix+"_Y_Intercept")
	if err != nil {
		return Linear{}, err
	}

	return Linear{Slope: slope, Intercept: intercept, source: inputSource(props, prefix)}, nil
}

// InputSource identifies the scale this step reads from.
func (s Linear) InputSource() uint32 {
	return s.source
}

// Apply returns slope*input + intercept elementwise.
func (s Linear) Apply(input []float64) []float64 {
	out := make([]float64, len(input))
	copy(out, input)
	floats.Scale(s.Slope, out)
	floats.AddConst(s.Intercept, out)

	return out
}

func (s Linear) String() string {
	return fmt.Sprintf("Linear(slope=%g, intercept=%g)", s.Slope, s.Intercept)
}
