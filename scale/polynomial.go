package scale

import (
	"fmt"

	"github.com/acqlab/tdms/segment"
)

// Polynomial maps values through a polynomial with coefficients in
// ascending-power order: c[0] + c[1]*x + c[2]*x^2 + ...
type Polynomial struct {
	Coefficients []float64

	source uint32
}

func readPolynomial(props segment.Properties, index uint32) (Polynomial, error) {
	prefix := fmt.Sprintf("NI_Scale[%d]_Polynomial", index)

	count, err := requireUint32(props, prefix+"_Coefficients_Size")
	if err != nil {
		return Polynomial{}, err
	}

	coeffs := make([]float64, count)
	for j := uint32(0); j < count; j++ {
		c, err := requireFloat(props, fmt.Sprintf("%s_Coefficients[%d]", prefix, j))
		if err != nil {
			return Polynomial{}, err
		}
		coeffs[j] = c
	}

	return Polynomial{Coefficients: coeffs, source: inputSource(props, prefix)}, nil
}

// InputSource identifies the scale this step reads from.
func (s Polynomial) InputSource() uint32 {
	return s.source
}

// Apply evaluates the polynomial elementwise by Horner's rule.
func (s Polynomial) Apply(input []float64) []float64 {
	out := make([]float64, len(input))
	for i, x := range input {
		var acc float64
		for j := len(s.Coefficients) - 1; j >= 0; j-- {
			acc = acc*x + s.Coefficients[j]
		}
		out[i] = acc
	}

	return out
}

func (s Polynomial) String() string {
	return fmt.Sprintf("Polynomial(degree=%d)", max(len(s.Coefficients)-1, 0))
}
