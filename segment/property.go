package segment

import (
	"fmt"
	"math"
	"math/bits"
	"time"

	"github.com/acqlab/tdms/endian"
	"github.com/acqlab/tdms/errs"
	"github.com/acqlab/tdms/format"
	"github.com/acqlab/tdms/stream"
)

// Property is one named, typed metadata value attached to an object.
type Property struct {
	Name     string
	DataType format.DataType
	Value    any
}

// Properties is an ordered property list. Order is preserved from the file;
// lookups are linear, which is fine for the tens of properties real channels
// carry.
type Properties []Property

// Get returns the property with the given name.
func (ps Properties) Get(name string) (Property, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p, true
		}
	}

	return Property{}, false
}

// Has returns whether a property with the given name exists.
func (ps Properties) Has(name string) bool {
	_, ok := ps.Get(name)
	return ok
}

// GetString returns the named property's value when it is a string.
func (ps Properties) GetString(name string) (string, bool) {
	p, ok := ps.Get(name)
	if !ok {
		return "", false
	}

	s, ok := p.Value.(string)

	return s, ok
}

// GetFloat64 returns the named property's value widened to float64. All
// integer and float property types qualify.
func (ps Properties) GetFloat64(name string) (float64, bool) {
	p, ok := ps.Get(name)
	if !ok {
		return 0, false
	}

	switch v := p.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// GetUint32 returns the named property's value as uint32 when it is an
// integer in range. Writers are inconsistent about signedness for count-like
// properties, so signed types qualify when non-negative.
func (ps Properties) GetUint32(name string) (uint32, bool) {
	p, ok := ps.Get(name)
	if !ok {
		return 0, false
	}

	switch v := p.Value.(type) {
	case uint32:
		return v, true
	case uint16:
		return uint32(v), true
	case uint8:
		return uint32(v), true
	case uint64:
		if v > math.MaxUint32 {
			return 0, false
		}

		return uint32(v), true
	case int32:
		if v < 0 {
			return 0, false
		}

		return uint32(v), true
	case int64:
		if v < 0 || v > math.MaxUint32 {
			return 0, false
		}

		return uint32(v), true
	default:
		return 0, false
	}
}

// GetTime returns the named property's value when it is a timestamp.
func (ps Properties) GetTime(name string) (time.Time, bool) {
	p, ok := ps.Get(name)
	if !ok {
		return time.Time{}, false
	}

	ts, ok := p.Value.(time.Time)

	return ts, ok
}

// Upsert replaces the same-name property in place or appends a new one.
// Later segments override earlier values this way while keeping first-seen
// order.
func (ps *Properties) Upsert(p Property) {
	for i := range *ps {
		if (*ps)[i].Name == p.Name {
			(*ps)[i] = p
			return
		}
	}

	*ps = append(*ps, p)
}

// Seconds between the 1904-01-01 timestamp epoch and the Unix epoch.
const epochOffsetSeconds int64 = -2082844800

// tdmsTime converts an on-disk timestamp to time.Time in UTC. The fraction
// field counts 2^-64 seconds; the high word of fractions*1e9 is exactly the
// nanosecond part.
func tdmsTime(seconds int64, fractions uint64) time.Time {
	nanos, _ := bits.Mul64(fractions, uint64(time.Second))

	return time.Unix(seconds+epochOffsetSeconds, int64(nanos)).UTC()
}

// readTimestamp decodes a 16-byte timestamp. Little-endian files store the
// fraction word first, big-endian files store the seconds first.
func readTimestamp(r *stream.Reader) (time.Time, error) {
	if r.Engine() == endian.GetBigEndianEngine() {
		seconds, err := r.ReadInt64()
		if err != nil {
			return time.Time{}, err
		}
		fractions, err := r.ReadUint64()
		if err != nil {
			return time.Time{}, err
		}

		return tdmsTime(seconds, fractions), nil
	}

	fractions, err := r.ReadUint64()
	if err != nil {
		return time.Time{}, err
	}
	seconds, err := r.ReadInt64()
	if err != nil {
		return time.Time{}, err
	}

	return tdmsTime(seconds, fractions), nil
}

// readProperty decodes one name/type/value triple.
func readProperty(r *stream.Reader) (Property, error) {
	name, err := r.ReadString()
	if err != nil {
		return Property{}, fmt.Errorf("reading property name: %w", err)
	}

	rawType, err := r.ReadUint32()
	if err != nil {
		return Property{}, fmt.Errorf("reading property type: %w", err)
	}

	dataType := format.DataType(rawType)
	value, err := readPropertyValue(r, dataType)
	if err != nil {
		return Property{}, fmt.Errorf("property %q: %w", name, err)
	}

	return Property{Name: name, DataType: dataType, Value: value}, nil
}

// readPropertyValue decodes a single value of the given type. Extended
// floats and fixed-point values have no Go representation here and fail
// with ErrUnsupportedDataType rather than being skipped silently.
func readPropertyValue(r *stream.Reader, dataType format.DataType) (any, error) {
	switch dataType {
	case format.Void:
		return nil, nil
	case format.Int8:
		v, err := r.ReadUint8()
		return int8(v), err
	case format.Int16:
		v, err := r.ReadUint16()
		return int16(v), err
	case format.Int32:
		return r.ReadInt32()
	case format.Int64:
		return r.ReadInt64()
	case format.Uint8:
		return r.ReadUint8()
	case format.Uint16:
		return r.ReadUint16()
	case format.Uint32:
		return r.ReadUint32()
	case format.Uint64:
		return r.ReadUint64()
	case format.SingleFloat, format.SingleFloatWithUnit:
		return r.ReadFloat32()
	case format.DoubleFloat, format.DoubleFloatWithUnit:
		return r.ReadFloat64()
	case format.String:
		return r.ReadString()
	case format.Boolean:
		v, err := r.ReadUint8()
		return v != 0, err
	case format.TimeStamp:
		return readTimestamp(r)
	case format.ComplexSingleFloat:
		re, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		im, err := r.ReadFloat32()

		return complex(re, im), err
	case format.ComplexDoubleFloat:
		re, err := r.ReadFloat64()
		if err != nil {
			return nil, err
		}
		im, err := r.ReadFloat64()

		return complex(re, im), err
	default:
		return nil, fmt.Errorf("%w: property type %s", errs.ErrUnsupportedDataType, dataType)
	}
}
