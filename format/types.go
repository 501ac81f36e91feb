// Package format defines the TDMS data type codes shared by metadata,
// properties and raw data indexes.
package format

// DataType is the 32-bit type code (tdsType) used throughout TDMS metadata:
// in object raw data indexes and in property values.
type DataType uint32

const (
	Void          DataType = 0x00 // Void represents no data.
	Int8          DataType = 0x01 // Int8 represents a signed 8-bit integer.
	Int16         DataType = 0x02 // Int16 represents a signed 16-bit integer.
	Int32         DataType = 0x03 // Int32 represents a signed 32-bit integer.
	Int64         DataType = 0x04 // Int64 represents a signed 64-bit integer.
	Uint8         DataType = 0x05 // Uint8 represents an unsigned 8-bit integer.
	Uint16        DataType = 0x06 // Uint16 represents an unsigned 16-bit integer.
	Uint32        DataType = 0x07 // Uint32 represents an unsigned 32-bit integer.
	Uint64        DataType = 0x08 // Uint64 represents an unsigned 64-bit integer.
	SingleFloat   DataType = 0x09 // SingleFloat represents an IEEE 754 32-bit float.
	DoubleFloat   DataType = 0x0A // DoubleFloat represents an IEEE 754 64-bit float.
	ExtendedFloat DataType = 0x0B // ExtendedFloat represents an extended-precision float.

	SingleFloatWithUnit   DataType = 0x19 // SingleFloat with an attached unit property.
	DoubleFloatWithUnit   DataType = 0x1A // DoubleFloat with an attached unit property.
	ExtendedFloatWithUnit DataType = 0x1B // ExtendedFloat with an attached unit property.

	String     DataType = 0x20 // String represents a length-prefixed UTF-8 string.
	Boolean    DataType = 0x21 // Boolean represents a single-byte boolean.
	TimeStamp  DataType = 0x44 // TimeStamp represents a 128-bit NI timestamp.
	FixedPoint DataType = 0x4F // FixedPoint represents NI fixed-point data.

	ComplexSingleFloat DataType = 0x08000C // Complex number of two 32-bit floats.
	ComplexDoubleFloat DataType = 0x10000D // Complex number of two 64-bit floats.

	// DAQmxRawData marks an object whose raw data is described by DAQmx
	// scaler metadata instead of one of the plain types above.
	DAQmxRawData DataType = 0xFFFFFFFF
)

// Size returns the fixed on-disk byte width of a value of this type, or 0 for
// types without a fixed width (strings, fixed point, extended floats, DAQmx
// raw data) and for unknown codes.
func (t DataType) Size() int {
	switch t {
	case Void:
		return 0
	case Int8, Uint8, Boolean:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, SingleFloat, SingleFloatWithUnit:
		return 4
	case Int64, Uint64, DoubleFloat, DoubleFloatWithUnit, ComplexSingleFloat:
		return 8
	case TimeStamp, ComplexDoubleFloat:
		return 16
	default:
		return 0
	}
}

// IsValid reports whether the code is one of the known TDMS type codes.
func (t DataType) IsValid() bool {
	switch t {
	case Void, Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64,
		SingleFloat, DoubleFloat, ExtendedFloat,
		SingleFloatWithUnit, DoubleFloatWithUnit, ExtendedFloatWithUnit,
		String, Boolean, TimeStamp, FixedPoint,
		ComplexSingleFloat, ComplexDoubleFloat, DAQmxRawData:
		return true
	default:
		return false
	}
}

func (t DataType) String() string {
	switch t {
	case Void:
		return "Void"
	case Int8:
		return "Int8"
	case Int16:
		return "Int16"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case Uint8:
		return "Uint8"
	case Uint16:
		return "Uint16"
	case Uint32:
		return "Uint32"
	case Uint64:
		return "Uint64"
	case SingleFloat:
		return "SingleFloat"
	case DoubleFloat:
		return "DoubleFloat"
	case ExtendedFloat:
		return "ExtendedFloat"
	case SingleFloatWithUnit:
		return "SingleFloatWithUnit"
	case DoubleFloatWithUnit:
		return "DoubleFloatWithUnit"
	case ExtendedFloatWithUnit:
		return "ExtendedFloatWithUnit"
	case String:
		return "String"
	case Boolean:
		return "Boolean"
	case TimeStamp:
		return "TimeStamp"
	case FixedPoint:
		return "FixedPoint"
	case ComplexSingleFloat:
		return "ComplexSingleFloat"
	case ComplexDoubleFloat:
		return "ComplexDoubleFloat"
	case DAQmxRawData:
		return "DAQmxRawData"
	default:
		return "Unknown"
	}
}
