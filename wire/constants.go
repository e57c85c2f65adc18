package wire

// AMQP 1.0 type codes. The high nibble selects the framing class; the low
// nibble distinguishes types within a class.
const (
	CodeDescribed byte = 0x00 // described-type constructor

	CodeNull      byte = 0x40
	CodeBoolTrue  byte = 0x41
	CodeBoolFalse byte = 0x42
	CodeUint0     byte = 0x43
	CodeUlong0    byte = 0x44
	CodeList0     byte = 0x45

	CodeUbyte      byte = 0x50
	CodeByte       byte = 0x51
	CodeSmallUint  byte = 0x52
	CodeSmallUlong byte = 0x53
	CodeSmallInt   byte = 0x54
	CodeSmallLong  byte = 0x55
	CodeBool       byte = 0x56

	CodeUshort byte = 0x60
	CodeShort  byte = 0x61

	CodeUint  byte = 0x70
	CodeInt   byte = 0x71
	CodeFloat byte = 0x72
	CodeChar  byte = 0x73

	CodeUlong     byte = 0x80
	CodeLong      byte = 0x81
	CodeDouble    byte = 0x82
	CodeTimestamp byte = 0x83

	CodeUUID byte = 0x98

	CodeVbin8 byte = 0xa0
	CodeStr8  byte = 0xa1
	CodeSym8  byte = 0xa3

	CodeVbin32 byte = 0xb0
	CodeStr32  byte = 0xb1
	CodeSym32  byte = 0xb3

	CodeList8 byte = 0xc0
	CodeMap8  byte = 0xc1

	CodeList32 byte = 0xd0
	CodeMap32  byte = 0xd1

	CodeArray8  byte = 0xe0
	CodeArray32 byte = 0xf0
)

// framing classes, keyed by the high nibble of the type code
type class int

const (
	classInvalid   class = iota
	classDescribed       // two nested values follow the constructor byte
	classFixed           // total length is a constant including the code byte
	classVar8            // 1-byte unsigned size field follows the code byte
	classVar32           // 4-byte big-endian size field follows the code byte
)

// classOf classifies a type code. For classFixed the second return is the
// total encoded length including the code byte; otherwise it is zero.
func classOf(code byte) (class, int) {
	switch code >> 4 {
	case 0x0:
		return classDescribed, 0
	case 0x4:
		return classFixed, 1
	case 0x5:
		return classFixed, 2
	case 0x6:
		return classFixed, 3
	case 0x7:
		return classFixed, 5
	case 0x8:
		return classFixed, 9
	case 0x9:
		return classFixed, 17
	case 0xa, 0xc, 0xe:
		return classVar8, 0
	case 0xb, 0xd, 0xf:
		return classVar32, 0
	default:
		return classInvalid, 0
	}
}
