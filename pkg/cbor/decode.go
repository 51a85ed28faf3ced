package cbor

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// DecodeError reports malformed or non-canonical input.
type DecodeError struct {
	Offset int
	Msg    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cbor: decode at offset %d: %s", e.Offset, e.Msg)
}

// Decode parses a single canonical CBOR item and returns its logical
// value: int64 (uint64 above the int64 range), float64, bool, string,
// []byte, []any, map[string]any, or nil. Trailing bytes and indefinite
// lengths are rejected.
func Decode(data []byte) (any, error) {
	d := &decoder{data: data}
	v, err := d.value()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.data) {
		return nil, d.errorf("%d trailing bytes after item", len(d.data)-d.pos)
	}
	return v, nil
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) errorf(format string, args ...any) error {
	return &DecodeError{Offset: d.pos, Msg: fmt.Sprintf(format, args...)}
}

func (d *decoder) readByte() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, d.errorf("unexpected end of input")
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) readN(n uint64) ([]byte, error) {
	if n > uint64(len(d.data)-d.pos) {
		return nil, d.errorf("length %d exceeds remaining input", n)
	}
	b := d.data[d.pos : d.pos+int(n)]
	d.pos += int(n)
	return b, nil
}

// head reads an item head and returns the major type and argument.
func (d *decoder) head() (byte, uint64, error) {
	ib, err := d.readByte()
	if err != nil {
		return 0, 0, err
	}
	major := ib >> 5
	info := ib & 0x1f
	switch {
	case info < 24:
		return major, uint64(info), nil
	case info <= 27:
		width := 1 << (info - 24)
		raw, err := d.readN(uint64(width))
		if err != nil {
			return 0, 0, err
		}
		var n uint64
		for _, b := range raw {
			n = n<<8 | uint64(b)
		}
		return major, n, nil
	case info == 31:
		return 0, 0, d.errorf("indefinite-length item is not canonical")
	default:
		return 0, 0, d.errorf("reserved additional info %d", info)
	}
}

func (d *decoder) value() (any, error) {
	start := d.pos
	ib := byte(0)
	if start < len(d.data) {
		ib = d.data[start]
	}

	// Simple values and floats share major type 7 and need the raw
	// initial byte, so peek before decoding the head.
	if ib>>5 == 7 {
		return d.simple()
	}

	major, arg, err := d.head()
	if err != nil {
		return nil, err
	}
	switch major {
	case majorUnsigned:
		if arg > math.MaxInt64 {
			return arg, nil
		}
		return int64(arg), nil
	case majorNegative:
		if arg > math.MaxInt64 {
			return nil, d.errorf("negative integer out of range")
		}
		return -1 - int64(arg), nil
	case majorBytes:
		raw, err := d.readN(arg)
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	case majorText:
		raw, err := d.readN(arg)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(raw) {
			return nil, d.errorf("text item is not valid UTF-8")
		}
		return string(raw), nil
	case majorArray:
		out := make([]any, 0, arg)
		for i := uint64(0); i < arg; i++ {
			elem, err := d.value()
			if err != nil {
				return nil, err
			}
			out = append(out, elem)
		}
		return out, nil
	case majorMap:
		out := make(map[string]any, arg)
		for i := uint64(0); i < arg; i++ {
			key, err := d.value()
			if err != nil {
				return nil, err
			}
			ks, ok := key.(string)
			if !ok {
				return nil, d.errorf("map key must be a text string, got %T", key)
			}
			val, err := d.value()
			if err != nil {
				return nil, err
			}
			out[ks] = val
		}
		return out, nil
	default:
		return nil, d.errorf("tagged items are not supported")
	}
}

func (d *decoder) simple() (any, error) {
	ib, err := d.readByte()
	if err != nil {
		return nil, err
	}
	switch ib {
	case 0xf4:
		return false, nil
	case 0xf5:
		return true, nil
	case 0xf6:
		return nil, nil
	case 0xf9:
		raw, err := d.readN(2)
		if err != nil {
			return nil, err
		}
		return float16Value(uint16(raw[0])<<8 | uint16(raw[1])), nil
	case 0xfa:
		raw, err := d.readN(4)
		if err != nil {
			return nil, err
		}
		bits := uint32(raw[0])<<24 | uint32(raw[1])<<16 | uint32(raw[2])<<8 | uint32(raw[3])
		return float64(math.Float32frombits(bits)), nil
	case 0xfb:
		raw, err := d.readN(8)
		if err != nil {
			return nil, err
		}
		var bits uint64
		for _, b := range raw {
			bits = bits<<8 | uint64(b)
		}
		return math.Float64frombits(bits), nil
	default:
		d.pos--
		return nil, d.errorf("unsupported simple value 0x%02x", ib)
	}
}

// float16Value expands IEEE 754 binary16 bits to float64.
func float16Value(h uint16) float64 {
	sign := float64(1)
	if h&0x8000 != 0 {
		sign = -1
	}
	exp := int(h >> 10 & 0x1f)
	man := int(h & 0x3ff)
	switch exp {
	case 0:
		return sign * float64(man) * math.Pow(2, -24)
	case 31:
		if man != 0 {
			return math.NaN()
		}
		return sign * math.Inf(1)
	default:
		return sign * float64(1024+man) * math.Pow(2, float64(exp-25))
	}
}
