// Package cbor implements the deterministic CBOR encoding used for
// cross-chain data commitments. Every logical value has exactly one
// encoding: shortest-form heads, length-first key ordering, definite
// lengths only, and minimal-width IEEE 754 floats. The EVM and WASM
// verifiers reproduce this encoding byte for byte, so any change here
// is a consensus change.
package cbor

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"sort"
	"unicode/utf8"
)

// CBOR major types (RFC 8949 section 3).
const (
	majorUnsigned = 0
	majorNegative = 1
	majorBytes    = 2
	majorText     = 3
	majorArray    = 4
	majorMap      = 5
)

// Encode returns the canonical CBOR encoding of v.
//
// Supported values: nil, bool, all Go integer types, float32/float64,
// string, []byte, []any, and string-keyed maps. Other map and slice
// types are handled reflectively. Unsupported types fail with an
// *EncodingError; nothing is silently dropped, including nulls.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodingError reports a value that has no canonical representation.
type EncodingError struct {
	Msg string
}

func (e *EncodingError) Error() string { return "cbor: " + e.Msg }

func errEncoding(format string, args ...any) error {
	return &EncodingError{Msg: fmt.Sprintf(format, args...)}
}

func encodeValue(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case nil:
		buf.WriteByte(0xf6)
		return nil
	case bool:
		if t {
			buf.WriteByte(0xf5)
		} else {
			buf.WriteByte(0xf4)
		}
		return nil
	case int:
		return encodeInt(buf, int64(t))
	case int8:
		return encodeInt(buf, int64(t))
	case int16:
		return encodeInt(buf, int64(t))
	case int32:
		return encodeInt(buf, int64(t))
	case int64:
		return encodeInt(buf, t)
	case uint:
		encodeHead(buf, majorUnsigned, uint64(t))
		return nil
	case uint8:
		encodeHead(buf, majorUnsigned, uint64(t))
		return nil
	case uint16:
		encodeHead(buf, majorUnsigned, uint64(t))
		return nil
	case uint32:
		encodeHead(buf, majorUnsigned, uint64(t))
		return nil
	case uint64:
		encodeHead(buf, majorUnsigned, t)
		return nil
	case float32:
		return encodeFloat(buf, float64(t))
	case float64:
		return encodeFloat(buf, t)
	case string:
		return encodeText(buf, t)
	case []byte:
		encodeHead(buf, majorBytes, uint64(len(t)))
		buf.Write(t)
		return nil
	case []any:
		encodeHead(buf, majorArray, uint64(len(t)))
		for _, elem := range t {
			if err := encodeValue(buf, elem); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		return encodeMap(buf, t)
	default:
		return encodeReflect(buf, v)
	}
}

// encodeReflect covers typed maps and slices (e.g. map[string]float64)
// that callers hand in directly rather than as map[string]any.
func encodeReflect(buf *bytes.Buffer, v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return errEncoding("map key type %s not supported, keys must be strings", rv.Type().Key())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return encodeMap(buf, m)
	case reflect.Slice, reflect.Array:
		encodeHead(buf, majorArray, uint64(rv.Len()))
		for i := 0; i < rv.Len(); i++ {
			if err := encodeValue(buf, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	default:
		return errEncoding("unsupported type %T", v)
	}
}

func encodeInt(buf *bytes.Buffer, n int64) error {
	if n >= 0 {
		encodeHead(buf, majorUnsigned, uint64(n))
	} else {
		encodeHead(buf, majorNegative, uint64(-1-n))
	}
	return nil
}

func encodeText(buf *bytes.Buffer, s string) error {
	if !utf8.ValidString(s) {
		return errEncoding("text value is not valid UTF-8")
	}
	encodeHead(buf, majorText, uint64(len(s)))
	buf.WriteString(s)
	return nil
}

// encodeMap emits map entries sorted by encoded key, shorter keys first
// and equal-length keys in bytewise lexicographic order. Insertion order
// never leaks into the output.
func encodeMap(buf *bytes.Buffer, m map[string]any) error {
	type entry struct {
		key   []byte
		value any
	}
	entries := make([]entry, 0, len(m))
	for k, v := range m {
		var kb bytes.Buffer
		if err := encodeText(&kb, k); err != nil {
			return err
		}
		entries = append(entries, entry{key: kb.Bytes(), value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].key) != len(entries[j].key) {
			return len(entries[i].key) < len(entries[j].key)
		}
		return bytes.Compare(entries[i].key, entries[j].key) < 0
	})

	encodeHead(buf, majorMap, uint64(len(entries)))
	for _, e := range entries {
		buf.Write(e.key)
		if err := encodeValue(buf, e.value); err != nil {
			return err
		}
	}
	return nil
}

// encodeHead writes the shortest head that can carry n.
func encodeHead(buf *bytes.Buffer, major byte, n uint64) {
	mb := major << 5
	switch {
	case n < 24:
		buf.WriteByte(mb | byte(n))
	case n <= math.MaxUint8:
		buf.WriteByte(mb | 24)
		buf.WriteByte(byte(n))
	case n <= math.MaxUint16:
		buf.WriteByte(mb | 25)
		buf.WriteByte(byte(n >> 8))
		buf.WriteByte(byte(n))
	case n <= math.MaxUint32:
		buf.WriteByte(mb | 26)
		for shift := 24; shift >= 0; shift -= 8 {
			buf.WriteByte(byte(n >> uint(shift)))
		}
	default:
		buf.WriteByte(mb | 27)
		for shift := 56; shift >= 0; shift -= 8 {
			buf.WriteByte(byte(n >> uint(shift)))
		}
	}
}

// encodeFloat writes f in the narrowest IEEE 754 width that round-trips
// exactly: half, then single, then double. NaN is always the canonical
// half-width quiet NaN.
func encodeFloat(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) {
		buf.Write([]byte{0xf9, 0x7e, 0x00})
		return nil
	}
	if h, ok := float16Bits(f); ok {
		buf.WriteByte(0xf9)
		buf.WriteByte(byte(h >> 8))
		buf.WriteByte(byte(h))
		return nil
	}
	if f32 := float32(f); float64(f32) == f {
		bits := math.Float32bits(f32)
		buf.WriteByte(0xfa)
		for shift := 24; shift >= 0; shift -= 8 {
			buf.WriteByte(byte(bits >> uint(shift)))
		}
		return nil
	}
	bits := math.Float64bits(f)
	buf.WriteByte(0xfb)
	for shift := 56; shift >= 0; shift -= 8 {
		buf.WriteByte(byte(bits >> uint(shift)))
	}
	return nil
}

// float16Bits converts f to IEEE 754 binary16, reporting whether the
// conversion is exact.
func float16Bits(f float64) (uint16, bool) {
	f32 := float32(f)
	if float64(f32) != f {
		return 0, false
	}
	b := math.Float32bits(f32)
	sign := uint16(b>>16) & 0x8000
	if b&0x7fffffff == 0 {
		return sign, true
	}
	exp := int32(b>>23&0xff) - 127
	man := b & 0x7fffff

	switch {
	case exp == 128:
		// Infinity; NaN never reaches here.
		return sign | 0x7c00, true
	case exp > 15:
		return 0, false
	case exp >= -14:
		if man&0x1fff != 0 {
			return 0, false
		}
		return sign | uint16(exp+15)<<10 | uint16(man>>13), true
	case exp >= -24:
		// Subnormal half range.
		m := man | 0x800000
		shift := uint32(-exp - 1)
		if m&(1<<shift-1) != 0 {
			return 0, false
		}
		return sign | uint16(m>>shift), true
	default:
		return 0, false
	}
}
