package clarity

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"
	"unicode/utf8"
)

// MaxDepth bounds the nesting of composite values.
const MaxDepth = 32

const (
	int128Size    = 16
	maxNameLength = 128
)

var (
	two128    = new(big.Int).Lsh(big.NewInt(1), 128)
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// NewIntFromBig builds an Int, failing when v does not fit in 128 bits.
func NewIntFromBig(v *big.Int) (Int, error) {
	if v == nil {
		return NewInt(0), nil
	}
	if v.Cmp(minInt128) < 0 || v.Cmp(maxInt128) > 0 {
		return Int{}, fmt.Errorf("int128 overflow: %s", v.String())
	}
	return Int{v: new(big.Int).Set(v)}, nil
}

// NewUIntFromBig builds a UInt, failing when v is negative or wider than 128 bits.
func NewUIntFromBig(v *big.Int) (UInt, error) {
	if v == nil {
		return NewUInt(0), nil
	}
	if v.Sign() < 0 || v.BitLen() > 128 {
		return UInt{}, fmt.Errorf("uint128 overflow: %s", v.String())
	}
	var u UInt
	u.v.SetFromBig(v)
	return u, nil
}

// Serialize encodes a value in the consensus wire format.
func Serialize(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := serialize(&buf, v, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func serialize(buf *bytes.Buffer, v Value, depth int) error {
	if v == nil {
		return fmt.Errorf("serialize: nil value")
	}
	if depth > MaxDepth {
		return fmt.Errorf("serialize: nesting deeper than %d", MaxDepth)
	}
	buf.WriteByte(byte(v.Type()))

	switch val := v.(type) {
	case Int:
		n := val.Big()
		if n.Cmp(minInt128) < 0 || n.Cmp(maxInt128) > 0 {
			return fmt.Errorf("serialize: int128 overflow: %s", n)
		}
		if n.Sign() < 0 {
			n.Add(n, two128)
		}
		var out [int128Size]byte
		n.FillBytes(out[:])
		buf.Write(out[:])
	case UInt:
		if val.v.BitLen() > 128 {
			return fmt.Errorf("serialize: uint128 overflow")
		}
		full := val.v.Bytes32()
		buf.Write(full[32-int128Size:])
	case Buffer:
		writeLength(buf, len(val))
		buf.Write(val)
	case Bool:
	case Principal:
		buf.WriteByte(val.Version)
		buf.Write(val.Hash160[:])
		if val.ContractName != "" {
			if len(val.ContractName) > maxNameLength {
				return fmt.Errorf("serialize: contract name longer than %d", maxNameLength)
			}
			buf.WriteByte(byte(len(val.ContractName)))
			buf.WriteString(val.ContractName)
		}
	case ResponseOk:
		return serialize(buf, val.Value, depth+1)
	case ResponseErr:
		return serialize(buf, val.Value, depth+1)
	case None:
	case Some:
		return serialize(buf, val.Value, depth+1)
	case List:
		writeLength(buf, len(val))
		for _, item := range val {
			if err := serialize(buf, item, depth+1); err != nil {
				return err
			}
		}
	case Tuple:
		writeLength(buf, len(val))
		for _, name := range val.Keys() {
			if name == "" || len(name) > maxNameLength {
				return fmt.Errorf("serialize: invalid tuple field name %q", name)
			}
			buf.WriteByte(byte(len(name)))
			buf.WriteString(name)
			if err := serialize(buf, val[name], depth+1); err != nil {
				return err
			}
		}
	case StringASCII:
		for i := 0; i < len(val); i++ {
			if val[i] > 0x7e || (val[i] < 0x20 && val[i] != '\t' && val[i] != '\n' && val[i] != '\r') {
				return fmt.Errorf("serialize: non-ascii byte 0x%02x", val[i])
			}
		}
		writeLength(buf, len(val))
		buf.WriteString(string(val))
	case StringUTF8:
		if !utf8.ValidString(string(val)) {
			return fmt.Errorf("serialize: invalid utf8 string")
		}
		writeLength(buf, len(val))
		buf.WriteString(string(val))
	default:
		return fmt.Errorf("serialize: unsupported value %T", v)
	}
	return nil
}

func writeLength(buf *bytes.Buffer, n int) {
	var out [4]byte
	binary.BigEndian.PutUint32(out[:], uint32(n))
	buf.Write(out[:])
}

// Deserialize decodes a single value and rejects trailing bytes.
func Deserialize(data []byte) (Value, error) {
	r := &reader{data: data}
	v, err := r.value(0)
	if err != nil {
		return nil, err
	}
	if r.pos != len(r.data) {
		return nil, r.fail("%d trailing bytes", len(r.data)-r.pos)
	}
	return v, nil
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) fail(format string, args ...interface{}) error {
	return &DecodeError{Offset: r.pos, Reason: fmt.Sprintf(format, args...)}
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || len(r.data)-r.pos < n {
		return nil, r.fail("need %d bytes, have %d", n, len(r.data)-r.pos)
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) readByte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) length() (int, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	n := binary.BigEndian.Uint32(b)
	if int64(n) > int64(len(r.data)-r.pos) {
		return 0, r.fail("length %d exceeds remaining input", n)
	}
	return int(n), nil
}

func (r *reader) name() (string, error) {
	n, err := r.readByte()
	if err != nil {
		return "", err
	}
	if n == 0 || int(n) > maxNameLength {
		return "", r.fail("invalid name length %d", n)
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) value(depth int) (Value, error) {
	if depth > MaxDepth {
		return nil, r.fail("nesting deeper than %d", MaxDepth)
	}
	prefix, err := r.readByte()
	if err != nil {
		return nil, err
	}

	switch Type(prefix) {
	case TypeInt:
		b, err := r.take(int128Size)
		if err != nil {
			return nil, err
		}
		n := new(big.Int).SetBytes(b)
		if b[0]&0x80 != 0 {
			n.Sub(n, two128)
		}
		return Int{v: n}, nil
	case TypeUInt:
		b, err := r.take(int128Size)
		if err != nil {
			return nil, err
		}
		var u UInt
		u.v.SetBytes(b)
		return u, nil
	case TypeBuffer:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		b, err := r.take(n)
		if err != nil {
			return nil, err
		}
		return Buffer(append([]byte(nil), b...)), nil
	case TypeBoolTrue:
		return Bool(true), nil
	case TypeBoolFalse:
		return Bool(false), nil
	case TypePrincipalStandard, TypePrincipalContract:
		version, err := r.readByte()
		if err != nil {
			return nil, err
		}
		hash, err := r.take(20)
		if err != nil {
			return nil, err
		}
		p := Principal{Version: version}
		copy(p.Hash160[:], hash)
		if Type(prefix) == TypePrincipalContract {
			if p.ContractName, err = r.name(); err != nil {
				return nil, err
			}
		}
		return p, nil
	case TypeResponseOk:
		inner, err := r.value(depth + 1)
		if err != nil {
			return nil, err
		}
		return ResponseOk{Value: inner}, nil
	case TypeResponseErr:
		inner, err := r.value(depth + 1)
		if err != nil {
			return nil, err
		}
		return ResponseErr{Value: inner}, nil
	case TypeOptionalNone:
		return None{}, nil
	case TypeOptionalSome:
		inner, err := r.value(depth + 1)
		if err != nil {
			return nil, err
		}
		return Some{Value: inner}, nil
	case TypeList:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		items := make(List, 0, n)
		for i := 0; i < n; i++ {
			item, err := r.value(depth + 1)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case TypeTuple:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		tuple := make(Tuple, n)
		for i := 0; i < n; i++ {
			name, err := r.name()
			if err != nil {
				return nil, err
			}
			if _, dup := tuple[name]; dup {
				return nil, r.fail("duplicate tuple field %q", name)
			}
			item, err := r.value(depth + 1)
			if err != nil {
				return nil, err
			}
			tuple[name] = item
		}
		return tuple, nil
	case TypeStringASCII:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		b, err := r.take(n)
		if err != nil {
			return nil, err
		}
		return StringASCII(b), nil
	case TypeStringUTF8:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		b, err := r.take(n)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, r.fail("invalid utf8 string")
		}
		return StringUTF8(b), nil
	default:
		r.pos--
		return nil, r.fail("unknown type prefix 0x%02x", prefix)
	}
}
