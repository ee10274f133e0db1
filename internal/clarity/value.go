package clarity

import (
	"math/big"
	"sort"

	"github.com/holiman/uint256"
)

// Type is the wire prefix of a serialized Clarity value.
type Type byte

const (
	TypeInt               Type = 0x00
	TypeUInt              Type = 0x01
	TypeBuffer            Type = 0x02
	TypeBoolTrue          Type = 0x03
	TypeBoolFalse         Type = 0x04
	TypePrincipalStandard Type = 0x05
	TypePrincipalContract Type = 0x06
	TypeResponseOk        Type = 0x07
	TypeResponseErr       Type = 0x08
	TypeOptionalNone      Type = 0x09
	TypeOptionalSome      Type = 0x0a
	TypeList              Type = 0x0b
	TypeTuple             Type = 0x0c
	TypeStringASCII       Type = 0x0d
	TypeStringUTF8        Type = 0x0e
)

// String returns the Clarity type name.
func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeUInt:
		return "uint"
	case TypeBuffer:
		return "buffer"
	case TypeBoolTrue:
		return "true"
	case TypeBoolFalse:
		return "false"
	case TypePrincipalStandard:
		return "principal"
	case TypePrincipalContract:
		return "contract-principal"
	case TypeResponseOk:
		return "ok"
	case TypeResponseErr:
		return "err"
	case TypeOptionalNone:
		return "none"
	case TypeOptionalSome:
		return "some"
	case TypeList:
		return "list"
	case TypeTuple:
		return "tuple"
	case TypeStringASCII:
		return "string-ascii"
	case TypeStringUTF8:
		return "string-utf8"
	default:
		return "unknown"
	}
}

// Value is a decoded Clarity value. The set of implementations is closed to
// this package.
type Value interface {
	Type() Type
	Accept(v Visitor) error
	sealed()
}

// Visitor dispatches on every Clarity variant. Adding a variant adds a method
// here, so every visitor in the tree stops compiling until it handles it.
type Visitor interface {
	VisitInt(Int) error
	VisitUInt(UInt) error
	VisitBuffer(Buffer) error
	VisitBool(Bool) error
	VisitPrincipal(Principal) error
	VisitResponseOk(ResponseOk) error
	VisitResponseErr(ResponseErr) error
	VisitNone(None) error
	VisitSome(Some) error
	VisitList(List) error
	VisitTuple(Tuple) error
	VisitStringASCII(StringASCII) error
	VisitStringUTF8(StringUTF8) error
}

// Int is a signed 128-bit integer.
type Int struct {
	v *big.Int
}

// NewInt builds an Int from an int64.
func NewInt(v int64) Int { return Int{v: big.NewInt(v)} }

// Big returns a copy of the integer.
func (i Int) Big() *big.Int {
	if i.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(i.v)
}

func (Int) Type() Type               { return TypeInt }
func (i Int) Accept(v Visitor) error { return v.VisitInt(i) }
func (Int) sealed()                  {}

// UInt is an unsigned 128-bit integer.
type UInt struct {
	v uint256.Int
}

// NewUInt builds a UInt from a uint64.
func NewUInt(v uint64) UInt {
	var u UInt
	u.v.SetUint64(v)
	return u
}

// Big returns the integer as a big.Int.
func (u UInt) Big() *big.Int { return u.v.ToBig() }

// Uint64 returns the value and whether it fits in 64 bits.
func (u UInt) Uint64() (uint64, bool) {
	return u.v.Uint64(), u.v.IsUint64()
}

// IsZero reports whether the value is zero.
func (u UInt) IsZero() bool { return u.v.IsZero() }

func (UInt) Type() Type               { return TypeUInt }
func (u UInt) Accept(v Visitor) error { return v.VisitUInt(u) }
func (UInt) sealed()                  {}

// Buffer is a byte buffer.
type Buffer []byte

func (Buffer) Type() Type               { return TypeBuffer }
func (b Buffer) Accept(v Visitor) error { return v.VisitBuffer(b) }
func (Buffer) sealed()                  {}

// Bool is a boolean. Its wire type depends on the value.
type Bool bool

func (b Bool) Type() Type {
	if b {
		return TypeBoolTrue
	}
	return TypeBoolFalse
}
func (b Bool) Accept(v Visitor) error { return v.VisitBool(b) }
func (Bool) sealed()                  {}

// Principal is a standard principal, or a contract principal when
// ContractName is set.
type Principal struct {
	Version      byte
	Hash160      [20]byte
	ContractName string
}

func (p Principal) Type() Type {
	if p.ContractName != "" {
		return TypePrincipalContract
	}
	return TypePrincipalStandard
}
func (p Principal) Accept(v Visitor) error { return v.VisitPrincipal(p) }
func (Principal) sealed()                  {}

// Address returns the c32check address of the principal, without the contract name.
func (p Principal) Address() string {
	return EncodeAddress(p.Version, p.Hash160)
}

// String returns the address, followed by ".name" for contract principals.
func (p Principal) String() string {
	if p.ContractName != "" {
		return p.Address() + "." + p.ContractName
	}
	return p.Address()
}

// ResponseOk wraps a successful contract response.
type ResponseOk struct {
	Value Value
}

func (ResponseOk) Type() Type               { return TypeResponseOk }
func (r ResponseOk) Accept(v Visitor) error { return v.VisitResponseOk(r) }
func (ResponseOk) sealed()                  {}

// ResponseErr wraps a failed contract response.
type ResponseErr struct {
	Value Value
}

func (ResponseErr) Type() Type               { return TypeResponseErr }
func (r ResponseErr) Accept(v Visitor) error { return v.VisitResponseErr(r) }
func (ResponseErr) sealed()                  {}

// None is the empty optional.
type None struct{}

func (None) Type() Type               { return TypeOptionalNone }
func (n None) Accept(v Visitor) error { return v.VisitNone(n) }
func (None) sealed()                  {}

// Some is a present optional.
type Some struct {
	Value Value
}

func (Some) Type() Type               { return TypeOptionalSome }
func (s Some) Accept(v Visitor) error { return v.VisitSome(s) }
func (Some) sealed()                  {}

// List is an ordered list of values.
type List []Value

func (List) Type() Type               { return TypeList }
func (l List) Accept(v Visitor) error { return v.VisitList(l) }
func (List) sealed()                  {}

// Tuple maps field names to values.
type Tuple map[string]Value

func (Tuple) Type() Type               { return TypeTuple }
func (t Tuple) Accept(v Visitor) error { return v.VisitTuple(t) }
func (Tuple) sealed()                  {}

// Keys returns the field names in serialization order.
func (t Tuple) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StringASCII is an ASCII string.
type StringASCII string

func (StringASCII) Type() Type               { return TypeStringASCII }
func (s StringASCII) Accept(v Visitor) error { return v.VisitStringASCII(s) }
func (StringASCII) sealed()                  {}

// StringUTF8 is a UTF-8 string.
type StringUTF8 string

func (StringUTF8) Type() Type               { return TypeStringUTF8 }
func (s StringUTF8) Accept(v Visitor) error { return v.VisitStringUTF8(s) }
func (StringUTF8) sealed()                  {}
