package clarity

func typeOf(v Value) Type {
	if v == nil {
		return Type(0xff)
	}
	return v.Type()
}

// UnwrapOk returns the payload of an (ok ...) response.
func UnwrapOk(v Value) (Value, error) {
	ok, isOk := v.(ResponseOk)
	if !isOk {
		return nil, &MismatchError{Want: TypeResponseOk, Got: typeOf(v)}
	}
	return ok.Value, nil
}

// UnwrapSome returns the payload of a (some ...) optional. A none value is
// reported with found=false and no error.
func UnwrapSome(v Value) (inner Value, found bool, err error) {
	switch opt := v.(type) {
	case Some:
		return opt.Value, true, nil
	case None:
		return nil, false, nil
	default:
		return nil, false, &MismatchError{Want: TypeOptionalSome, Got: typeOf(v)}
	}
}

// AsUInt returns a uint payload.
func AsUInt(v Value) (UInt, error) {
	u, ok := v.(UInt)
	if !ok {
		return UInt{}, &MismatchError{Want: TypeUInt, Got: typeOf(v)}
	}
	return u, nil
}

// AsBool returns a bool payload.
func AsBool(v Value) (bool, error) {
	b, ok := v.(Bool)
	if !ok {
		return false, &MismatchError{Want: TypeBoolTrue, Got: typeOf(v)}
	}
	return bool(b), nil
}

// AsPrincipal returns a standard or contract principal.
func AsPrincipal(v Value) (Principal, error) {
	p, ok := v.(Principal)
	if !ok {
		return Principal{}, &MismatchError{Want: TypePrincipalStandard, Got: typeOf(v)}
	}
	return p, nil
}

// AsTuple returns a tuple payload.
func AsTuple(v Value) (Tuple, error) {
	t, ok := v.(Tuple)
	if !ok {
		return nil, &MismatchError{Want: TypeTuple, Got: typeOf(v)}
	}
	return t, nil
}

// AsList returns a list payload.
func AsList(v Value) (List, error) {
	l, ok := v.(List)
	if !ok {
		return nil, &MismatchError{Want: TypeList, Got: typeOf(v)}
	}
	return l, nil
}

// AsStringASCII returns an ASCII string payload.
func AsStringASCII(v Value) (string, error) {
	s, ok := v.(StringASCII)
	if !ok {
		return "", &MismatchError{Want: TypeStringASCII, Got: typeOf(v)}
	}
	return string(s), nil
}

// Field returns the named tuple field.
func (t Tuple) Field(name string) (Value, error) {
	v, ok := t[name]
	if !ok || v == nil {
		return nil, &MissingFieldError{Field: name}
	}
	return v, nil
}

// UIntField returns a uint tuple field.
func (t Tuple) UIntField(name string) (UInt, error) {
	v, err := t.Field(name)
	if err != nil {
		return UInt{}, err
	}
	u, ok := v.(UInt)
	if !ok {
		return UInt{}, &MismatchError{Want: TypeUInt, Got: v.Type(), Field: name}
	}
	return u, nil
}

// StringASCIIField returns an ASCII string tuple field.
func (t Tuple) StringASCIIField(name string) (string, error) {
	v, err := t.Field(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(StringASCII)
	if !ok {
		return "", &MismatchError{Want: TypeStringASCII, Got: v.Type(), Field: name}
	}
	return string(s), nil
}
