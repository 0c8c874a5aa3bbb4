package value

// StaticAssertType fails with a STATIC_TYPE_ERROR when the two types differ.
func StaticAssertType(expected, actual ReturnType) error {
	if expected != actual {
		return NewStaticTypeError("expected type %s, got type %s", expected, actual)
	}
	return nil
}

// DynamicAssertNum fails with a DYNAMIC_TYPE_ERROR unless v is a number.
func DynamicAssertNum(v Value) error {
	if !v.IsNum() {
		return NewDynamicTypeError("expected number, got %s", v)
	}
	return nil
}

// DynamicAssertBool fails with a DYNAMIC_TYPE_ERROR unless v is a boolean.
func DynamicAssertBool(v Value) error {
	if !v.IsBool() {
		return NewDynamicTypeError("expected boolean, got %s", v)
	}
	return nil
}

// DynamicAssertSameType fails with a DYNAMIC_TYPE_ERROR unless both values
// have the same kind.
func DynamicAssertSameType(v1, v2 Value) error {
	if v1.Kind() != v2.Kind() {
		return NewDynamicTypeError("expected same types, got %s and %s", v1, v2)
	}
	return nil
}
