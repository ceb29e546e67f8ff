package quad

// Float128 values travel through JSON as numbers in the shortest decimal
// form that round-trips. NaN and the infinities, which JSON numbers cannot
// express, are encoded as the quoted strings "NaN", "+Inf" and "-Inf".

// MarshalText implements encoding.TextMarshaler.
func (f Float128) MarshalText() ([]byte, error) {
	return f.Append(make([]byte, 0, 48), 'g', -1), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Float128) UnmarshalText(text []byte) error {
	g, err := ParseFloat128(string(text))
	if err != nil {
		return err
	}
	*f = g
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Float128) MarshalJSON() ([]byte, error) {
	if f.isFinite() {
		return f.Append(make([]byte, 0, 48), 'g', -1), nil
	}
	return append(append([]byte{'"'}, f.Text('g', -1)...), '"'), nil
}

// UnmarshalJSON implements json.Unmarshaler. It accepts JSON numbers as
// well as numeric values quoted as strings.
func (f *Float128) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	g, err := ParseFloat128(s)
	if err != nil {
		return err
	}
	*f = g
	return nil
}
