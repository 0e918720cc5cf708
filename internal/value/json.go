package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// MarshalJSON encodes v using encoding/json, matching the wire shape the
// typed view (internal/tool) and the meta-tools exchange with native Go
// structs. Integers that fit losslessly are encoded as bare JSON numbers;
// encoding/json's decoder round-trips them back through json.Number when
// UnmarshalJSON below is used, preserving the int/uint distinction. A float
// with an integral value is encoded without a fractional part, so it
// decodes back as an integer of the same value.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		if v.b {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case KindNumber:
		switch v.n.Kind {
		case NumInt:
			return []byte(fmt.Sprintf("%d", v.n.I)), nil
		case NumUint:
			return []byte(fmt.Sprintf("%d", v.n.U)), nil
		default:
			if math.IsNaN(v.n.F) || math.IsInf(v.n.F, 0) {
				return nil, fmt.Errorf("value: cannot encode non-finite float %v as JSON", v.n.F)
			}
			return json.Marshal(v.n.F)
		}
	case KindString:
		return json.Marshal(v.s)
	case KindArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, e := range v.a {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range v.o.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			val, _ := v.Get(k)
			vb, err := val.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("value: invalid kind %d", v.kind)
	}
}

// UnmarshalJSON decodes into v, preserving insertion order for objects and
// choosing the narrowest lossless Number representation (int64, else
// uint64, else float64).
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	val, err := decodeJSONValue(dec)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null, nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return numberFromJSON(t), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			var elems []Value
			for dec.More() {
				e, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				elems = append(elems, e)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return Array(elems), nil
		case '{':
			o := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, _ := keyTok.(string)
				val, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				o.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return o, nil
		}
	}
	return Value{}, fmt.Errorf("value: unexpected JSON token %#v", tok)
}

func numberFromJSON(n json.Number) Value {
	if i, err := n.Int64(); err == nil {
		return Int(i)
	}
	if u, err := strconv.ParseUint(string(n), 10, 64); err == nil {
		return Uint(u)
	}
	if f, err := n.Float64(); err == nil {
		return Float(f)
	}
	return Float(0)
}
