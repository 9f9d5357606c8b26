// Package record converts domain shapes to and from plain structural
// records (protobuf Struct values) for the gRPC transport.
//
// Struct numbers are float64. A JSON number that float64 cannot hold
// exactly, such as a price with 17 significant digits, travels as its
// decimal text instead, so amounts come back unchanged.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct encodes v through its JSON form into a Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("record: encode: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("record: not an object: %w", err)
	}
	s, err := structpb.NewStruct(exact(m).(map[string]any))
	if err != nil {
		return nil, fmt.Errorf("record: build struct: %w", err)
	}
	return s, nil
}

// FromStruct decodes s into v, which must be a pointer.
func FromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		return fmt.Errorf("record: nil struct")
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("record: encode struct: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("record: decode: %w", err)
	}
	return nil
}

// exact replaces every json.Number in v with a float64 when the float
// holds it exactly and with its text otherwise.
func exact(v any) any {
	switch x := v.(type) {
	case map[string]any:
		if x == nil {
			return map[string]any{}
		}
		for k, e := range x {
			x[k] = exact(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = exact(e)
		}
		return x
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return x.String()
		}
		d, err := decimal.NewFromString(x.String())
		if err != nil || !d.Equal(decimal.NewFromFloat(f)) {
			return x.String()
		}
		return f
	default:
		return v
	}
}
