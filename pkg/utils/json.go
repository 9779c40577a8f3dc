package utils

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// UnmarshalPayload converts a loosely typed message payload into T. Raw JSON
// is decoded directly, anything already decoded (map[string]any, structs) is
// re-encoded first.
func UnmarshalPayload[T any](v any) (T, error) {
	var result T
	var data []byte
	switch raw := v.(type) {
	case nil:
		return result, nil
	case []byte:
		data = raw
	case T:
		return raw, nil
	default:
		encoded, err := jsoniter.Marshal(v)
		if err != nil {
			return result, errors.WithMessage(err, "marshal json")
		}
		data = encoded
	}
	if err := jsoniter.Unmarshal(data, &result); err != nil {
		return result, errors.WithMessage(err, "unmarshal json")
	}
	return result, nil
}
