package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns an event payload as T. In-process publishers pass T or *T directly;
// payloads that arrive as raw JSON or as generic maps are decoded into T.
func DecodePayload[T any](input any) (T, error) {
	var out T
	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v == nil {
			return out, fmt.Errorf("%s: nil %T", ErrMsgPayloadDecode, v)
		}
		return *v, nil
	case json.RawMessage:
		return out, wrapDecode(json.Unmarshal(v, &out))
	case []byte:
		return out, wrapDecode(json.Unmarshal(v, &out))
	}

	data, err := json.Marshal(input)
	if err != nil {
		return out, wrapDecode(err)
	}
	return out, wrapDecode(json.Unmarshal(data, &out))
}

func wrapDecode(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", ErrMsgPayloadDecode, err)
}
