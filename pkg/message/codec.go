package message

import (
	"encoding/json"
	"fmt"
)

// Parse rebuilds a message from its JSON form. The record is accepted on
// shape alone, so anything that looks like a track or identify message is
// as valid as one produced by a Builder.
//
// Parse returns an *InvalidMessageError carrying the raw record when the
// JSON is not a valid message.
func Parse(data []byte) (Message, error) {
	var fields map[string]json.RawMessage
	if err := decodeJSON(data, &fields); err != nil {
		return nil, invalidRecord(data, "not a JSON object: "+err.Error())
	}
	if fields == nil {
		return nil, invalidRecord(data, "not a JSON object")
	}

	rawType, ok := fields["type"]
	if !ok {
		return nil, invalidRecord(data, "missing type")
	}
	var t Type
	if err := json.Unmarshal(rawType, &t); err != nil {
		return nil, invalidRecord(data, "type is not a string")
	}

	var m Message
	switch t {
	case TypeTrack:
		if _, ok := fields["event"]; !ok {
			return nil, invalidRecord(data, "track message has no event")
		}
		var tr Track
		if err := decodeJSON(data, &tr); err != nil {
			return nil, invalidRecord(data, "malformed track message: "+err.Error())
		}
		if tr.Properties == nil {
			tr.Properties = map[string]any{}
		}
		m = &tr
	case TypeIdentify:
		traits, ok := fields["traits"]
		if !ok {
			return nil, invalidRecord(data, "identify message has no traits")
		}
		var id Identify
		if err := decodeJSON(data, &id); err != nil {
			return nil, invalidRecord(data, "malformed identify message: "+err.Error())
		}
		id.Traits = traits
		m = &id
	default:
		return nil, invalidRecord(data, fmt.Sprintf("unsupported type %q", t))
	}

	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Marshal encodes messages as a JSON array in the given order. This is the
// request body sent to the events endpoint.
func Marshal(messages []Message) ([]byte, error) {
	if messages == nil {
		messages = []Message{}
	}
	return json.Marshal(messages)
}

func invalidRecord(data []byte, reason string) *InvalidMessageError {
	raw := make(json.RawMessage, len(data))
	copy(raw, data)
	return &InvalidMessageError{Record: raw, Reason: reason}
}
