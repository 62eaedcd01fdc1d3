package role

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// envelopeKeys are the wrapper fields backends put around payloads, in the
// order they are tried.
var envelopeKeys = []string{"data", "items", "roles", "permissions"}

const maxEnvelopeDepth = 8

// payloadKey marks an object as an entity rather than an envelope.
const payloadKey = "id"

// Unwrap strips response envelopes: while raw is an object carrying one of
// the envelope keys, descend into that key.
func Unwrap(raw []byte) json.RawMessage {
	return unwrap(raw, false)
}

// unwrap descends through envelopes. With stopAtPayload an object carrying
// an id is the payload even when it also has an envelope key, e.g. a role
// with embedded permissions.
func unwrap(raw []byte, stopAtPayload bool) json.RawMessage {
	body := json.RawMessage(bytes.TrimSpace(raw))

	for range maxEnvelopeDepth {
		if len(body) == 0 || body[0] != '{' {
			return body
		}

		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return body
		}

		if _, isPayload := obj[payloadKey]; stopAtPayload && isPayload {
			return body
		}

		inner, ok := pick(obj)
		if !ok {
			return body
		}

		body = json.RawMessage(bytes.TrimSpace(inner))
	}

	return body
}

func pick(obj map[string]json.RawMessage) (json.RawMessage, bool) {
	for _, key := range envelopeKeys {
		if v, ok := obj[key]; ok {
			return v, true
		}
	}

	return nil, false
}

// Normalize coerces a list response into its elements. A bare array and any
// nesting of envelopes around an array are accepted; everything else is an
// empty list.
func Normalize(raw []byte) []json.RawMessage {
	body := Unwrap(raw)
	if len(body) == 0 || body[0] != '[' {
		return []json.RawMessage{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return []json.RawMessage{}
	}

	return items
}

// decodeList normalizes raw and decodes every element, skipping the ones
// that do not decode into T.
func decodeList[T any](raw []byte) []T {
	items := Normalize(raw)
	out := make([]T, 0, len(items))

	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			log.Warn().Err(err).RawJSON("item", item).Msg("skipping malformed list item")
			continue
		}

		out = append(out, v)
	}

	return out
}

// decodeOne unwraps raw and decodes the object inside.
func decodeOne[T any](raw []byte) (T, error) {
	var v T

	body := unwrap(raw, true)
	if len(body) == 0 || body[0] != '{' {
		return v, fmt.Errorf("%w: expected an object", ErrTransport)
	}

	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	return v, nil
}
