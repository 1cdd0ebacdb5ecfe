package server

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/starsettlers/settlers-server-go/internal/game/actions"
)

//go:embed schema/envelope.schema.json
var envelopeSchema string

const envelopeSchemaURL = "envelope.schema.json"

// MessageAction is the only inbound message type.
const MessageAction = "action"

// EventError reports a message the server could not accept.
const EventError = "error"

type inbound struct {
	Type    string         `json:"type"`
	Payload actions.Record `json:"payload"`
}

type outbound struct {
	Event   string `json:"event"`
	Content any    `json:"content"`
}

func compileEnvelopeSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.CompileString(envelopeSchemaURL, envelopeSchema)
	if err != nil {
		return nil, fmt.Errorf("compile envelope schema: %w", err)
	}
	return schema, nil
}

// decodeEnvelope validates raw against the envelope schema and returns the
// action record it carries.
func decodeEnvelope(schema *jsonschema.Schema, raw []byte) (actions.Record, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return actions.Record{}, fmt.Errorf("malformed message: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return actions.Record{}, fmt.Errorf("invalid message: %w", err)
	}

	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		return actions.Record{}, fmt.Errorf("malformed message: %w", err)
	}
	return msg.Payload, nil
}
