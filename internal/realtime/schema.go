package realtime

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/mcoot/nightshift/internal/model"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://nightshift.local/schemas/"

// Validator checks inbound payloads against the embedded event schemas
type Validator struct {
	schemas map[model.EventType]*jsonschema.Schema
}

// NewValidator compiles one schema per inbound event
func NewValidator() (*Validator, error) {
	c := jsonschema.NewCompiler()
	schemas := make(map[model.EventType]*jsonschema.Schema, len(model.InboundEvents))

	for _, event := range model.InboundEvents {
		data, err := schemaFS.ReadFile("schemas/" + string(event) + ".json")
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", event, err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", event, err)
		}
		url := schemaBaseURL + string(event) + ".json"
		if err := c.AddResource(url, doc); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", event, err)
		}
		sch, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", event, err)
		}
		schemas[event] = sch
	}

	return &Validator{schemas: schemas}, nil
}

// Validate returns an error wrapping model.ErrInvalidPayload when data does not match
func (v *Validator) Validate(event model.EventType, data json.RawMessage) error {
	sch, ok := v.schemas[event]
	if !ok {
		return model.ErrUnknownEvent
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %s is not valid JSON", model.ErrInvalidPayload, event)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrInvalidPayload, event, err)
	}
	return nil
}
