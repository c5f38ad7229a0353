package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaViolation is returned when the tool input does not match Payload.
var ErrSchemaViolation = errors.New("ai payload violates schema")

const (
	maxItemSets = 50
	maxItemReps = 1000
	minRPE      = 1
	maxRPE      = 10
)

// DecodePayload strictly decodes and validates a tool input. Unknown
// fields, missing names and out-of-range numbers are rejected.
func DecodePayload(raw json.RawMessage) (*Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	if p.Exercises == nil {
		return nil, fmt.Errorf("%w: exercises missing", ErrSchemaViolation)
	}
	for i, it := range p.Exercises {
		if err := it.validate(); err != nil {
			return nil, fmt.Errorf("%w: exercise %d: %v", ErrSchemaViolation, i, err)
		}
	}
	return &p, nil
}

func (it Item) validate() error {
	switch {
	case strings.TrimSpace(it.Name) == "":
		return errors.New("name is empty")
	case it.Sets < 1 || it.Sets > maxItemSets:
		return fmt.Errorf("sets %d out of range", it.Sets)
	case it.Reps < 1 || it.Reps > maxItemReps:
		return fmt.Errorf("reps %d out of range", it.Reps)
	case it.WeightKg < 0:
		return fmt.Errorf("weight %v is negative", it.WeightKg)
	case it.RPE != nil && (*it.RPE < minRPE || *it.RPE > maxRPE):
		return fmt.Errorf("rpe %v out of range", *it.RPE)
	}
	return nil
}
