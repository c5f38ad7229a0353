package ai

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// ToolName is the function the model is forced to call.
const ToolName = "record_workout"

const toolDescription = "Record every strength exercise found in the workout log."

// Payload is the tool input the model must produce.
type Payload struct {
	Exercises []Item `json:"exercises" jsonschema_description:"Exercises in the order they appear in the log."`
}

// Item is one exercise with straight sets.
type Item struct {
	Name     string   `json:"name" jsonschema:"minLength=1" jsonschema_description:"Exercise name, typos corrected and abbreviations expanded."`
	Sets     int      `json:"sets" jsonschema:"minimum=1,maximum=50" jsonschema_description:"Number of sets performed with the same reps and weight."`
	Reps     int      `json:"reps" jsonschema:"minimum=1,maximum=1000" jsonschema_description:"Repetitions per set."`
	WeightKg float64  `json:"weight_kg" jsonschema:"minimum=0" jsonschema_description:"Weight per set in kilograms. For per-side loads this is the weight of one side."`
	RPE      *float64 `json:"rpe,omitempty" jsonschema:"minimum=1,maximum=10" jsonschema_description:"Rate of perceived exertion, 1 to 10."`
	Notes    string   `json:"notes,omitempty" jsonschema_description:"Anything relevant that does not fit the other fields, e.g. 'je Seite'."`
}

// InputSchema is the JSON schema of Payload split into the two parts tool
// definitions carry.
type InputSchema struct {
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required"`
}

// ReflectInputSchema derives the tool input schema from Payload.
func ReflectInputSchema() (InputSchema, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	data, err := json.Marshal(r.Reflect(&Payload{}))
	if err != nil {
		return InputSchema{}, fmt.Errorf("marshaling tool schema: %w", err)
	}

	var s InputSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return InputSchema{}, fmt.Errorf("decoding tool schema: %w", err)
	}
	return s, nil
}
