package domain

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// RecommendPlaceTool is the name of the tool the model calls to show a place.
const RecommendPlaceTool = "recommendPlace"

// Tool describes a function offered to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ParametersFor reflects the JSON schema of v into the object form expected
// in a function definition.
func ParametersFor(v any) (map[string]any, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := r.Reflect(v)
	schema.Version = ""

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var params map[string]any
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}
	return params, nil
}

// RecommendPlace returns the definition of the recommendPlace tool.
func RecommendPlace() (Tool, error) {
	params, err := ParametersFor(&Place{})
	if err != nil {
		return Tool{}, err
	}
	return Tool{
		Name:        RecommendPlaceTool,
		Description: "Shows the user a map of the place provided.",
		Parameters:  params,
	}, nil
}
