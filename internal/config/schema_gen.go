package config

import "github.com/invopop/jsonschema"

// GenerateJSONSchema generates a JSON schema for the configuration files
func GenerateJSONSchema() (*jsonschema.Schema, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            false,
		FieldNameTag:              "mapstructure",
		// Every key is optional in a config file; defaults fill the rest.
		RequiredFromJSONSchemaTags: true,
	}

	schema := r.Reflect(&ConfigSchema{})

	schema.Title = "mapsxplr Configuration Schema"
	schema.Description = "Configuration schema for *.mapsxplr.yaml and *.mapsxplr.json files"

	return schema, nil
}
