// Package schemas embeds the JSON Schemas shipped with the binary.
package schemas

import _ "embed"

// ConfigSchemaJSON is the schema for .gradebook.yaml files.
//
//go:embed config.schema.json
var ConfigSchemaJSON string
