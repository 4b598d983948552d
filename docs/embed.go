package docs

import _ "embed"

// SwaggerJSON is the OpenAPI document for the HTTP API. It is regenerated
// from the handler annotations by go generate.
//
//go:embed swagger/swagger.json
var SwaggerJSON []byte
