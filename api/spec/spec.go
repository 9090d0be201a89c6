// Package spec carries the machine-readable API description served at
// /openapi.yaml.
package spec

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
