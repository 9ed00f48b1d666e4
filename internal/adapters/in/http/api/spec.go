// Package api holds the OpenAPI contract of the HTTP adapter.
package api

import (
	"context"
	_ "embed"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/pkg/errors"
)

// BasePath prefixes every operation in the contract.
const BasePath = "/api/v1"

//go:embed openapi.json
var Document []byte

// Load parses and validates the contract.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(Document)
	if err != nil {
		return nil, errors.Wrap(err, "parse openapi contract")
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, errors.Wrap(err, "validate openapi contract")
	}
	return doc, nil
}
