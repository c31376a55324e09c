// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package sysprepapi

import (
	"encoding/json"
	"testing"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
)

func TestConfigJsonSchema(t *testing.T) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
	}

	schema := reflector.Reflect(&Config{})

	schemaJSON, err := json.Marshal(schema)
	if !assert.NoError(t, err) {
		return
	}

	assert.Contains(t, string(schemaJSON), "operations")
	assert.Contains(t, string(schemaJSON), "backup")
	assert.Contains(t, string(schemaJSON), "exclude")
}
