// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"maps"
	"os"

	"github.com/alecthomas/kong"
	"github.com/invopop/jsonschema"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/exekong"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/logger"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/sysprepapi"
)

type SchemaCmd struct {
	Output string `name:"output" short:"o" help:"Path to the output JSON schema file." required:""`
	exekong.LogFlags
}

func main() {
	cli := &SchemaCmd{}

	vars := kong.Vars{}
	maps.Copy(vars, exekong.KongVars)

	_ = kong.Parse(cli,
		vars,
		kong.HelpOptions{
			Compact:   true,
			FlagsLast: true,
		},
		kong.UsageOnError())

	loggerFlags := cli.LogFlags.AsLoggerFlags()
	logger.InitBestEffort(&loggerFlags)

	err := generateJSONSchema(cli.Output)
	if err != nil {
		log.Fatalf("schema generation failed:\n%v", err)
	}

	fmt.Printf("JSON schema has been written to %s\n", cli.Output)
}

func generateJSONSchema(outputFile string) error {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
	}

	schema := reflector.Reflect(&sysprepapi.Config{})
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	err = os.WriteFile(outputFile, schemaJSON, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	return nil
}
