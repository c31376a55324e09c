// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"context"
	"fmt"

	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/sliceutils"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/sysprepapi"
	"go.opentelemetry.io/otel"
)

const OtelTracerName = "syspreplib"

// Version of the tool. Set through linker flag.
var ToolVersion = ""

var (
	ErrInvalidConfig = NewSysprepError("Sysprep:InvalidConfig", "invalid config file")
	ErrRunFailed     = NewSysprepError("Sysprep:RunFailed",
		"one or more operations failed on the guest")
)

// SysprepOptions is the command-line surface of a run. Values given here
// are merged over the config file: list options are unioned, scalar
// options win outright.
type SysprepOptions struct {
	GuestRootDir      string
	EnableOperations  []string
	ExcludeOperations []string
	BackupFile        string
	RequireMountpoint bool
}

// SysprepGuestTreeWithConfigFile runs sysprep with the settings from a
// YAML config file merged with the command-line options.
func SysprepGuestTreeWithConfigFile(ctx context.Context, configFile string, options SysprepOptions,
) (*RunReport, error) {
	var config sysprepapi.Config
	if configFile != "" {
		err := sysprepapi.UnmarshalAndValidateYamlFile(configFile, &config)
		if err != nil {
			return nil, fmt.Errorf("%w:\n%w", ErrInvalidConfig, err)
		}
	}

	return SysprepGuestTree(ctx, &config, options)
}

// SysprepGuestTree prepares the guest tree for cloning: it resolves the
// operation plan, connects to the guest, applies the plan and reports
// the results.
func SysprepGuestTree(ctx context.Context, config *sysprepapi.Config, options SysprepOptions,
) (*RunReport, error) {
	ctx, span := otel.GetTracerProvider().Tracer(OtelTracerName).Start(ctx, "sysprep_guest_tree")
	defer span.End()

	operations, backupFile := mergeConfig(config, options)

	registry, err := NewBuiltInRegistry()
	if err != nil {
		return nil, err
	}

	plan, err := SelectOperations(registry, operations)
	if err != nil {
		return nil, err
	}

	connection, err := ConnectGuestTree(options.GuestRootDir, backupFile, options.RequireMountpoint)
	if err != nil {
		return nil, err
	}
	defer connection.Close()

	report, err := RunPlan(ctx, connection.Guest(), plan)
	if err != nil {
		return nil, err
	}

	report.LogSummary()

	if !report.Succeeded() {
		return report, fmt.Errorf("%w: (run %s)", ErrRunFailed, report.RunId)
	}

	return report, nil
}

func mergeConfig(config *sysprepapi.Config, options SysprepOptions,
) (sysprepapi.Operations, string) {
	operations := sysprepapi.Operations{
		Enable:  append([]string(nil), config.Operations.Enable...),
		Exclude: append([]string(nil), config.Operations.Exclude...),
		Args:    config.Operations.Args,
	}

	for _, name := range options.EnableOperations {
		if !sliceutils.ContainsValue(operations.Enable, name) {
			operations.Enable = append(operations.Enable, name)
		}
	}

	for _, name := range options.ExcludeOperations {
		if !sliceutils.ContainsValue(operations.Exclude, name) {
			operations.Exclude = append(operations.Exclude, name)
		}
	}

	backupFile := ""
	if config.Backup != nil {
		backupFile = config.Backup.Path
	}
	if options.BackupFile != "" {
		backupFile = options.BackupFile
	}

	return operations, backupFile
}
