// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/exe"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/logger"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/telemetry"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/pkg/syspreplib"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app = kingpin.New("imagesysprep", "Resets a mounted guest OS tree for cloning")

	guestRoot         = app.Flag("guest-root", "Path of the mounted guest OS tree to prepare.").String()
	configFile        = app.Flag("config-file", "Path of the sysprep config file.").String()
	enableOperations  = app.Flag("enable", "Enable an operation that is not on by default. May be given multiple times.").Strings()
	excludeOperations = app.Flag("exclude", "Exclude an operation from the run. May be given multiple times.").Strings()
	backupFile        = app.Flag("backup-file", "Archive removed guest content to this file before deleting it. Supported: .tar.gz, .tgz, .tar.zst.").String()
	requireMountpoint = app.Flag("require-mountpoint", "Fail unless the guest root is a real mountpoint.").Bool()
	listOperations    = app.Flag("list-operations", "List the available operations and exit.").Bool()
	logFlags          = exe.SetupLogFlags(app)
	disableTelemetry  = app.Flag("disable-telemetry", "Disable telemetry collection.").Bool()
)

func main() {
	app.Version(syspreplib.ToolVersion)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger.InitBestEffort(logFlags)

	if *listOperations {
		printOperations()
		return
	}

	if *guestRoot == "" {
		log.Fatalf("required flag --guest-root not provided")
	}

	ctx := context.Background()

	err := telemetry.InitTelemetry(*disableTelemetry, "imagesysprep", syspreplib.ToolVersion)
	if err != nil {
		logger.Log.Warnf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		err := telemetry.ShutdownTelemetry(ctx)
		if err != nil {
			logger.Log.Warnf("Failed to shut down telemetry: %v", err)
		}
	}()

	err = sysprepGuest(ctx)
	if err != nil {
		log.Fatalf("guest sysprep failed:\n%v", err)
	}
}

func sysprepGuest(ctx context.Context) error {
	options := syspreplib.SysprepOptions{
		GuestRootDir:      *guestRoot,
		EnableOperations:  *enableOperations,
		ExcludeOperations: *excludeOperations,
		BackupFile:        *backupFile,
		RequireMountpoint: *requireMountpoint,
	}

	_, err := syspreplib.SysprepGuestTreeWithConfigFile(ctx, *configFile, options)
	if err != nil {
		return err
	}

	return nil
}

func printOperations() {
	registry, err := syspreplib.NewBuiltInRegistry()
	if err != nil {
		log.Fatalf("failed to build operation registry:\n%v", err)
	}

	for _, op := range registry.List() {
		defaultMarker := ""
		if op.EnabledByDefault {
			defaultMarker = " (default)"
		}

		fmt.Printf("%s%s\n    %s\n", op.Name, defaultMarker, op.Heading)
		if op.Description != "" {
			for _, line := range strings.Split(op.Description, "\n") {
				fmt.Printf("    %s\n", line)
			}
		}
		for _, arg := range op.ExtraArgs {
			fmt.Printf("    --%s.%s=%q\n        %s\n", op.Name, arg.Name, arg.Default, arg.Description)
		}
	}
}
