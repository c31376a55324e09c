// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/guestfs"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrListRoots   = NewSysprepError("Engine:ListRoots", "failed to list guest OS roots")
	ErrListDevices = NewSysprepError("Engine:ListDevices", "failed to list guest devices")
)

// RunPlan applies the plan to one open guest handle.
//
// Roots are visited in a stable sort order; within a root, operations run
// strictly in plan order, synchronously, since they all mutate the same
// mounted filesystem. An unexpected operation failure aborts the rest of
// the plan for that root only; sibling roots still get the full plan.
// Device-scoped operations run once per raw device after all roots, with
// the same abort-this-scope-continue-other-scopes rule.
//
// Only failures to enumerate the guest (roots/devices) are returned as
// errors; per-root and per-device failures are recorded in the report.
func RunPlan(ctx context.Context, guest guestfs.Guest, plan *Plan) (*RunReport, error) {
	ctx, span := otel.GetTracerProvider().Tracer(OtelTracerName).Start(ctx, "run_plan")
	span.SetAttributes(
		attribute.Int("operation_count", len(plan.Operations)),
	)
	defer span.End()

	report := &RunReport{
		RunId: uuid.New().String(),
	}
	effects := NewSideEffects()

	roots, err := guest.ListRoots()
	if err != nil {
		return nil, fmt.Errorf("%w:\n%w", ErrListRoots, err)
	}

	for _, root := range roots {
		report.Roots = append(report.Roots, runRootPlan(ctx, guest, root, plan, effects))
	}

	devices, err := guest.ListDevices()
	if err != nil {
		return nil, fmt.Errorf("%w:\n%w", ErrListDevices, err)
	}

	for _, device := range devices {
		report.Devices = append(report.Devices, runDevicePlan(ctx, guest, device, plan))
	}

	report.SideEffects = effects.Drain()
	return report, nil
}

func runRootPlan(ctx context.Context, guest guestfs.Guest, root guestfs.Root, plan *Plan,
	effects *SideEffects,
) RootReport {
	_, span := otel.GetTracerProvider().Tracer(OtelTracerName).Start(ctx, "run_root_plan")
	span.SetAttributes(
		attribute.String("root", root.ID),
	)
	defer span.End()

	rootReport := RootReport{
		Root: root.ID,
	}

	family, err := guest.InspectOsFamily(root)
	if err != nil {
		rootReport.Err = fmt.Errorf("failed to inspect OS family of root (%s):\n%w", root.ID, err)
		logger.Log.Errorf("Skipping root (%s): %v", root.ID, rootReport.Err)
		return rootReport
	}
	rootReport.OsFamily = family

	logger.Log.Infof("Processing root (%s) (%s)", root.ID, family)

	for _, planned := range plan.Operations {
		if planned.OnFilesystems == nil {
			continue
		}

		applied, err := planned.OnFilesystems(ctx, guest, root, planned.Args, effects)
		if err != nil {
			logger.Log.Errorf("Operation (%s) failed on root (%s): %v", planned.Name, root.ID, err)
			rootReport.Results = append(rootReport.Results, OperationResult{
				Operation: planned.Name,
				Outcome:   OutcomeFailed,
				Err:       err,
			})

			// The filesystem state of this root is now suspect; do not
			// run the remaining operations against it.
			break
		}

		rootReport.Results = append(rootReport.Results, OperationResult{
			Operation: planned.Name,
			Outcome:   outcomeForApplied(applied),
		})
	}

	return rootReport
}

func runDevicePlan(ctx context.Context, guest guestfs.Guest, device string, plan *Plan) DeviceReport {
	deviceReport := DeviceReport{
		Device: device,
	}

	logger.Log.Infof("Processing device (%s)", device)

	for _, planned := range plan.Operations {
		if planned.OnDevices == nil {
			continue
		}

		applied, err := planned.OnDevices(ctx, guest, device)
		if err != nil {
			logger.Log.Errorf("Operation (%s) failed on device (%s): %v", planned.Name, device, err)
			deviceReport.Results = append(deviceReport.Results, OperationResult{
				Operation: planned.Name,
				Outcome:   OutcomeFailed,
				Err:       err,
			})
			break
		}

		deviceReport.Results = append(deviceReport.Results, OperationResult{
			Operation: planned.Name,
			Outcome:   outcomeForApplied(applied),
		})
	}

	return deviceReport
}

func outcomeForApplied(applied bool) Outcome {
	if applied {
		return OutcomeApplied
	}
	return OutcomeSkipped
}
