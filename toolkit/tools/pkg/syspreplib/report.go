// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/guestfs"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/logger"
)

// Outcome of one operation against one root or device.
type Outcome string

const (
	// The operation ran its mutation logic. A run that only hit
	// expected-absence conditions still counts as applied.
	OutcomeApplied Outcome = "applied"
	// The operation decided it was inapplicable (e.g. wrong OS family).
	OutcomeSkipped Outcome = "skipped"
	// The operation hit an unexpected failure.
	OutcomeFailed Outcome = "failed"
)

type OperationResult struct {
	Operation string
	Outcome   Outcome
	Err       error
}

type RootReport struct {
	Root     string
	OsFamily guestfs.OsFamily
	Results  []OperationResult
	// Set when the root could not be processed at all (e.g. OS family
	// inspection failed).
	Err error
}

type DeviceReport struct {
	Device  string
	Results []OperationResult
}

// RunReport is the outcome of applying one plan to one guest.
type RunReport struct {
	RunId       string
	Roots       []RootReport
	Devices     []DeviceReport
	SideEffects []string
}

// Succeeded reports whether every operation on every root and device
// completed without an unexpected failure.
func (r *RunReport) Succeeded() bool {
	for _, rootReport := range r.Roots {
		if rootReport.Err != nil {
			return false
		}
		for _, result := range rootReport.Results {
			if result.Outcome == OutcomeFailed {
				return false
			}
		}
	}

	for _, deviceReport := range r.Devices {
		for _, result := range deviceReport.Results {
			if result.Outcome == OutcomeFailed {
				return false
			}
		}
	}

	return true
}

// LogSummary writes a human-readable summary of the run to the log.
// Structured rendering is left to external reporting tools.
func (r *RunReport) LogSummary() {
	logger.Log.Infof("Sysprep run (%s) summary:", r.RunId)

	for _, rootReport := range r.Roots {
		if rootReport.Err != nil {
			logger.Log.Errorf("  root (%s): failed: %v", rootReport.Root, rootReport.Err)
			continue
		}

		logger.Log.Infof("  root (%s) (%s):", rootReport.Root, rootReport.OsFamily)
		for _, result := range rootReport.Results {
			logOperationResult(result)
		}
	}

	for _, deviceReport := range r.Devices {
		logger.Log.Infof("  device (%s):", deviceReport.Device)
		for _, result := range deviceReport.Results {
			logOperationResult(result)
		}
	}

	if len(r.SideEffects) > 0 {
		logger.Log.Infof("Recommended follow-up actions:")
		for _, token := range r.SideEffects {
			logger.Log.Infof("  - %s", token)
		}
	}
}

func logOperationResult(result OperationResult) {
	switch result.Outcome {
	case OutcomeFailed:
		logger.Log.Errorf("    %s: %s: %v", result.Operation, result.Outcome, result.Err)

	default:
		logger.Log.Infof("    %s: %s", result.Operation, result.Outcome)
	}
}
