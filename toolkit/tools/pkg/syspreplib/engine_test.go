// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"context"
	"errors"
	"testing"

	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/guestfs"
	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/testutils"
	"github.com/stretchr/testify/assert"
)

func newEnginePlan(operations ...*Operation) *Plan {
	plan := &Plan{}
	for _, op := range operations {
		plan.Operations = append(plan.Operations, PlannedOperation{
			Operation: op,
		})
	}
	return plan
}

func TestRunPlanAppliesOperationsToAllRoots(t *testing.T) {
	guest := testutils.NewFakeGuest()
	guest.AddRoot("a", guestfs.OsFamilyLinux, "/root/.bash_history")
	guest.AddRoot("b", guestfs.OsFamilyLinux, "/root/.bash_history")

	plan := newEnginePlan(newBashHistoryOperation())

	report, err := RunPlan(context.Background(), guest, plan)
	if !assert.NoError(t, err) {
		return
	}

	assert.True(t, report.Succeeded())
	assert.NotEmpty(t, report.RunId)
	assert.False(t, guest.HasPath("a", "/root/.bash_history"))
	assert.False(t, guest.HasPath("b", "/root/.bash_history"))
}

func TestRunPlanFailureAbortsRootButNotSiblings(t *testing.T) {
	guest := testutils.NewFakeGuest()
	guest.AddRoot("a", guestfs.OsFamilyLinux, "/root/.bash_history", "/run/utmp")
	guest.AddRoot("b", guestfs.OsFamilyLinux, "/root/.bash_history", "/run/utmp")
	guest.FailOn["a:/root/.bash_history"] = errors.New("I/O error")

	plan := newEnginePlan(newBashHistoryOperation(), newUtmpOperation())

	report, err := RunPlan(context.Background(), guest, plan)
	if !assert.NoError(t, err) {
		return
	}

	assert.False(t, report.Succeeded())
	if !assert.Len(t, report.Roots, 2) {
		return
	}

	// Root "a": bash-history failed, utmp never ran.
	assert.Len(t, report.Roots[0].Results, 1)
	assert.Equal(t, OutcomeFailed, report.Roots[0].Results[0].Outcome)
	assert.True(t, guest.HasPath("a", "/run/utmp"))

	// Root "b" still got the full plan.
	assert.Len(t, report.Roots[1].Results, 2)
	assert.Equal(t, OutcomeApplied, report.Roots[1].Results[0].Outcome)
	assert.Equal(t, OutcomeApplied, report.Roots[1].Results[1].Outcome)
	assert.False(t, guest.HasPath("b", "/run/utmp"))
}

func TestRunPlanSkipsInapplicableFamilies(t *testing.T) {
	guest := testutils.NewFakeGuest()
	guest.AddRoot("linux", guestfs.OsFamilyLinux, "/root/.bash_history")
	guest.AddRoot("windows", guestfs.OsFamilyWindows, "/root/.bash_history")

	plan := newEnginePlan(newBashHistoryOperation())

	report, err := RunPlan(context.Background(), guest, plan)
	if !assert.NoError(t, err) {
		return
	}

	assert.True(t, report.Succeeded())
	assert.Equal(t, OutcomeApplied, report.Roots[0].Results[0].Outcome)
	assert.Equal(t, OutcomeSkipped, report.Roots[1].Results[0].Outcome)
	assert.True(t, guest.HasPath("windows", "/root/.bash_history"))
}

func TestRunPlanAggregatesSideEffectsAcrossRoots(t *testing.T) {
	guest := testutils.NewFakeGuest()
	guest.AddRoot("a", guestfs.OsFamilyLinux, "/etc/ssh/ssh_host_rsa_key")
	guest.AddRoot("b", guestfs.OsFamilyLinux, "/etc/ssh/ssh_host_ed25519_key")

	plan := newEnginePlan(newSshHostkeysOperation())

	report, err := RunPlan(context.Background(), guest, plan)
	if !assert.NoError(t, err) {
		return
	}

	// Both roots emitted the token; the aggregate collapses it to one.
	assert.Equal(t, []string{SideEffectRegenerateSshHostKeys}, report.SideEffects)
}

func TestRunPlanRunsDeviceOperationsOncePerDevice(t *testing.T) {
	guest := testutils.NewFakeGuest()
	guest.AddRoot("/", guestfs.OsFamilyLinux)
	guest.Devices = []string{"/dev/sda1", "/dev/sda2"}

	plan := newEnginePlan(newFsUuidsOperation())

	report, err := RunPlan(context.Background(), guest, plan)
	if !assert.NoError(t, err) {
		return
	}

	assert.True(t, report.Succeeded())
	assert.Len(t, report.Devices, 2)
	assert.Len(t, guest.DeviceUuidsSet, 2)
	assert.NotEqual(t, guest.DeviceUuidsSet["/dev/sda1"], guest.DeviceUuidsSet["/dev/sda2"])
}

func TestRunPlanDeviceFailureDoesNotAbortOtherDevices(t *testing.T) {
	guest := testutils.NewFakeGuest()
	guest.AddRoot("/", guestfs.OsFamilyLinux)
	guest.Devices = []string{"/dev/sda1", "/dev/sda2"}
	guest.FailOn["device:/dev/sda1"] = errors.New("device busy")

	plan := newEnginePlan(newFsUuidsOperation())

	report, err := RunPlan(context.Background(), guest, plan)
	if !assert.NoError(t, err) {
		return
	}

	assert.False(t, report.Succeeded())
	if !assert.Len(t, report.Devices, 2) {
		return
	}
	assert.Equal(t, OutcomeFailed, report.Devices[0].Results[0].Outcome)
	assert.Equal(t, OutcomeApplied, report.Devices[1].Results[0].Outcome)
	assert.Contains(t, guest.DeviceUuidsSet, "/dev/sda2")
}

func TestRunPlanSecondRunYieldsNoSideEffects(t *testing.T) {
	guest := testutils.NewFakeGuest()
	guest.AddRoot("/", guestfs.OsFamilyLinux, "/etc/ssh/ssh_host_rsa_key")

	plan := newEnginePlan(newSshHostkeysOperation())

	first, err := RunPlan(context.Background(), guest, plan)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, []string{SideEffectRegenerateSshHostKeys}, first.SideEffects)

	// The keys are already gone, so the second run changes nothing and
	// reports nothing to follow up on.
	second, err := RunPlan(context.Background(), guest, plan)
	if !assert.NoError(t, err) {
		return
	}
	assert.True(t, second.Succeeded())
	assert.Empty(t, second.SideEffects)
}
