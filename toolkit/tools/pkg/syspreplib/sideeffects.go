// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

package syspreplib

import (
	"sort"

	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/logger"
)

// Side-effect tokens emitted by the built-in operations. A token signals
// an out-of-band action recommended after sysprep completes.
const (
	SideEffectRegenerateMachineId   = "regenerate-machine-id"
	SideEffectRegenerateSshHostKeys = "regenerate-ssh-host-keys"
	SideEffectRecreateSshUserDirs   = "recreate-ssh-user-directories"
	SideEffectVerifyHostname        = "verify-hostname"
)

// SideEffects accumulates side-effect tokens across all operations and
// roots of a single run. The aggregate is a set: insertion order is
// irrelevant and duplicates collapse.
type SideEffects struct {
	tokens  map[string]struct{}
	drained bool
}

func NewSideEffects() *SideEffects {
	return &SideEffects{
		tokens: make(map[string]struct{}),
	}
}

// Record adds a token to the run-scoped set. Recording the same token
// twice has no additional effect.
func (s *SideEffects) Record(token string) {
	if s.drained {
		logger.Log.Warnf("Ignoring side effect (%s) recorded after the run completed", token)
		return
	}

	s.tokens[token] = struct{}{}
}

// Drain returns the final sorted token set and seals the accumulator.
// Called once, after the engine signals the run is complete.
func (s *SideEffects) Drain() []string {
	s.drained = true

	tokens := []string(nil)
	for token := range s.tokens {
		tokens = append(tokens, token)
	}

	sort.Strings(tokens)
	return tokens
}
