// Copyright (c) The Guest Sysprep Tools Authors.
// Licensed under the MIT License.

// Package testutils provides shared test helpers, including an in-memory
// guest implementation for exercising the sysprep framework without a
// mounted filesystem.
package testutils

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/openvirt/guest-sysprep-tools/toolkit/tools/internal/guestfs"
)

// FakeGuest implements guestfs.Guest over an in-memory file set.
//
// Files are guest-absolute paths mapped to contents, per root. Errors can
// be injected per (root, path) to simulate unexpected I/O failures.
type FakeGuest struct {
	Families map[string]guestfs.OsFamily
	Files    map[string]map[string]string
	Devices  []string

	// Injected failures: root ID + ":" + path -> error.
	FailOn map[string]error

	// Records of every destructive call, in order.
	Removed        []string
	DeviceUuidsSet map[string]string

	Closed bool
}

func NewFakeGuest() *FakeGuest {
	return &FakeGuest{
		Families:       map[string]guestfs.OsFamily{},
		Files:          map[string]map[string]string{},
		FailOn:         map[string]error{},
		DeviceUuidsSet: map[string]string{},
	}
}

// AddRoot registers a root with the given OS family and files.
func (g *FakeGuest) AddRoot(id string, family guestfs.OsFamily, paths ...string) {
	g.Families[id] = family
	if g.Files[id] == nil {
		g.Files[id] = map[string]string{}
	}
	for _, p := range paths {
		g.Files[id][p] = ""
	}
}

func (g *FakeGuest) ListRoots() ([]guestfs.Root, error) {
	roots := []guestfs.Root(nil)
	for id := range g.Families {
		roots = append(roots, guestfs.Root{ID: id})
	}

	sort.Slice(roots, func(i, j int) bool {
		return roots[i].ID < roots[j].ID
	})

	return roots, nil
}

func (g *FakeGuest) InspectOsFamily(root guestfs.Root) (guestfs.OsFamily, error) {
	family, ok := g.Families[root.ID]
	if !ok {
		return guestfs.OsFamilyUnknown, fmt.Errorf("unknown guest root (%s)", root.ID)
	}

	return family, nil
}

func (g *FakeGuest) GlobExpand(root guestfs.Root, pattern string) ([]string, error) {
	matches := []string(nil)
	for p := range g.Files[root.ID] {
		matched, err := path.Match(pattern, p)
		if err != nil {
			return nil, err
		}
		if matched {
			matches = append(matches, p)
		}
	}

	sort.Strings(matches)
	return matches, nil
}

func (g *FakeGuest) PathExists(root guestfs.Root, p string) (bool, error) {
	if _, ok := g.Files[root.ID][p]; ok {
		return true, nil
	}

	// Directories exist implicitly when they have children.
	for existing := range g.Files[root.ID] {
		if strings.HasPrefix(existing, p+"/") {
			return true, nil
		}
	}

	return false, nil
}

func (g *FakeGuest) ReadFile(root guestfs.Root, p string) (string, error) {
	content, ok := g.Files[root.ID][p]
	if !ok {
		return "", fmt.Errorf("file not found (%s) in root (%s)", p, root.ID)
	}

	return content, nil
}

func (g *FakeGuest) Remove(root guestfs.Root, p string) error {
	if err := g.injectedError(root, p); err != nil {
		return err
	}

	delete(g.Files[root.ID], p)
	g.Removed = append(g.Removed, root.ID+":"+p)
	return nil
}

func (g *FakeGuest) RemoveRecursive(root guestfs.Root, p string) error {
	if err := g.injectedError(root, p); err != nil {
		return err
	}

	for existing := range g.Files[root.ID] {
		if existing == p || strings.HasPrefix(existing, p+"/") {
			delete(g.Files[root.ID], existing)
		}
	}
	g.Removed = append(g.Removed, root.ID+":"+p)
	return nil
}

func (g *FakeGuest) Truncate(root guestfs.Root, p string) error {
	if err := g.injectedError(root, p); err != nil {
		return err
	}

	if _, ok := g.Files[root.ID][p]; ok {
		g.Files[root.ID][p] = ""
	}
	return nil
}

func (g *FakeGuest) WriteFile(root guestfs.Root, p string, content string) error {
	if err := g.injectedError(root, p); err != nil {
		return err
	}

	if g.Files[root.ID] == nil {
		g.Files[root.ID] = map[string]string{}
	}
	g.Files[root.ID][p] = content
	return nil
}

func (g *FakeGuest) ListDevices() ([]string, error) {
	devices := append([]string(nil), g.Devices...)
	sort.Strings(devices)
	return devices, nil
}

func (g *FakeGuest) SetFilesystemUuid(device string, uuid string) error {
	if err, ok := g.FailOn["device:"+device]; ok {
		return err
	}

	g.DeviceUuidsSet[device] = uuid
	return nil
}

func (g *FakeGuest) Close() error {
	g.Closed = true
	return nil
}

// HasPath reports whether the root still contains the exact path.
func (g *FakeGuest) HasPath(rootID string, p string) bool {
	_, ok := g.Files[rootID][p]
	return ok
}

func (g *FakeGuest) injectedError(root guestfs.Root, p string) error {
	if err, ok := g.FailOn[root.ID+":"+p]; ok {
		return err
	}

	return nil
}
