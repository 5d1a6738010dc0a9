package models

import (
	"strconv"
	"strings"
)

// globalPrefix marks identities of windows without a project descriptor.
const globalPrefix = "global"

// ProjectIdentity is the key distinguishing one Project from another.
//
// It is either the path to a persisted *.sublime-project descriptor or the
// synthetic "global<window id>" key for windows without one.
type ProjectIdentity string

// GlobalIdentity returns the synthetic identity for a window without a
// project descriptor.
func GlobalIdentity(windowID int) ProjectIdentity {
	return ProjectIdentity(globalPrefix + strconv.Itoa(windowID))
}

// IdentityFor returns the descriptor path as identity, or the global
// identity of the window when descriptor is empty.
func IdentityFor(descriptor string, windowID int) ProjectIdentity {
	if descriptor == "" {
		return GlobalIdentity(windowID)
	}
	return ProjectIdentity(descriptor)
}

// IsGlobal reports whether the identity was synthesized for a window.
func (id ProjectIdentity) IsGlobal() bool {
	rest, ok := strings.CutPrefix(string(id), globalPrefix)
	if !ok || rest == "" {
		return false
	}
	_, err := strconv.Atoi(rest)
	return err == nil
}

func (id ProjectIdentity) String() string {
	return string(id)
}
