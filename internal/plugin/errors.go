package plugin

import (
	"errors"
	"fmt"
)

// Resolution errors. All of them indicate misconfiguration and are fatal at
// startup. Match them with errors.Is.
var (
	// ErrPluginNotFound is returned when no descriptor of a capability has a
	// location starting with the requested name.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrMalformedEntry is returned when a discovery entry is not in
	// "location:entry" form.
	ErrMalformedEntry = errors.New("malformed discovery entry")

	// ErrNotLinked is returned when a discovered descriptor has no factory
	// registered in the binary.
	ErrNotLinked = errors.New("plugin not linked into binary")
)

// NotFoundError reports a failed resolution. It names both the capability and
// the requested plugin name.
type NotFoundError struct {
	Capability Capability
	Name       string
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s plugin %q not found", e.Capability, e.Name)
}

// Is makes errors.Is(err, ErrPluginNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrPluginNotFound
}

// MalformedEntryError reports a discovery entry that could not be parsed.
type MalformedEntryError struct {
	Capability Capability
	Entry      string
	Reason     string
}

// Error implements error.
func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed %s entry %q: %s", e.Capability, e.Entry, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedEntry) true.
func (e *MalformedEntryError) Is(target error) bool {
	return target == ErrMalformedEntry
}
