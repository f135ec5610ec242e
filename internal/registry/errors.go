package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates no descriptor handles a path.
	ErrNotFound = errors.New("no analyzer registered for file type")

	// ErrDuplicateExtension indicates an extension bound to two descriptors.
	ErrDuplicateExtension = errors.New("duplicate extension")

	// ErrUnknownLevel indicates a level the descriptor does not declare.
	ErrUnknownLevel = errors.New("unknown level")

	// ErrInvalidDescriptor indicates a malformed descriptor configuration.
	ErrInvalidDescriptor = errors.New("invalid descriptor")
)

// DuplicateExtensionError reports an extension that is already bound to a
// different descriptor.
type DuplicateExtensionError struct {
	Extension string
	Existing  string
	Incoming  string
}

func (e *DuplicateExtensionError) Error() string {
	return fmt.Sprintf("extension %q already registered to %q, cannot bind to %q", e.Extension, e.Existing, e.Incoming)
}

// Is matches ErrDuplicateExtension.
func (e *DuplicateExtensionError) Is(target error) bool {
	return target == ErrDuplicateExtension
}

// UnknownLevelError reports a request for an undeclared level.
type UnknownLevelError struct {
	Descriptor string
	Level      int
	Declared   []int
}

func (e *UnknownLevelError) Error() string {
	declared := make([]string, len(e.Declared))
	for i, l := range e.Declared {
		declared[i] = fmt.Sprint(l)
	}
	return fmt.Sprintf("%s does not declare level %d (available: %s)", e.Descriptor, e.Level, strings.Join(declared, ", "))
}

// Is matches ErrUnknownLevel.
func (e *UnknownLevelError) Is(target error) bool {
	return target == ErrUnknownLevel
}

// joinErrors combines multiple errors into a single error.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	msg := fmt.Sprintf("%d errors:", len(errs))
	for _, err := range errs {
		msg += "\n  - " + err.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalidDescriptor, msg)
}
