package registry

import (
	"errors"
	"fmt"
)

// UnknownPropertyError reports an assignment to a name the registry does
// not know, or to a reserved document key.
type UnknownPropertyError struct {
	Class    string
	Property string
	Reserved bool
}

func (e *UnknownPropertyError) Error() string {
	if e.Reserved {
		return fmt.Sprintf("property %q is a reserved key and cannot be assigned", e.Property)
	}
	if e.Class != "" {
		return fmt.Sprintf("unknown property %q on %s", e.Property, e.Class)
	}
	return fmt.Sprintf("unknown property %q", e.Property)
}

// UnknownClassError reports a class name absent from the registry.
type UnknownClassError struct {
	Class string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("unknown class %q", e.Class)
}

// DomainError reports an entity whose class is not the declared domain of
// a property or one of its subclasses. Warn is set when the property's
// usage flag makes the violation non-fatal.
type DomainError struct {
	Class    string
	Property string
	Domain   string
	Warn     bool
}

func (e *DomainError) Error() string {
	level := "error"
	if e.Warn {
		level = "warning"
	}
	return fmt.Sprintf("domain %s: %s cannot carry %q (domain is %s)", level, e.Class, e.Property, e.Domain)
}

// RangeError reports a value whose kind or class the property's range
// does not accept.
type RangeError struct {
	Class    string
	Property string
	Range    string
	Got      string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range error: %s.%s expects %s, got %s", e.Class, e.Property, e.Range, e.Got)
}

// ConflictError reports a registration that would replace an existing
// class or property.
type ConflictError struct {
	Name     string
	Existing string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%q is already registered as %s", e.Name, e.Existing)
}

// IsUnknownProperty returns true if err is or wraps an UnknownPropertyError.
func IsUnknownProperty(err error) bool {
	var e *UnknownPropertyError
	return errors.As(err, &e)
}

// IsUnknownClass returns true if err is or wraps an UnknownClassError.
func IsUnknownClass(err error) bool {
	var e *UnknownClassError
	return errors.As(err, &e)
}

// IsDomainError returns true if err is or wraps a DomainError.
func IsDomainError(err error) bool {
	var e *DomainError
	return errors.As(err, &e)
}

// IsWarning returns true if err is a warn-only DomainError, which callers
// report without rejecting the assignment.
func IsWarning(err error) bool {
	var e *DomainError
	return errors.As(err, &e) && e.Warn
}

// IsRangeError returns true if err is or wraps a RangeError.
func IsRangeError(err error) bool {
	var e *RangeError
	return errors.As(err, &e)
}

// IsConflict returns true if err is or wraps a ConflictError.
func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}
