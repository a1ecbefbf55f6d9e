package spec

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOption = errors.New("unknown configuration option")
	ErrWrongType     = errors.New("configuration value has the wrong type")
	ErrNegative      = errors.New("configuration value must be positive")
	ErrZero          = errors.New("configuration value must be non-zero")
	ErrInvalidEnum   = errors.New("configuration value is not a member of the enumeration")
	ErrDuplicate     = errors.New("configuration option is set more than once")
	ErrRequired      = errors.New("required configuration option is missing")
	ErrDuplicateName = errors.New("duplicate member name")
	ErrEmptyName     = errors.New("members must be named")
	ErrInvalidMember = errors.New("member kind is not allowed here")
	ErrNoSuchMember  = errors.New("no member with that name")
	ErrNotArray      = errors.New("node is not an array")
)

// ConfigError reports a configuration attribute that failed validation,
// together with the identity of the object that owns it.
type ConfigError struct {
	Owner string
	Attr  string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Owner, e.Attr, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
