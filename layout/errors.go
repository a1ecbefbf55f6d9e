package layout

import (
	"errors"
	"fmt"
)

var (
	ErrMisplacedRegister     = errors.New("a register must be within a word counting region")
	ErrMisplacedField        = errors.New("a field must be within a bit counting region")
	ErrMisplacedAddressSpace = errors.New("an address space must be within a word counting region")
	ErrBackwardOffset        = errors.New("offset would move the region backwards")
	ErrOffsetAfterBegin      = errors.New("offset set after beginning the inner region")
	ErrRestart               = errors.New("inner region restarted")
	ErrEndWithoutBegin       = errors.New("inner region ended without having begun")
	ErrBitsRestart           = errors.New("inner bit region restarted")
	ErrBitsEnd               = errors.New("inner bit region ended without having begun")
	ErrNoDataWidth           = errors.New("no data width for the outermost region")
	ErrNotCompiled           = errors.New("node is not part of the compiled layout")
	ErrNotAddressSpace       = errors.New("root node is not an address space")
)

// Error is a structural layout error. It always names the node being laid
// out when the error was detected.
type Error struct {
	Path string
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("layout %s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
