package layout

import "fmt"

// Position is a location in a counting space. Relative counts from the start
// of the innermost scope, Absolute from the start of the outermost one.
type Position struct {
	Relative uint64
	Absolute uint64
}

// Add returns the position advanced by n units.
func (p Position) Add(n uint64) Position {
	return Position{Relative: p.Relative + n, Absolute: p.Absolute + n}
}

// Counter is a bump allocator with nested scopes. Pause starts a sub-scope
// used to measure the size of an inner region; Restore ends it.
//
// Stack underflow and zero alignments are programming errors and panic.
type Counter struct {
	value  Position
	scopes []Position
}

// Size returns the relative position of the current scope.
func (c *Counter) Size() uint64 { return c.value.Relative }

// Current returns the current position.
func (c *Counter) Current() Position { return c.value }

// Depth returns the number of paused scopes.
func (c *Counter) Depth() int { return len(c.scopes) }

// Inc advances the position by n units.
func (c *Counter) Inc(n uint64) {
	c.value = c.value.Add(n)
}

// Align pads the relative position up to the next multiple of n.
func (c *Counter) Align(n uint64) {
	if n == 0 {
		panic("layout: zero alignment")
	}
	if rem := c.value.Relative % n; rem > 0 {
		c.Inc(n - rem)
	}
}

// AlignAbsolute pads the absolute position up to the next multiple of n.
func (c *Counter) AlignAbsolute(n uint64) {
	if n == 0 {
		panic("layout: zero alignment")
	}
	if rem := c.value.Absolute % n; rem > 0 {
		c.Inc(n - rem)
	}
}

// Pause saves the current position and starts a sub-scope at relative 0. The
// absolute position restarts at 0 when reset, and otherwise continues. The
// saved position is returned.
func (c *Counter) Pause(reset bool) Position {
	current := c.value
	c.scopes = append(c.scopes, current)
	c.value = Position{}
	if !reset {
		c.value.Absolute = current.Absolute
	}
	return current
}

// Restore ends the current sub-scope, returning its relative size. The
// resumed scope is not advanced.
func (c *Counter) Restore() uint64 {
	n := len(c.scopes)
	if n == 0 {
		panic("layout: restore without a paused scope")
	}
	size := c.value.Relative
	c.value = c.scopes[n-1]
	c.scopes = c.scopes[:n-1]
	return size
}

// RestoreInc ends the current sub-scope and advances the resumed scope by its
// size.
func (c *Counter) RestoreInc() uint64 {
	size := c.Restore()
	c.Inc(size)
	return size
}

// Rescale converts the absolute position of a freshly paused scope from
// units of from bits to units of to bits. The conversion must be exact.
func (c *Counter) Rescale(from, to uint64) {
	if c.value.Relative != 0 {
		panic("layout: rescale of a scope that has already advanced")
	}
	bits := c.value.Absolute * from
	if bits%to != 0 {
		panic(fmt.Sprintf("layout: absolute position %d (x%d bits) is not a multiple of %d bits",
			c.value.Absolute, from, to))
	}
	c.value.Absolute = bits / to
}
