package layout

// gcd returns the greatest common divisor of a and b.
func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ceilDiv returns ceil(n / d). d must be non zero.
func ceilDiv(n, d uint64) uint64 {
	return (n + d - 1) / d
}

// Mask returns a mask with the low width bits set, saturating at 64 bits.
func Mask(width uint64) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<width - 1
}

// jointAlignment returns the number of outer and inner words that make up the
// smallest boundary shared by both word widths:
//
//	nOuter*wOuter == nInner*wInner == lcm(wOuter, wInner)
func jointAlignment(wOuter, wInner uint64) (nOuter, nInner uint64) {
	g := gcd(wOuter, wInner)
	return wInner / g, wOuter / g
}
