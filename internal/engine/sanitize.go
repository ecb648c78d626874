package engine

// SanitizeBit resolves one raw logic character against the previous clean
// value of the same column:
//
//	0/1 -> unchanged
//	z/Z -> 1 (line released, pull-up wins)
//	x/X -> previous clean value, or 1 with no history
//
// The result is always '0' or '1'.
func SanitizeBit(raw, prev byte) byte {
	switch raw {
	case '0', '1':
		return raw
	case 'z', 'Z':
		return '1'
	}
	if prev == '0' || prev == '1' {
		return prev
	}
	return '1'
}

// vectorBit extracts the raw character for one bit of a bus payload.
//
// Payloads are right-justified against the declared width: missing
// leading positions repeat the payload's own leading character when that
// character is x/z, else '0'. An offset beyond the padded payload reads
// as unresolved.
func vectorBit(bits string, offset, width int) byte {
	if len(bits) == 0 {
		return 'x'
	}
	pad := byte('0')
	switch bits[0] {
	case 'x', 'X', 'z', 'Z':
		pad = bits[0]
	}
	padded := len(bits)
	if width > padded {
		padded = width
	}
	if offset >= padded {
		return 'x'
	}
	shift := padded - len(bits)
	if offset < shift {
		return pad
	}
	return bits[offset-shift]
}
