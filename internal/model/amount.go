package model

// ValidDiscountAmount reports whether s is acceptable discount amount
// text. Empty is fine (cleared field), as is a partial value like "12."
// mid-edit. Anything containing a non-numeric rune is rejected; callers
// keep the prior value instead of surfacing an error.
func ValidDiscountAmount(s string) bool {
	dots := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
