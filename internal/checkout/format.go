package checkout

import "strings"

// Input masks for the payment step. These reformat what the shopper has
// typed so far; they are not validation and must never corrupt digits
// that are already valid.

// FormatCardNumber keeps at most 16 digits and groups them in blocks of
// four separated by spaces.
func FormatCardNumber(input string) string {
	digits := digitsOnly(input, 16)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(d)
	}

	return b.String()
}

// FormatExpiry keeps at most four digits and inserts the slash after the
// first two, yielding the MM/YY shape.
func FormatExpiry(input string) string {
	digits := digitsOnly(input, 4)
	if len(digits) <= 2 {
		return digits
	}

	return digits[:2] + "/" + digits[2:]
}

// FormatCVV keeps at most four digits.
func FormatCVV(input string) string {
	return digitsOnly(input, 4)
}

func digitsOnly(input string, max int) string {
	var b strings.Builder
	for _, r := range input {
		if r < '0' || r > '9' {
			continue
		}
		if b.Len() == max {
			break
		}
		b.WriteRune(r)
	}

	return b.String()
}
