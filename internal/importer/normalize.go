package importer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// StripAccents removes diacritical marks via NFD decomposition, so that
// "CÉDULA" and "CEDULA" compare equal during header lookup.
func StripAccents(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeHeader upper-cases a header cell and strips accents, whitespace
// and dots, so header order, spacing and case never cause a lookup miss.
func NormalizeHeader(s string) string {
	s = StripAccents(strings.TrimSpace(s))
	s = strings.ToUpper(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeCedula coerces a national ID to its canonical digit-only form:
// 9 digits get one leading zero, 10 digits pass through, anything else is
// returned as its digit string unchanged. Idempotent.
func NormalizeCedula(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) == 9 {
		return "0" + d
	}
	return d
}

// NormalizeDate coerces DD/MM/YYYY, DD-MM-YYYY or YYYY-MM-DD into canonical
// YYYY-MM-DD. When the first numeric group exceeds 31 it is taken as the
// year, which is how YYYY-MM-DD inputs are recognized.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty date")
	}

	sep := "/"
	if !strings.Contains(s, "/") {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return "", fmt.Errorf("unrecognized date format: %q", s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return "", fmt.Errorf("unrecognized date format: %q", s)
		}
		nums[i] = n
	}

	var year, month, day int
	if nums[0] > 31 {
		year, month, day = nums[0], nums[1], nums[2]
	} else {
		day, month, year = nums[0], nums[1], nums[2]
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", fmt.Errorf("date out of range: %q", s)
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

// ParseAmount strips currency symbols and grouping separators and parses the
// remainder as a float. Malformed input maps to 0, which is what real-world
// payroll exports expect for blank or dashed cells.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")
	switch {
	case hasComma && hasDot:
		// The rightmost separator is the decimal mark; drop the other.
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		if strings.Count(cleaned, ",") > 1 {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		}
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseInt is ParseAmount truncated to an integer.
func ParseInt(s string) int {
	return int(ParseAmount(s))
}
