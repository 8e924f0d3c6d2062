package ingredient

import (
	"math"
	"strconv"
	"strings"
)

// DefaultFractionTolerance is how close a fractional remainder must be to a
// common culinary fraction for FormatAmount to render it as that fraction.
const DefaultFractionTolerance = 0.02

// Amount is a parsed ingredient quantity. A non-numeric amount ("to taste",
// "") keeps its raw string and is passed through scaling unchanged.
type Amount struct {
	Value   float64
	Raw     string
	Numeric bool
}

// commonFractions maps culinary fractions to their rendered form, ordered for
// deterministic nearest-match scanning.
var commonFractions = []struct {
	value float64
	text  string
}{
	{1.0 / 8.0, "1/8"},
	{1.0 / 4.0, "1/4"},
	{1.0 / 3.0, "1/3"},
	{1.0 / 2.0, "1/2"},
	{2.0 / 3.0, "2/3"},
	{3.0 / 4.0, "3/4"},
	{7.0 / 8.0, "7/8"},
}

// ParseAmount converts an amount string to an Amount. It recognizes integers
// ("2"), decimals ("1.5"), simple fractions ("1/2") and mixed numbers
// ("1 1/2"). Anything else parses to a non-numeric Amount that preserves the
// original string. It never fails.
func ParseAmount(s string) Amount {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{Raw: raw}
	}

	if strings.Contains(s, "/") {
		if fields := strings.Fields(s); len(fields) == 2 {
			// Mixed number: whole part plus fraction.
			whole, okWhole := parseFloat(fields[0])
			frac, okFrac := parseFraction(fields[1])
			if okWhole && okFrac {
				return Amount{Value: whole + frac, Raw: raw, Numeric: true}
			}
			return Amount{Raw: raw}
		}
		if frac, ok := parseFraction(s); ok {
			return Amount{Value: frac, Raw: raw, Numeric: true}
		}
		return Amount{Raw: raw}
	}

	if v, ok := parseFloat(s); ok {
		return Amount{Value: v, Raw: raw, Numeric: true}
	}
	return Amount{Raw: raw}
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func parseFraction(s string) (float64, bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, false
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, false
	}
	den, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || den == 0 {
		return 0, false
	}
	v := num / den
	if v < 0 {
		return 0, false
	}
	return v, true
}

// FormatAmount renders a numeric amount as a cook-friendly string. Integers
// render bare; when the fractional remainder (the value minus its integer
// part) is within tol of a common culinary fraction, the amount renders as a
// mixed number ("2 1/4") or plain fraction ("1/2"); otherwise the whole value
// is rounded to one decimal place. The remainder convention matches how the
// fraction table is defined: "2.25" formats as "2 1/4", not "2.3".
func FormatAmount(v float64, tol float64) string {
	if tol <= 0 {
		tol = DefaultFractionTolerance
	}

	if v == 0 {
		return "0"
	}

	if math.Abs(v-math.Round(v)) < 1e-9 {
		return strconv.Itoa(int(math.Round(v)))
	}

	whole := math.Floor(v)
	rem := v - whole
	for _, f := range commonFractions {
		if math.Abs(rem-f.value) < tol {
			if whole == 0 {
				return f.text
			}
			return strconv.Itoa(int(whole)) + " " + f.text
		}
	}

	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}
