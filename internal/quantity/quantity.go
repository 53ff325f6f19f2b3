// package quantity parses and merges free-form quantity strings ("500 g",
// "1½ kg", "2 Packungen; ½ TL").
//
// The server performs the authoritative merge when items are added; these
// helpers replicate its behaviour so optimistic list updates render exactly
// what the server will echo back.
package quantity

import (
	"regexp"
	"strconv"
	"strings"
)

// fractions maps unicode fraction characters to their decimal value.
var fractions = map[rune]float64{
	'½': 0.5,
	'¼': 0.25,
	'¾': 0.75,
	'⅓': 0.333,
	'⅔': 0.667,
	'⅕': 0.2,
	'⅖': 0.4,
	'⅗': 0.6,
	'⅘': 0.8,
	'⅙': 0.167,
	'⅚': 0.833,
	'⅐': 0.143,
	'⅑': 0.111,
	'⅛': 0.125,
	'⅜': 0.375,
	'⅝': 0.625,
	'⅞': 0.875,
}

var (
	fractionRe = regexp.MustCompile(`^(-?)(\d*)([½¼¾⅓⅔⅕⅖⅗⅘⅙⅚⅐⅑⅛⅜⅝⅞])\s*(.*)$`)
	numberRe   = regexp.MustCompile(`^(-?\d+(?:[.,]\d+)?)\s*(.*)$`)
)

// Parse splits a quantity string into number and unit. Negative numbers mean
// subtraction. Unicode fractions ("½", "1½") and comma decimals ("1,5") are
// accepted. ok is false when the string has no leading number.
func Parse(menge string) (number float64, unit string, ok bool) {
	s := strings.TrimSpace(menge)
	if s == "" {
		return 0, "", false
	}

	if m := fractionRe.FindStringSubmatch(s); m != nil {
		frac := fractions[[]rune(m[3])[0]]
		n := frac
		if m[2] != "" {
			whole, err := strconv.Atoi(m[2])
			if err != nil {
				return 0, "", false
			}
			n = float64(whole) + frac
		}
		if m[1] == "-" {
			n = -n
		}
		return n, strings.TrimSpace(m[4]), true
	}

	if m := numberRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil {
			return 0, "", false
		}
		return n, strings.TrimSpace(m[2]), true
	}

	return 0, "", false
}

// Format renders a number/unit pair the way the server does: whole numbers
// without decimals, fractional values with a comma separator.
func Format(number float64, unit string) string {
	var s string
	if number == float64(int64(number)) {
		s = strconv.FormatInt(int64(number), 10)
	} else {
		s = strings.ReplaceAll(strconv.FormatFloat(number, 'f', -1, 64), ".", ",")
	}
	if unit != "" {
		return s + " " + unit
	}
	return s
}

// Merge combines two quantity strings. Both sides may be semicolon-separated
// lists; parts with matching units are summed (negative values subtract),
// parts that drop to zero or below are removed, unmatched positive parts are
// appended. The empty string is returned when everything cancels out.
//
//	Merge("500 g", "300 g")              == "800 g"
//	Merge("500 g", "-300 g")             == "200 g"
//	Merge("500 g", "-600 g")             == ""
//	Merge("500 g; 2 Packungen", "300 g") == "800 g; 2 Packungen"
//	Merge("500 g", "2 Packungen")        == "500 g; 2 Packungen"
func Merge(existing, incoming string) string {
	existing = strings.TrimSpace(existing)
	incoming = strings.TrimSpace(incoming)

	if existing == "" {
		if n, _, ok := Parse(incoming); ok && n < 0 {
			return "" // can't subtract from nothing
		}
		return incoming
	}
	if incoming == "" {
		return existing
	}

	result := existing
	for _, part := range strings.Split(incoming, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		result = mergePart(result, part)
	}

	return strings.TrimSpace(result)
}

// mergePart folds a single quantity part into a semicolon-separated list.
func mergePart(existing, part string) string {
	parts := splitParts(existing)
	newNum, newUnit, parsable := Parse(part)

	if !parsable {
		return joinParts(append(parts, part))
	}

	matched := false
	var merged []string
	for _, p := range parts {
		num, unit, ok := Parse(p)
		if ok && unit == newUnit && !matched {
			matched = true
			if total := num + newNum; total > 0 {
				merged = append(merged, Format(total, unit))
			}
			continue
		}
		merged = append(merged, p)
	}

	if !matched && newNum > 0 {
		merged = append(merged, part)
	}

	return joinParts(merged)
}

func splitParts(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ";") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func joinParts(parts []string) string {
	return strings.Join(parts, "; ")
}

// umlauts folds German umlauts so "Moehre" and "Möhre" compare equal.
var umlauts = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")

// NormalizeName lowercases a name and folds German umlauts, matching the
// server's duplicate detection. Used locally to highlight likely merges
// before the server answers.
func NormalizeName(name string) string {
	return umlauts.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// Scale multiplies every parsable part of a quantity list by factor,
// used when applying a template or recipe for a different person count.
// Unparsable parts are kept untouched.
func Scale(menge string, factor float64) string {
	if factor <= 0 {
		return menge
	}
	parts := splitParts(menge)
	if len(parts) == 0 {
		return menge
	}
	scaled := make([]string, 0, len(parts))
	for _, p := range parts {
		if num, unit, ok := Parse(p); ok {
			scaled = append(scaled, Format(roundQuantity(num*factor), unit))
			continue
		}
		scaled = append(scaled, p)
	}
	return joinParts(scaled)
}

func roundQuantity(v float64) float64 {
	// two decimals is plenty for kitchen quantities
	s := strconv.FormatFloat(v, 'f', 2, 64)
	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return v
	}
	return r
}
