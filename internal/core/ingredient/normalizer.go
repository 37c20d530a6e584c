package ingredient

import "strings"

// DefaultMax caps how many normalized ingredients a search uses.
const DefaultMax = 6

// filipinoToEnglish maps exact Filipino ingredient names to their
// English equivalents. Keys are already lowercase.
var filipinoToEnglish = map[string]string{
	"sibuyas":   "onion",
	"bawang":    "garlic",
	"kamatis":   "tomato",
	"patatas":   "potato",
	"talong":    "eggplant",
	"manok":     "chicken",
	"baboy":     "pork",
	"baka":      "beef",
	"isda":      "fish",
	"asukal":    "sugar",
	"toyo":      "soy sauce",
	"suka":      "vinegar",
	"sitaw":     "string beans",
	"kangkong":  "water spinach",
	"pechay":    "bok choy",
	"kalabasa":  "squash",
	"ampalaya":  "bitter gourd",
	"labanos":   "radish",
	"sili":      "chili",
	"tokwa":     "tofu",
	"tahong":    "mussels",
	"malunggay": "moringa",
}

// digitToLetter repairs the common texting typos 0→o 1→l 3→e 4→a 5→s 7→t.
var digitToLetter = map[rune]rune{
	'0': 'o',
	'1': 'l',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
}

// brandAndVagueTerms are seasoning brands and filler words that carry
// no search value against a recipe index.
var brandAndVagueTerms = map[string]bool{
	"knorr":          true,
	"maggi":          true,
	"magic sarap":    true,
	"nor":            true,
	"del monte":      true,
	"mama sita":      true,
	"ajinomoto":      true,
	"mccormick":      true,
	"seasoning":      true,
	"mix":            true,
	"flavor":         true,
	"flavour":        true,
	"taste enhancer": true,
}

// irregularSingulars are plural forms the generic trailing-s rule would
// mangle or miss.
var irregularSingulars = map[string]string{
	"tomatoes": "tomato",
	"potatoes": "potato",
	"onions":   "onion",
	"eggs":     "egg",
	"peppers":  "pepper",
	"beans":    "bean",
	"leaves":   "leaf",
	"cloves":   "clove",
}

// Normalize turns raw, free-text ingredient input into a canonical,
// deduplicated list of at most max search terms. It never fails: garbage
// input simply yields fewer items.
//
// Each input goes through, in order: lowercase + trim, punctuation strip
// with whitespace collapse, digit typo repair, exact Filipino→English
// translation, singularization, and brand/vague-term rejection. Survivors
// are deduplicated preserving first-occurrence order, then capped.
func Normalize(inputs []string, max int) []string {
	if max <= 0 {
		max = DefaultMax
	}

	out := make([]string, 0, max)
	seen := make(map[string]bool, len(inputs))

	for _, raw := range inputs {
		s := strings.TrimSpace(strings.ToLower(raw))
		if s == "" {
			continue
		}

		s = stripPunctuation(s)
		if s == "" {
			continue
		}

		s = fixDigitTypos(s)

		if english, ok := filipinoToEnglish[s]; ok {
			s = english
		}

		s = singularize(s)

		if brandAndVagueTerms[s] {
			continue
		}

		if seen[s] {
			continue
		}
		seen[s] = true

		out = append(out, s)
		if len(out) == max {
			break
		}
	}

	return out
}

// NormalizeDefault is Normalize with the default cap.
func NormalizeDefault(inputs []string) []string {
	return Normalize(inputs, DefaultMax)
}

// stripPunctuation replaces everything outside ASCII letters, digits and
// whitespace with a space, then collapses whitespace runs.
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func fixDigitTypos(s string) string {
	return strings.Map(func(r rune) rune {
		if letter, ok := digitToLetter[r]; ok {
			return letter
		}
		return r
	}, s)
}

// singularize applies the irregular table first, then the generic rule:
// a single word longer than 3 runes drops a trailing s. Multi-word
// phrases are left alone, so "string beans" stays plural.
func singularize(s string) string {
	if singular, ok := irregularSingulars[s]; ok {
		return singular
	}
	if !strings.Contains(s, " ") && len(s) > 3 && strings.HasSuffix(s, "s") {
		return s[:len(s)-1]
	}
	return s
}
