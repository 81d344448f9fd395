// Package casing provides the naming conventions keys can be converted into.
package casing

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownConvention is returned by Parse for names it does not recognise.
var ErrUnknownConvention = errors.New("unknown case convention")

// Convention is a naming style for object keys.
type Convention int

const (
	_ Convention = iota
	// Snake joins lower case words with '_'.
	// i.e.: my_key_name
	Snake
	// ScreamingSnake joins upper case words with '_'.
	// i.e.: MY_KEY_NAME
	ScreamingSnake
	// Camel capitalises every word but the first, without separators.
	// i.e.: myKeyName
	Camel
	// Pascal capitalises every word, without separators.
	// i.e.: MyKeyName
	Pascal
	// Kebab joins lower case words with '-'.
	// i.e.: my-key-name
	Kebab
	// ScreamingKebab joins upper case words with '-'.
	// i.e.: MY-KEY-NAME
	ScreamingKebab
	// Train joins capitalised words with '-'.
	// i.e.: My-Key-Name
	Train
	// Dot joins lower case words with '.'.
	// i.e.: my.key.name
	Dot
	// Flat concatenates lower case words.
	// i.e.: mykeyname
	Flat
	// UpperFlat concatenates upper case words.
	// i.e.: MYKEYNAME
	UpperFlat
	// Lower joins lower case words with spaces.
	// i.e.: my key name
	Lower
	// Upper joins upper case words with spaces.
	// i.e.: MY KEY NAME
	Upper
	// Title joins capitalised words with spaces.
	// i.e.: My Key Name
	Title
)

var names = map[Convention]string{
	Snake:          "snake",
	ScreamingSnake: "screaming_snake",
	Camel:          "camel",
	Pascal:         "pascal",
	Kebab:          "kebab",
	ScreamingKebab: "screaming_kebab",
	Train:          "train",
	Dot:            "dot",
	Flat:           "flat",
	UpperFlat:      "upper_flat",
	Lower:          "lower",
	Upper:          "upper",
	Title:          "title",
}

// aliases maps normalised spellings to conventions. See normalize.
var aliases = map[string]Convention{
	"snake":          Snake,
	"screamingsnake": ScreamingSnake,
	"uppersnake":     ScreamingSnake,
	"constant":       ScreamingSnake,
	"camel":          Camel,
	"lowercamel":     Camel,
	"pascal":         Pascal,
	"uppercamel":     Pascal,
	"kebab":          Kebab,
	"screamingkebab": ScreamingKebab,
	"upperkebab":     ScreamingKebab,
	"cobol":          ScreamingKebab,
	"train":          Train,
	"dot":            Dot,
	"flat":           Flat,
	"upperflat":      UpperFlat,
	"lower":          Lower,
	"upper":          Upper,
	"title":          Title,
}

// All returns every supported convention.
func All() []Convention {
	return []Convention{
		Snake, ScreamingSnake, Camel, Pascal, Kebab, ScreamingKebab, Train,
		Dot, Flat, UpperFlat, Lower, Upper, Title,
	}
}

// Parse returns the convention called name.
// Matching ignores case, '-', '_', spaces and a trailing "case", so
// "snake_case", "SnakeCase" and "snake" are all Snake.
func Parse(name string) (Convention, error) {
	if c, ok := aliases[normalize(name)]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownConvention, name)
}

func normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("-", "", "_", "", " ", "").Replace(n)
	if n != "case" {
		n = strings.TrimSuffix(n, "case")
	}
	return n
}

// String returns the canonical name of c.
func (c Convention) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether c is a known convention.
func (c Convention) Valid() bool {
	_, ok := names[c]
	return ok
}

// style describes how a convention joins lower case words.
type style struct {
	sep         string
	first, rest func(string) string
}

func same(s string) string { return s }

var styles = map[Convention]style{
	Snake:          {"_", same, same},
	ScreamingSnake: {"_", upper, upper},
	Camel:          {"", same, capitalize},
	Pascal:         {"", capitalize, capitalize},
	Kebab:          {"-", same, same},
	ScreamingKebab: {"-", upper, upper},
	Train:          {"-", capitalize, capitalize},
	Dot:            {".", same, same},
	Flat:           {"", same, same},
	UpperFlat:      {"", upper, upper},
	Lower:          {" ", same, same},
	Upper:          {" ", upper, upper},
	Title:          {" ", capitalize, capitalize},
}

func (st style) join(words []string) string {
	var sb strings.Builder
	for i, w := range words {
		w = lower(w)
		if i == 0 {
			sb.WriteString(st.first(w))
			continue
		}
		sb.WriteString(st.sep)
		sb.WriteString(st.rest(w))
	}
	return sb.String()
}

// Apply converts s into convention c.
// An invalid convention returns s unchanged.
func (c Convention) Apply(s string) string {
	st, ok := styles[c]
	if !ok {
		return s
	}
	// strcase only understands ASCII.
	if !isASCII(s) {
		return st.join(splitWords(s))
	}

	switch c {
	case Snake:
		return strcase.ToSnake(s)
	case ScreamingSnake:
		return strcase.ToScreamingSnake(s)
	case Camel:
		return strcase.ToLowerCamel(s)
	case Pascal:
		return strcase.ToCamel(s)
	case Kebab:
		return strcase.ToKebab(s)
	case ScreamingKebab:
		return strcase.ToScreamingKebab(s)
	default:
		return st.join(strings.Fields(strcase.ToDelimited(s, ' ')))
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
}

// splitWords breaks s into words at separators, at lower to upper case
// changes, between letters and digits, and before the last capital of an
// acronym ("HTTPServer" gives "HTTP", "Server"). Letters without case, such
// as CJK ideographs, never start a word on their own.
func splitWords(s string) []string {
	runes := []rune(s)
	var words []string
	start := -1
	for i, r := range runes {
		if isSeparator(r) {
			if start >= 0 {
				words = append(words, string(runes[start:i]))
				start = -1
			}
			continue
		}
		if start >= 0 && isBoundary(runes, i) {
			words = append(words, string(runes[start:i]))
			start = i
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, string(runes[start:]))
	}
	return words
}

// isBoundary reports whether a word starts at runes[i], given runes[i-1]
// belongs to the current word.
func isBoundary(runes []rune, i int) bool {
	prev, r := runes[i-1], runes[i]
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(r):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(r), unicode.IsLetter(prev) && unicode.IsDigit(r):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(r):
		return i+1 < len(runes) && unicode.IsLower(runes[i+1])
	}
	return false
}

// Casers keep state between calls, so a fresh one is built each time.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// capitalize title-cases the first rune of a lower case word.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}
