package version

import (
	"regexp"
	"strings"
)

// regexEscape escapes the characters regexp.QuoteMeta escapes; used as the
// authoritative substitution-time escaper so every Substitute caller
// performs byte-identical escaping.
func regexEscape(s string) string { return regexp.QuoteMeta(s) }

// Substitute performs a purely lexical, single-pass verbatim replacement of
// every token in m against s. When escape is true, replacement values are
// passed through a regex-metacharacter escaper before insertion — callers
// substituting into a regex (or a JSONPath expression with a "=~" regex
// filter) should set this.
//
// Tokens are replaced one after another, each over the output of the
// previous replacement, in map iteration order: when a replacement value
// contains another token of m, whether that token is replaced again
// depends on that order. When no replacement value contains a token of m,
// every order gives the same result.
func Substitute(s string, m SubstitutionMap, escape bool) string {
	if len(m) == 0 {
		return s
	}
	return substituteString(s, m, escape)
}

func substituteString(s string, m SubstitutionMap, escape bool) string {
	for token, repl := range m {
		if escape {
			repl = regexEscape(repl)
		}
		s = strings.ReplaceAll(s, token, repl)
	}
	return s
}

// SubstituteSlice applies Substitute to every element of ss.
func SubstituteSlice(ss []string, m SubstitutionMap, escape bool) []string {
	if ss == nil {
		return nil
	}
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = Substitute(s, m, escape)
	}
	return out
}

// SubstituteNested applies Substitute recursively across a nested
// []interface{}/string value tree, as produced by decoding a manifest's
// "bin"/"shortcuts"/"persist"/"env_set" fields which may be either a flat
// array of strings or an array of string-arrays.
func SubstituteNested(v any, m SubstitutionMap, escape bool) any {
	switch t := v.(type) {
	case string:
		return Substitute(t, m, escape)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = SubstituteNested(e, m, escape)
		}
		return out
	case []string:
		return SubstituteSlice(t, m, escape)
	default:
		return v
	}
}
