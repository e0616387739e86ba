package sqlvalue

import "strings"

// IsLike reports whether v is a string holding an unescaped % or _
// wildcard, meaning a condition on it must use LIKE rather than =.
func IsLike(v any) bool {
	var s string
	switch v := v.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return false
	}
	wildcards := strings.Count(s, "%") + strings.Count(s, "_")
	escaped := strings.Count(s, `\%`) + strings.Count(s, `\_`)
	return wildcards > escaped
}

// EscapeLike escapes the LIKE wildcards of s so that it only matches itself.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// UnescapeLike removes the backslash escapes of a LIKE pattern, giving the
// text it matches when it holds no wildcard.
func UnescapeLike(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Operator returns the comparison operator matching v.
func Operator(v any) string {
	if IsLike(v) {
		return "LIKE"
	}
	return "="
}

// Condition renders the predicate comparing column to v.
func Condition(column string, v any) string {
	if v == nil {
		return Backquote(column) + " IS NULL"
	}
	return Backquote(column) + " " + Operator(v) + " " + Escape(v, false)
}

// Backquote quotes a MySQL identifier, doubling embedded backquotes.
func Backquote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// MatchLike reports whether s matches the LIKE pattern: % matches any run
// of characters, _ exactly one, and a backslash escapes the next character.
// Matching is case sensitive.
func MatchLike(pattern, s string) bool {
	p, str := []rune(pattern), []rune(s)
	var match func(i, j int) bool
	match = func(i, j int) bool {
		for i < len(p) {
			switch p[i] {
			case '%':
				for i < len(p) && p[i] == '%' {
					i++
				}
				if i == len(p) {
					return true
				}
				for k := j; k <= len(str); k++ {
					if match(i, k) {
						return true
					}
				}
				return false
			case '_':
				if j == len(str) {
					return false
				}
			case '\\':
				if i+1 < len(p) {
					i++
				}
				fallthrough
			default:
				if j == len(str) || str[j] != p[i] {
					return false
				}
			}
			i++
			j++
		}
		return j == len(str)
	}
	return match(0, 0)
}
