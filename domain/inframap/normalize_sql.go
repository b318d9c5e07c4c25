package inframap

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	identSeparator = regexp.MustCompile(`\s*\.\s*`)
)

// NormalizeSQL canonicalizes a SQL statement so that purely cosmetic
// differences (backtick quoting, keyword case, extra whitespace, and an
// explicit `defaultDatabase.` qualifier on table references) never cause
// two equivalent statements to compare unequal. It is not a parser: it is
// the same pragmatic text-normalization approach original_source takes
// when deciding whether a CustomView's SQL actually changed.
func NormalizeSQL(sql string, defaultDatabase string) string {
	out := strings.ReplaceAll(sql, "`", "")
	out = strings.ReplaceAll(out, `"`, "")
	out = identSeparator.ReplaceAllString(out, ".")
	out = whitespaceRun.ReplaceAllString(out, " ")
	out = strings.TrimSpace(out)
	out = strings.ToLower(out)

	if defaultDatabase != "" {
		prefix := strings.ToLower(defaultDatabase) + "."
		out = stripQualifierPrefix(out, prefix)
	}

	return out
}

// stripQualifierPrefix removes every occurrence of "<prefix>" that
// immediately follows a token boundary, so "select * from db.events" and
// "select * from events" normalize identically when defaultDatabase is
// "db". It avoids stripping the prefix out of an unrelated identifier like
// "dbEvents" by requiring the prefix be preceded by start-of-string or a
// non-identifier character.
func stripQualifierPrefix(s, prefix string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], prefix) && (i == 0 || !isIdentByte(s[i-1])) {
			i += len(prefix)
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
