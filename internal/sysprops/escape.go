// Package sysprops lists environment variables and process properties in
// property-file format.
package sysprops

import "strings"

const hexDigits = "0123456789ABCDEF"

// Key escapes a property key. Spaces are always escaped.
func Key(key string) string {
	return Escape(key, true, true)
}

// Value escapes a property value. Only a leading space is escaped.
func Value(value string) string {
	return Escape(value, false, true)
}

// Escape converts s to property-file format.
//
// Backslash, tab, newline, carriage return, form feed and the separators
// '=', ':', '#' and '!' are escaped with a backslash. A space is escaped
// when escapeSpace is set or when it is the first character. With
// escapeUnicode set, characters outside printable ASCII are written as
// \uXXXX (UTF-16 code units, so characters above U+FFFF become a
// surrogate pair).
func Escape(s string, escapeSpace, escapeUnicode bool) string {
	var sb strings.Builder
	sb.Grow(len(s) * 2)
	for i, r := range s {
		switch {
		case r > '=' && r < 0x7f:
			if r == '\\' {
				sb.WriteString(`\\`)
				continue
			}
			sb.WriteRune(r)
		case r == ' ':
			if i == 0 || escapeSpace {
				sb.WriteByte('\\')
			}
			sb.WriteByte(' ')
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\f':
			sb.WriteString(`\f`)
		case r == '=', r == ':', r == '#', r == '!':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case escapeUnicode && (r < 0x20 || r > 0x7e):
			if r > 0xffff {
				r -= 0x10000
				writeUnicode(&sb, 0xd800+(r>>10))
				writeUnicode(&sb, 0xdc00+(r&0x3ff))
				continue
			}
			writeUnicode(&sb, r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func writeUnicode(sb *strings.Builder, r rune) {
	sb.WriteString(`\u`)
	sb.WriteByte(hexDigits[(r>>12)&0xf])
	sb.WriteByte(hexDigits[(r>>8)&0xf])
	sb.WriteByte(hexDigits[(r>>4)&0xf])
	sb.WriteByte(hexDigits[r&0xf])
}
