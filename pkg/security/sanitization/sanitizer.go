// Package sanitization renders untrusted text safe for a declared output context.
package sanitization

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var markupElements = []string{"b", "i", "u", "em", "strong", "p", "br"}

// Sanitizer holds prebuilt policies. Policies are read-only after construction,
// so a single Sanitizer can be shared between goroutines.
type Sanitizer struct {
	markup *bluemonday.Policy
	strict *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		markup: newMarkupPolicy(),
		strict: bluemonday.StrictPolicy(),
	}
}

func newMarkupPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(markupElements...)
	p.AllowAttrs("href", "title").OnElements("a")
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("http", "https", "mailto")
	return p
}

// Sanitize never fails. Every Context value has an explicit branch.
func (s *Sanitizer) Sanitize(text string, ctx Context) string {
	switch ctx {
	case Markup:
		return s.markup.Sanitize(text)
	case ScriptString:
		return EncodeScriptString(text)
	case URLComponent:
		return EncodeURLComponent(text)
	case Unknown:
		return s.strict.Sanitize(text)
	}
	return s.strict.Sanitize(text)
}

const hexDigits = "0123456789ABCDEF"

// EncodeScriptString escapes text for the inside of a quoted JavaScript string
// literal. The output is also a valid JSON string body. Invalid UTF-8 bytes
// become U+FFFD.
func EncodeScriptString(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\'', '<', '>', '&', '`', '\u2028', '\u2029':
			writeUnicodeEscape(&b, r)
		default:
			if r < 0x20 || r == 0x7f {
				writeUnicodeEscape(&b, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func writeUnicodeEscape(b *strings.Builder, r rune) {
	b.WriteString(`\u`)
	b.WriteByte(hexDigits[(r>>12)&0xF])
	b.WriteByte(hexDigits[(r>>8)&0xF])
	b.WriteByte(hexDigits[(r>>4)&0xF])
	b.WriteByte(hexDigits[r&0xF])
}

// EncodeURLComponent percent-encodes every byte outside the RFC 3986
// unreserved set.
func EncodeURLComponent(text string) string {
	var b strings.Builder
	b.Grow(len(text) * 3)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0xF])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
