package sanitization

import "strings"

// Context is the output location sanitized text is destined for.
type Context int

const (
	Unknown Context = iota
	Markup
	ScriptString
	URLComponent
)

func (c Context) String() string {
	switch c {
	case Markup:
		return "html"
	case ScriptString:
		return "js"
	case URLComponent:
		return "url"
	case Unknown:
		return "unknown"
	}
	return "unknown"
}

// ParseContext maps a client supplied context name onto a Context.
// Unrecognised names resolve to Unknown, which gets the strictest treatment.
func ParseContext(name string) Context {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "html", "markup":
		return Markup
	case "js", "javascript", "script", "script-string":
		return ScriptString
	case "url", "url-component":
		return URLComponent
	default:
		return Unknown
	}
}
