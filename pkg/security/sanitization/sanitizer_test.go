package sanitization

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseContext(t *testing.T) {
	tests := map[string]Context{
		"html":          Markup,
		"Markup":        Markup,
		"js":            ScriptString,
		"script-string": ScriptString,
		"url":           URLComponent,
		" URL ":         URLComponent,
		"css":           Unknown,
		"":              Unknown,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseContext(input), "input %q", input)
	}
}

func TestSanitizer_Markup(t *testing.T) {
	s := NewSanitizer()

	t.Run("script removed with content", func(t *testing.T) {
		assert.Equal(t, "", s.Sanitize("<script>alert(1)</script>", Markup))
	})

	t.Run("image with handler removed", func(t *testing.T) {
		assert.Equal(t, "", s.Sanitize("<img src=x onerror=alert(1)>", Markup))
	})

	t.Run("allowed formatting kept", func(t *testing.T) {
		assert.Equal(t, "Hello <b>world</b>", s.Sanitize("Hello <b>world</b>", Markup))
	})

	t.Run("disallowed attributes stripped", func(t *testing.T) {
		assert.Equal(t, "<p>hi</p>", s.Sanitize(`<p onclick="alert(1)" style="color:red">hi</p>`, Markup))
	})

	t.Run("safe link kept", func(t *testing.T) {
		out := s.Sanitize(`<a href="https://example.com" title="t">x</a>`, Markup)
		assert.Equal(t, `<a href="https://example.com" title="t">x</a>`, out)
	})

	t.Run("javascript link dropped", func(t *testing.T) {
		out := s.Sanitize(`<a href="javascript:alert(1)">x</a>`, Markup)
		assert.NotContains(t, strings.ToLower(out), "javascript")
		assert.Contains(t, out, "x")
	})

	t.Run("text is escaped", func(t *testing.T) {
		assert.Equal(t, "1 &lt; 2", s.Sanitize("1 < 2", Markup))
	})
}

func TestSanitizer_Unknown(t *testing.T) {
	s := NewSanitizer()

	assert.Equal(t, "Hello world", s.Sanitize("Hello <b>world</b>", Unknown))
	assert.Equal(t, "", s.Sanitize("<script>alert(1)</script>", Unknown))
}

func TestSanitizer_ScriptString(t *testing.T) {
	s := NewSanitizer()

	for _, input := range []string{"a\"b\nc", `a"b\nc`} {
		out := s.Sanitize(input, ScriptString)
		var decoded string
		require.NoError(t, json.Unmarshal([]byte(`"`+out+`"`), &decoded))
		assert.Equal(t, input, decoded)
	}

	out := s.Sanitize(`</script><script>alert('x')</script>`, ScriptString)
	assert.NotContains(t, out, "<")
	assert.NotContains(t, out, "'")
	assert.Equal(t, `\u003C/script\u003E`, EncodeScriptString("</script>"))
}

func TestSanitizer_URLComponent(t *testing.T) {
	s := NewSanitizer()

	assert.Equal(t, "a%20b%26c", s.Sanitize("a b&c", URLComponent))
	assert.Equal(t, "A-z_0.9~", s.Sanitize("A-z_0.9~", URLComponent))
	assert.Equal(t, "%2F%3F%3D%2B%C3%A9", s.Sanitize("/?=+é", URLComponent))
}

var markupFragments = []string{
	"<b>", "</b>", "<i>", "<p>", "</p>", "<br>", "<br/>", "<em>", "</strong>",
	`<a href="https://example.com">`, `<a href="javascript:alert(1)">`, `<a title="t&q">`, "</a>",
	"<script>", "</script>", "<ScRiPt src=x>", "<iframe src=x>", "<IFRAME>", "<object>", "<embed src=x>",
	"<img src=x onerror=alert(1)>", "<svg onload=alert(1)>", "<style>", "</style>",
	"hello", " ", "\n", "&", "&amp;", "\"", "'", "<", ">", "é", "javascript:",
}

func markupInput() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		parts := rapid.SliceOfN(rapid.SampledFrom(markupFragments), 0, 40).Draw(t, "parts")
		return strings.Join(parts, "")
	})
}

func TestSanitizer_MarkupNeverEmitsActiveElements(t *testing.T) {
	s := NewSanitizer()
	rapid.Check(t, func(t *rapid.T) {
		out := strings.ToLower(s.Sanitize(markupInput().Draw(t, "input"), Markup))
		for _, tag := range []string{"<script", "<iframe", "<object", "<embed"} {
			if strings.Contains(out, tag) {
				t.Fatalf("output %q contains %s", out, tag)
			}
		}
	})
}

func TestSanitizer_MarkupIdempotent(t *testing.T) {
	s := NewSanitizer()
	rapid.Check(t, func(t *rapid.T) {
		once := s.Sanitize(markupInput().Draw(t, "input"), Markup)
		twice := s.Sanitize(once, Markup)
		if once != twice {
			t.Fatalf("not idempotent: %q then %q", once, twice)
		}
	})
}

func TestEncodeScriptString_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.String().Draw(t, "input")
		out := EncodeScriptString(input)
		if strings.ContainsAny(out, "'<>&\n") {
			t.Fatalf("unescaped character in %q", out)
		}
		var decoded string
		if err := json.Unmarshal([]byte(`"`+out+`"`), &decoded); err != nil {
			t.Fatalf("output %q is not a valid string body: %v", out, err)
		}
		if decoded != input {
			t.Fatalf("round trip mismatch: %q != %q", decoded, input)
		}
	})
}

func TestEncodeURLComponent_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := string(rapid.SliceOf(rapid.Byte()).Draw(t, "input"))
		out := EncodeURLComponent(input)
		decoded, err := url.PathUnescape(out)
		if err != nil {
			t.Fatalf("unescape %q: %v", out, err)
		}
		if decoded != input {
			t.Fatalf("round trip mismatch: %q != %q", decoded, input)
		}
	})
}
