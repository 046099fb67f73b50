// Package sanitize cleans user-submitted review text.
package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

var allowedTags = map[string]struct{}{
	"b":      {},
	"i":      {},
	"u":      {},
	"em":     {},
	"strong": {},
}

// Comment strips every HTML element except the inline formatting allowlist
// (b, i, u, em, strong). Attributes are always dropped, disallowed tags are
// removed while their text is kept, comments and doctypes disappear, and text
// is re-escaped. Allowed tags are balanced in the output, so
// Comment(Comment(x)) == Comment(x).
func Comment(s string) string {
	if s == "" {
		return ""
	}

	var (
		buf  strings.Builder
		open []string
	)
	z := html.NewTokenizer(strings.NewReader(s))
	// Tokenizer errors other than io.EOF cannot occur on a strings.Reader.
	for tt := z.Next(); tt != html.ErrorToken; tt = z.Next() {
		tok := z.Token()
		switch tt {
		case html.TextToken:
			buf.WriteString(html.EscapeString(tok.Data))
		case html.StartTagToken:
			if _, ok := allowedTags[tok.Data]; ok {
				writeTag(&buf, tok.Data, false)
				open = append(open, tok.Data)
			}
		case html.SelfClosingTagToken:
			if _, ok := allowedTags[tok.Data]; ok {
				writeTag(&buf, tok.Data, false)
				writeTag(&buf, tok.Data, true)
			}
		case html.EndTagToken:
			if _, ok := allowedTags[tok.Data]; !ok {
				continue
			}
			idx := lastIndex(open, tok.Data)
			if idx < 0 {
				continue
			}
			for j := len(open) - 1; j >= idx; j-- {
				writeTag(&buf, open[j], true)
			}
			open = open[:idx]
		}
	}

	for j := len(open) - 1; j >= 0; j-- {
		writeTag(&buf, open[j], true)
	}
	return buf.String()
}

func writeTag(buf *strings.Builder, name string, closing bool) {
	buf.WriteByte('<')
	if closing {
		buf.WriteByte('/')
	}
	buf.WriteString(name)
	buf.WriteByte('>')
}

func lastIndex(stack []string, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == name {
			return i
		}
	}
	return -1
}
