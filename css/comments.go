package css

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// StripComments returns text with every comment replaced by a single space.
// Everything else, whitespace included, is kept as lexed.
func StripComments(text string) string {
	if !strings.Contains(text, "/*") {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))

	l := css.NewLexer(parse.NewInput(strings.NewReader(text)))
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return sb.String()
		case css.CommentToken:
			sb.WriteByte(' ')
		default:
			sb.Write(data)
		}
	}
}
