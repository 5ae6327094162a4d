package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser reads stylesheets with a real CSS tokenizer. It complements the
// brace scanner: both must agree on custom properties of every theme block.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Items:    make([]StylesheetItem, 0),
		Warnings: make([]string, 0),
	}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				sheet.Warnings = append(sheet.Warnings, "parse error: "+err.Error())
				p.log.Debug("CSS parse error", zap.Error(err))
			}
			return sheet

		case css.BeginAtRuleGrammar:
			atRule := strings.ToLower(string(data))
			if atRule != "@media" {
				p.skipAtRuleBlock(parser)
				sheet.Warnings = append(sheet.Warnings, "skipped "+atRule+" block")
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
				continue
			}
			mq := parseMediaQuery(parser.Values())
			rules := p.parseMediaBlockRules(parser, sheet)
			p.log.Debug("Parsed @media block", zap.Stringer("query", mq), zap.Int("rules", len(rules)))
			sheet.Items = append(sheet.Items, StylesheetItem{
				MediaBlock: &MediaBlock{Query: mq, Rules: rules},
			})

		case css.AtRuleGrammar:
			p.log.Debug("Skipping @-rule", zap.String("rule", string(data)))

		case css.BeginRulesetGrammar:
			for _, r := range p.parseRuleset(parser, data) {
				sheet.Items = append(sheet.Items, StylesheetItem{Rule: &r})
			}
		}
	}
}

// parseRuleset collects declarations until the end of the ruleset and fans
// them out to one rule per grouped selector.
func (p *Parser) parseRuleset(parser *css.Parser, data []byte) []Rule {
	selectors := parseSelectors(data, parser.Values())
	decls, custom := p.parseDeclarations(parser)

	rules := make([]Rule, 0, len(selectors))
	for _, sel := range selectors {
		r := Rule{
			Selector:     sel,
			Declarations: make(map[string]string, len(decls)),
			Custom:       NewPropertyMap(),
		}
		for k, v := range decls {
			r.Declarations[k] = v
		}
		mergeInto(&r.Custom, custom)
		rules = append(rules, r)
	}
	return rules
}

// parseSelectors extracts selector strings from token data.
func parseSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		s = strings.Join(strings.Fields(s), " ")
		if s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// parseDeclarations parses declarations until EndRulesetGrammar.
func (p *Parser) parseDeclarations(parser *css.Parser) (map[string]string, PropertyMap) {
	decls := make(map[string]string)
	custom := NewPropertyMap()

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return decls, custom

		case css.DeclarationGrammar:
			if values := parser.Values(); len(values) > 0 {
				decls[string(data)] = joinTokens(values)
			}

		case css.CustomPropertyGrammar:
			var sb strings.Builder
			for _, v := range parser.Values() {
				sb.Write(v.Data)
			}
			custom.Set(string(data), strings.TrimSpace(sb.String()))
		}
	}
}

// joinTokens builds a raw value from tokens collapsing whitespace runs.
func joinTokens(tokens []css.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// parseMediaQuery parses a media query prelude such as
// "screen and (prefers-color-scheme: dark)".
func parseMediaQuery(tokens []css.Token) MediaQuery {
	mq := MediaQuery{Raw: joinTokens(tokens)}

	inParens := false
	var feature *MediaFeature
	afterColon := false

	for _, t := range tokens {
		switch t.TokenType {
		case css.LeftParenthesisToken:
			inParens = true
			feature = &MediaFeature{}
			afterColon = false
		case css.RightParenthesisToken:
			if feature != nil && feature.Name != "" {
				feature.Value = strings.TrimSpace(feature.Value)
				mq.Features = append(mq.Features, *feature)
			}
			inParens = false
			feature = nil
		case css.ColonToken:
			if inParens {
				afterColon = true
			}
		case css.WhitespaceToken:
			if inParens && afterColon && feature.Value != "" {
				feature.Value += " "
			}
		case css.IdentToken:
			ident := string(t.Data)
			switch {
			case inParens && !afterColon:
				feature.Name = strings.ToLower(ident)
			case inParens:
				feature.Value += ident
			case strings.EqualFold(ident, "not") && mq.Type == "":
				mq.Negated = true
			case strings.EqualFold(ident, "and") || strings.EqualFold(ident, "only"):
			default:
				mq.Type = strings.ToLower(ident)
			}
		default:
			if inParens && afterColon {
				feature.Value += string(t.Data)
			}
		}
	}
	return mq
}

// parseMediaBlockRules parses rules inside an @media block.
func (p *Parser) parseMediaBlockRules(parser *css.Parser, sheet *Stylesheet) []Rule {
	var rules []Rule

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return rules

		case css.BeginAtRuleGrammar:
			p.skipAtRuleBlock(parser)
			sheet.Warnings = append(sheet.Warnings, "skipped nested "+string(data)+" block")

		case css.BeginRulesetGrammar:
			rules = append(rules, p.parseRuleset(parser, data)...)
		}
	}
}
