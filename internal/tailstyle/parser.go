package tailstyle

import (
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"github.com/tdewolff/parse/v2/html"
)

// ExtractClasses returns the class tokens referenced by class attributes in
// markup, deduplicated in order of first appearance.
func ExtractClasses(markup string) []string {
	lexer := html.NewLexer(parse.NewInputString(markup))

	var classes []string
	seen := make(map[string]bool)

	for {
		tt, _ := lexer.Next()
		if tt == html.ErrorToken {
			// ErrorToken at EOF is normal - just break
			break
		}
		if tt != html.AttributeToken || !strings.EqualFold(string(lexer.Text()), "class") {
			continue
		}

		value := strings.Trim(string(lexer.AttrVal()), `"'`)
		for _, class := range strings.Fields(value) {
			if !seen[class] {
				seen[class] = true
				classes = append(classes, class)
			}
		}
	}

	return classes
}

// CountRules returns the number of rulesets in a stylesheet, including
// rulesets nested in at-rule blocks such as @media.
func CountRules(stylesheet string) (int, error) {
	if strings.TrimSpace(stylesheet) == "" {
		return 0, nil
	}

	p := css.NewParser(parse.NewInputString(stylesheet), false)
	rules := 0

	for {
		gt, _, _ := p.Next()
		if gt == css.ErrorGrammar {
			if err := p.Err(); err != nil && err != io.EOF {
				return rules, fmt.Errorf("parse css: %w", err)
			}
			return rules, nil
		}
		if gt == css.BeginRulesetGrammar {
			rules++
		}
	}
}
