// Package placeholder expands `{argN}` references in rule templates.
package placeholder

import (
	"regexp"
	"strconv"
)

var argPattern = regexp.MustCompile(`\{arg(\d+)\}`)

// Has reports whether template references any argument.
func Has(template string) bool {
	return argPattern.MatchString(template)
}

// Expand replaces every `{argN}` with args[N]. Missing arguments render as
// empty strings. With quote set the arguments are escaped for use inside a
// regular expression.
func Expand(template string, args []string, quote bool) string {
	return argPattern.ReplaceAllStringFunc(template, func(match string) string {
		idx, err := strconv.Atoi(argPattern.FindStringSubmatch(match)[1])
		if err != nil || idx >= len(args) {
			return ""
		}
		if quote {
			return regexp.QuoteMeta(args[idx])
		}
		return args[idx]
	})
}

// Arity returns how many arguments template needs: one more than the
// highest referenced index, or 0 without placeholders.
func Arity(template string) int {
	highest := -1
	for _, match := range argPattern.FindAllStringSubmatch(template, -1) {
		if idx, err := strconv.Atoi(match[1]); err == nil && idx > highest {
			highest = idx
		}
	}
	return highest + 1
}
