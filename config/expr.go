package config

import (
	"fmt"
	"regexp"

	"github.com/PaesslerAG/gval"
)

// Arithmetic plus min/max, for probability expressions such as "min(0.5, 2/n)"
var probabilityLang = gval.NewLanguage(
	gval.Arithmetic(),
	gval.Function("min", func(arguments ...interface{}) (interface{}, error) {
		return reduceFloats("min", arguments, func(a, b float64) bool { return b < a })
	}),
	gval.Function("max", func(arguments ...interface{}) (interface{}, error) {
		return reduceFloats("max", arguments, func(a, b float64) bool { return b > a })
	}),
)

func reduceFloats(name string, arguments []interface{}, replace func(current, candidate float64) bool) (interface{}, error) {
	if len(arguments) == 0 {
		return nil, fmt.Errorf("%s expects at least one argument", name)
	}

	var result float64
	for i, arg := range arguments {
		f, isFloat := arg.(float64)
		if !isFloat {
			return nil, fmt.Errorf("%s: expected number for argument %d, got: %v", name, i+1, arg)
		}
		if i == 0 || replace(result, f) {
			result = f
		}
	}
	return result, nil
}

// The scanner reads an operator glued to a following letter as one operator
// ("/n" in "1/n"), so they are split before parsing.
var operatorBeforeIdent = regexp.MustCompile(`([-+*/%^<>=!&|?])([A-Za-z_])`)

func normalizeExpression(expression string) string {
	return operatorBeforeIdent.ReplaceAllString(expression, "$1 $2")
}

func compileProbability(expression string) (gval.Evaluable, error) {
	eval, err := probabilityLang.NewEvaluable(normalizeExpression(expression))
	if err != nil {
		return nil, fmt.Errorf("%w: probability %q: %v", ErrInvalidParams, expression, err)
	}
	return eval, nil
}
