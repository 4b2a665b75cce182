// Package evaluator walks the parser's AST and emits the target PuppetDB
// AST (a nested heterogeneous Value). Lowering is context-dependent: the
// same AST shape expands differently depending on whether it sits at top
// level, inside a subquery, inside a resource parameter block, or on the
// regex side of a path being matched. This file is the direct Go
// translation of evaluator.py's _visit_* methods; there is no Go
// precedent for this domain logic in the example pack, so the structure
// follows the design notes instead: a closed type switch in place of
// reflective dispatch, and the context stack threaded as a parameter
// rather than stored on the evaluator.
package evaluator

import (
	"fmt"
	"strings"
	"time"

	"github.com/bootc/pdbquery/compiler/parser"
)

// Mode names the downstream PuppetDB endpoint a compilation targets.
type Mode string

const (
	ModeNodes     Mode = "nodes"
	ModeFacts     Mode = "facts"
	ModeResources Mode = "resources"
	ModeNone      Mode = "none"
)

// EvalError is a fatal evaluator error — in practice, only a Date literal
// that cannot be parsed.
type EvalError struct {
	Message string
}

func (e EvalError) Error() string { return e.Message }

const (
	tagSubquery = "subquery"
	tagResource = "resources"
	tagRegexp   = "regexp"
)

// Eval lowers a parsed Query under the given mode. The second return value
// is false for an empty query (Query.Expr == nil), matching §6.2's "null
// is returned only for empty input".
func Eval(q *parser.Query, mode Mode) (Value, bool, error) {
	if q.Expr == nil {
		return Value{}, false, nil
	}
	v, err := lower(q.Expr, []string{string(mode)})
	if err != nil {
		return Value{}, false, err
	}
	return v, true, nil
}

// LowerFactPath lowers a bare identifier path — the alternate start symbol
// used by query_fact_contents — the same way the left-hand side of a
// top-level fact comparison would be lowered under the given mode. It is
// the Go equivalent of parsing with identifier_path as the grammar's start
// symbol rather than query.
func LowerFactPath(path *parser.IdentifierPath, mode Mode) (Value, error) {
	return lowerIdentifierPath(path, []string{string(mode)})
}

func top(ctx []string) string {
	return ctx[len(ctx)-1]
}

func modeOf(ctx []string) string {
	return ctx[0]
}

// wrap implements §4.3.2: from_mode == "none" passes inner through
// unchanged; otherwise inner is scoped to certname via an in/extract/select
// wrapper targeting to_mode.
func wrap(fromMode, toMode string, inner Value) Value {
	if fromMode == string(ModeNone) {
		return inner
	}
	return List(
		Str("in"), Str("certname"),
		List(Str("extract"), Str("certname"),
			List(Str("select_"+toMode), inner)),
	)
}

// comparison implements §4.3.3: a leading '!' on the operator negates.
func comparison(op string, left, right Value) Value {
	if strings.HasPrefix(op, "!") {
		return List(Str("not"), List(Str(op[1:]), left, right))
	}
	return List(Str(op), left, right)
}

// capitalizeClass implements §4.3.5.
func capitalizeClass(name string) string {
	parts := strings.Split(name, "::")
	for i, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		parts[i] = string(r)
	}
	return strings.Join(parts, "::")
}

// escapeRegexpMeta escapes the regex metacharacters named in §4.3.4 with a
// leading backslash; used both for per-identifier escaping and for the
// outer RegexpNodeMatch pass.
func escapeRegexpMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '.', '\\', '+', '*', '?', '(', ')', '[', ']', '{', '}', '|', '^', '$':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func lower(node parser.Node, ctx []string) (Value, error) {
	switch n := node.(type) {
	case *parser.Literal:
		return lowerLiteral(n), nil
	case *parser.Date:
		return lowerDate(n)
	case *parser.AndExpression:
		l, err := lower(n.Left, ctx)
		if err != nil {
			return Value{}, err
		}
		r, err := lower(n.Right, ctx)
		if err != nil {
			return Value{}, err
		}
		return List(Str("and"), l, r), nil
	case *parser.OrExpression:
		l, err := lower(n.Left, ctx)
		if err != nil {
			return Value{}, err
		}
		r, err := lower(n.Right, ctx)
		if err != nil {
			return Value{}, err
		}
		return List(Str("or"), l, r), nil
	case *parser.NotExpression:
		inner, err := lower(n.Expr, ctx)
		if err != nil {
			return Value{}, err
		}
		return List(Str("not"), inner), nil
	case *parser.ParenthesizedExpression:
		return lower(n.Expr, ctx)
	case *parser.BlockExpression:
		return lower(n.Expr, ctx)
	case *parser.Identifier:
		return lowerIdentifier(n, ctx), nil
	case *parser.RegexpIdentifier:
		return Str(n.Name), nil
	case *parser.IdentifierPath:
		return lowerIdentifierPath(n, ctx)
	case *parser.Comparison:
		return lowerComparison(n, ctx)
	case *parser.Subquery:
		return lowerSubquery(n, ctx)
	case *parser.Resource:
		return lowerResource(n, ctx)
	case *parser.RegexpNodeMatch:
		return lowerRegexpNodeMatch(n, ctx)
	default:
		return Value{}, EvalError{Message: fmt.Sprintf("unhandled node type %T", node)}
	}
}

func lowerLiteral(n *parser.Literal) Value {
	switch n.Kind {
	case parser.LiteralBool:
		return Bool(n.Bool)
	case parser.LiteralInt:
		return Int(n.Int)
	case parser.LiteralFloat:
		return Float(n.Flt)
	default:
		return Str(n.Str)
	}
}

// dateLayouts covers the three format families §4.3.4 names: a common
// human-readable month/day/year form, ISO 8601, and RFC 2822.
var dateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
}

func lowerDate(n *parser.Date) (Value, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, n.Raw); err == nil {
			return Str(t.UTC().Format("2006-01-02T15:04:05Z")), nil
		}
	}
	return Value{}, EvalError{Message: fmt.Sprintf("unparseable date: %q", n.Raw)}
}

func lowerIdentifier(n *parser.Identifier, ctx []string) Value {
	switch name := n.Name.(type) {
	case string:
		if top(ctx) == tagRegexp {
			return Str(escapeRegexpMeta(name))
		}
		return Str(name)
	case int64:
		return Int(name)
	default:
		return Str(fmt.Sprint(name))
	}
}

// identStr renders a lowered path component back to its string form, used
// when joining components for the "regexp" and RegexpNodeMatch contexts
// (both of those contexts only ever deal in strings).
func identStr(v Value) string {
	if v.Kind == KInt {
		return fmt.Sprintf("%d", v.Int)
	}
	return v.Str
}

func lowerIdentifierPath(n *parser.IdentifierPath, ctx []string) (Value, error) {
	switch top(ctx) {
	case tagSubquery, tagResource:
		items := make([]Value, len(n.Components))
		for i, c := range n.Components {
			v, err := lower(c, ctx)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return List(items...), nil

	case tagRegexp:
		parts := make([]string, len(n.Components))
		for i, c := range n.Components {
			v, err := lower(c, ctx)
			if err != nil {
				return Value{}, err
			}
			parts[i] = identStr(v)
		}
		return Str(strings.Join(parts, ".")), nil

	default:
		hasRegexp := false
		for _, c := range n.Components {
			if _, ok := c.(*parser.RegexpIdentifier); ok {
				hasRegexp = true
				break
			}
		}
		if hasRegexp {
			regexCtx := append(append([]string{}, ctx...), tagRegexp)
			items := make([]Value, len(n.Components))
			for i, c := range n.Components {
				v, err := lower(c, regexCtx)
				if err != nil {
					return Value{}, err
				}
				items[i] = v
			}
			return List(Str("~>"), Str("path"), List(items...)), nil
		}
		items := make([]Value, len(n.Components))
		for i, c := range n.Components {
			v, err := lower(c, ctx)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return List(Str("="), Str("path"), List(items...)), nil
	}
}

func lowerComparison(n *parser.Comparison, ctx []string) (Value, error) {
	switch top(ctx) {
	case tagSubquery:
		left, err := lower(n.Left, ctx)
		if err != nil {
			return Value{}, err
		}
		if left.Kind == KList && len(left.List) == 1 {
			left = left.List[0]
		}
		right, err := lower(n.Right, ctx)
		if err != nil {
			return Value{}, err
		}
		return comparison(n.Operator, left, right), nil

	case tagResource:
		left, err := lower(n.Left, ctx)
		if err != nil {
			return Value{}, err
		}
		var field Value
		if left.Kind == KList && len(left.List) > 0 && left.List[0].Kind == KString && left.List[0].Str == "tag" {
			field = Str("tag")
		} else {
			first := Str("")
			if left.Kind == KList && len(left.List) > 0 {
				first = left.List[0]
			}
			field = List(Str("parameter"), first)
		}
		right, err := lower(n.Right, ctx)
		if err != nil {
			return Value{}, err
		}
		return comparison(n.Operator, field, right), nil

	default:
		left, err := lower(n.Left, ctx)
		if err != nil {
			return Value{}, err
		}
		right, err := lower(n.Right, ctx)
		if err != nil {
			return Value{}, err
		}
		inner := List(Str("and"), left, comparison(n.Operator, Str("value"), right))
		return wrap(modeOf(ctx), "fact_contents", inner), nil
	}
}

func lowerSubquery(n *parser.Subquery, ctx []string) (Value, error) {
	outerMode := top(ctx)
	innerCtx := append(append([]string{}, ctx...), tagSubquery)
	inner, err := lower(n.Expr, innerCtx)
	if err != nil {
		return Value{}, err
	}
	return wrap(outerMode, n.Endpoint+"s", inner), nil
}

func lowerResource(n *parser.Resource, ctx []string) (Value, error) {
	outerMode := top(ctx)
	innerCtx := append(append([]string{}, ctx...), tagResource)

	_, isRegexpTitle := n.Title.(*parser.RegexpIdentifier)

	var titleValue Value
	if !isRegexpTitle && strings.ToLower(n.Type) == "class" {
		id := n.Title.(*parser.Identifier)
		name, _ := id.Name.(string)
		titleValue = Str(capitalizeClass(name))
	} else {
		v, err := lower(n.Title, innerCtx)
		if err != nil {
			return Value{}, err
		}
		titleValue = v
	}

	capType := capitalizeClass(n.Type)
	op := "="
	if isRegexpTitle {
		op = "~"
	}

	list := List(Str("and"),
		List(Str("="), Str("type"), Str(capType)),
		List(Str(op), Str("title"), titleValue),
		List(Str("="), Str("exported"), Bool(n.Exported)),
	)

	if n.Params != nil {
		paramsValue, err := lower(n.Params, innerCtx)
		if err != nil {
			return Value{}, err
		}
		list.List = append(list.List, paramsValue)
	}

	return wrap(outerMode, "resources", list), nil
}

func lowerRegexpNodeMatch(n *parser.RegexpNodeMatch, ctx []string) (Value, error) {
	regexCtx := append(append([]string{}, ctx...), tagRegexp)
	joined, err := lower(n.Path, regexCtx)
	if err != nil {
		return Value{}, err
	}
	return List(Str("~"), Str("certname"), Str(escapeRegexpMeta(identStr(joined)))), nil
}
