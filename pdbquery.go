// Package pdbquery is the front door: it wires the lexer, parser, and
// evaluator together, and layers fact/fact_contents lookups against a
// configured PuppetDB on top of the pure compilation pipeline.
package pdbquery

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bootc/pdbquery/compiler/evaluator"
	"github.com/bootc/pdbquery/compiler/lexer"
	"github.com/bootc/pdbquery/compiler/parser"
	"github.com/bootc/pdbquery/internal/client"
)

// Compile lexes, parses, and lowers source under the given mode. A nil
// result with a nil error means the query compiled to PuppetDB's null —
// the only way that happens is empty input (§6.2).
func Compile(source string, mode evaluator.Mode) (*evaluator.Value, error) {
	tokens, lexErrs := lexer.New(source, "").ScanTokens()
	if len(lexErrs) > 0 {
		return nil, lexErrs[0]
	}

	query, err := parser.New(tokens, "").Parse()
	if err != nil {
		return nil, err
	}

	value, ok, err := evaluator.Eval(query, mode)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &value, nil
}

// CompileJSON compiles source and renders the result as PuppetDB AST JSON.
// An empty query renders as the four-byte literal null.
func CompileJSON(source string, mode evaluator.Mode) ([]byte, error) {
	value, err := Compile(source, mode)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(value)
}

// FactsResult groups fact values by the node (certname) that reported them.
type FactsResult map[string]map[string]evaluator.Value

type factRow struct {
	Certname string          `json:"certname"`
	Name     string          `json:"name"`
	Value    json.RawMessage `json:"value"`
}

type factContentsRow struct {
	Certname string          `json:"certname"`
	Path     []string        `json:"path"`
	Value    json.RawMessage `json:"value"`
}

// QueryFacts compiles source under mode "facts", ANDs it with an optional
// per-fact-name filter, queries pdb.Facts, and groups the result by
// certname unless raw is set (§6.1 query_facts).
func QueryFacts(ctx context.Context, pdb client.Client, source string, facts []string, raw bool) (FactsResult, json.RawMessage, error) {
	query, err := buildFactsQuery(source, facts, "name")
	if err != nil {
		return nil, nil, err
	}

	rawResp, err := pdb.Facts(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	if raw {
		return nil, rawResp, nil
	}

	var rows []factRow
	if err := json.Unmarshal(rawResp, &rows); err != nil {
		return nil, nil, fmt.Errorf("decode facts response: %w", err)
	}

	result := FactsResult{}
	for _, row := range rows {
		node, ok := result[row.Certname]
		if !ok {
			node = map[string]evaluator.Value{}
			result[row.Certname] = node
		}
		v, err := valueFromJSON(row.Value)
		if err != nil {
			return nil, nil, err
		}
		node[row.Name] = v
	}
	return result, nil, nil
}

// QueryFactContents is QueryFacts' analogue for the fact_contents endpoint:
// each facts entry is a bare dotted path (parsed with the identifier_path
// start symbol), and results are grouped by the "."-joined path.
func QueryFactContents(ctx context.Context, pdb client.Client, source string, facts []string, raw bool) (FactsResult, json.RawMessage, error) {
	sourceQuery, err := Compile(source, evaluator.ModeFacts)
	if err != nil {
		return nil, nil, err
	}

	var filterClause *evaluator.Value
	if len(facts) > 0 {
		clauses := make([]evaluator.Value, 0, len(facts))
		for _, f := range facts {
			tokens, lexErrs := lexer.New(f, "").ScanTokens()
			if len(lexErrs) > 0 {
				return nil, nil, lexErrs[0]
			}
			path, err := parser.New(tokens, "").ParseIdentifierPath()
			if err != nil {
				return nil, nil, err
			}
			clause, err := evaluator.LowerFactPath(path, evaluator.ModeFacts)
			if err != nil {
				return nil, nil, err
			}
			clauses = append(clauses, clause)
		}
		v := orClauses(clauses)
		filterClause = &v
	}

	query, err := andQueries(sourceQuery, filterClause)
	if err != nil {
		return nil, nil, err
	}

	rawResp, err := pdb.FactContents(ctx, *query)
	if err != nil {
		return nil, nil, err
	}
	if raw {
		return nil, rawResp, nil
	}

	var rows []factContentsRow
	if err := json.Unmarshal(rawResp, &rows); err != nil {
		return nil, nil, fmt.Errorf("decode fact_contents response: %w", err)
	}

	result := FactsResult{}
	for _, row := range rows {
		node, ok := result[row.Certname]
		if !ok {
			node = map[string]evaluator.Value{}
			result[row.Certname] = node
		}
		v, err := valueFromJSON(row.Value)
		if err != nil {
			return nil, nil, err
		}
		node[strings.Join(row.Path, ".")] = v
	}
	return result, nil, nil
}

// buildFactsQuery compiles source under mode "facts" and, if facts is
// non-empty, ANDs it with an OR'd name filter: each entry wrapped in
// /.../ is a regex, anything else an exact match (§9.1).
func buildFactsQuery(source string, facts []string, field string) (evaluator.Value, error) {
	sourceQuery, err := Compile(source, evaluator.ModeFacts)
	if err != nil {
		return evaluator.Value{}, err
	}

	var filterClause *evaluator.Value
	if len(facts) > 0 {
		clauses := make([]evaluator.Value, len(facts))
		for i, f := range facts {
			clauses[i] = nameFilterClause(field, f)
		}
		v := orClauses(clauses)
		filterClause = &v
	}

	query, err := andQueries(sourceQuery, filterClause)
	if err != nil {
		return evaluator.Value{}, err
	}
	return *query, nil
}

func nameFilterClause(field, entry string) evaluator.Value {
	if len(entry) >= 2 && strings.HasPrefix(entry, "/") && strings.HasSuffix(entry, "/") {
		return evaluator.List(evaluator.Str("~"), evaluator.Str(field), evaluator.Str(entry[1:len(entry)-1]))
	}
	return evaluator.List(evaluator.Str("="), evaluator.Str(field), evaluator.Str(entry))
}

func orClauses(clauses []evaluator.Value) evaluator.Value {
	if len(clauses) == 1 {
		return clauses[0]
	}
	items := append([]evaluator.Value{evaluator.Str("or")}, clauses...)
	return evaluator.List(items...)
}

// andQueries combines the compiled source query and an optional filter
// clause: both present ANDs them, either alone passes through, neither
// is an error.
func andQueries(source *evaluator.Value, filter *evaluator.Value) (*evaluator.Value, error) {
	switch {
	case source != nil && filter != nil:
		v := evaluator.List(evaluator.Str("and"), *source, *filter)
		return &v, nil
	case source != nil:
		return source, nil
	case filter != nil:
		return filter, nil
	default:
		return nil, fmt.Errorf("pdbquery: query has no source and no fact filter")
	}
}

// valueFromJSON converts an arbitrary PuppetDB JSON fact value into a
// Value. Puppet facts can be nested objects (e.g. the "os" fact); Value's
// sum type (§3.1) intentionally mirrors the target query language's own
// value kinds, which has no map literal either, so an object-valued fact
// is kept as its compact JSON text rather than growing a sixth Value kind
// only this conversion would ever produce.
func valueFromJSON(raw json.RawMessage) (evaluator.Value, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return evaluator.Value{}, fmt.Errorf("decode fact value: %w", err)
	}
	return valueFromAny(raw, v)
}

func valueFromAny(raw json.RawMessage, v any) (evaluator.Value, error) {
	switch t := v.(type) {
	case nil:
		return evaluator.Str(""), nil
	case string:
		return evaluator.Str(t), nil
	case bool:
		return evaluator.Bool(t), nil
	case float64:
		if t == float64(int64(t)) {
			return evaluator.Int(int64(t)), nil
		}
		return evaluator.Float(t), nil
	case []any:
		items := make([]evaluator.Value, len(t))
		for i, elem := range t {
			b, err := json.Marshal(elem)
			if err != nil {
				return evaluator.Value{}, err
			}
			ev, err := valueFromAny(b, elem)
			if err != nil {
				return evaluator.Value{}, err
			}
			items[i] = ev
		}
		return evaluator.List(items...), nil
	case map[string]any:
		return evaluator.Str(string(canonicalJSON(raw))), nil
	default:
		return evaluator.Str(fmt.Sprint(t)), nil
	}
}

// canonicalJSON re-marshals an object with sorted keys so the same fact
// value always renders to the same string, independent of PuppetDB's key
// ordering on the wire.
func canonicalJSON(raw json.RawMessage) json.RawMessage {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return raw
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(m[k])
		b.Write(kb)
		b.WriteByte(':')
		b.Write(vb)
	}
	b.WriteByte('}')
	return json.RawMessage(b.String())
}
