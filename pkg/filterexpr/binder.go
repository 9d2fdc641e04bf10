// Package filterexpr binds a restricted CEL filter expression onto a query
// params struct. Only conjunctions of simple field predicates are accepted.
package filterexpr

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// ValueKind describes the kind of literal value a field accepts.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
)

// Op represents a supported comparison operation.
type Op string

const (
	OpEQ  Op = "=="
	OpGTE Op = ">="
	OpLTE Op = "<="
	OpSW  Op = "startsWith"
	OpIN  Op = "in"
)

// FieldRule maps the operators allowed on a filter field to params struct fields.
type FieldRule struct {
	Kind ValueKind
	Ops  map[Op]string
}

// Schema whitelists the fields a filter may reference.
type Schema struct {
	Fields map[string]FieldRule
}

// Bind parses filter and assigns every predicate to the matching field of
// params, which must be a non-nil pointer to a struct. An empty filter is a no-op.
func Bind(filter string, params any, schema Schema) error {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil
	}
	if len(schema.Fields) == 0 {
		return errors.New("filter schema has no fields defined")
	}

	paramsVal := reflect.ValueOf(params)
	if paramsVal.Kind() != reflect.Ptr || paramsVal.IsNil() {
		return errors.New("params must be a non-nil pointer")
	}
	dest := paramsVal.Elem()
	if dest.Kind() != reflect.Struct {
		return errors.New("params must point to a struct")
	}

	env, err := buildEnv(schema.Fields)
	if err != nil {
		return err
	}
	ast, issues := env.Parse(filter)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("invalid filter: %w", issues.Err())
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return fmt.Errorf("convert filter ast: %w", err)
	}
	conjuncts, err := extractConjuncts(parsed.GetExpr())
	if err != nil {
		return err
	}

	for _, expr := range conjuncts {
		pred, err := parseAtomicPredicate(expr)
		if err != nil {
			return err
		}
		rule, ok := schema.Fields[pred.Field]
		if !ok {
			return fmt.Errorf("field %q is not allowed", pred.Field)
		}
		targetName, ok := rule.Ops[pred.Op]
		if !ok {
			return fmt.Errorf("operator %q is not allowed for field %q", string(pred.Op), pred.Field)
		}
		if err := validateLiteral(rule.Kind, pred.Op, pred.Value); err != nil {
			return fmt.Errorf("field %q: %w", pred.Field, err)
		}

		field := dest.FieldByName(targetName)
		if !field.IsValid() || !field.CanSet() {
			return fmt.Errorf("params struct %s has no settable field %q", dest.Type(), targetName)
		}
		if err := assignValue(field, pred.Value); err != nil {
			return fmt.Errorf("assign field %q: %w", targetName, err)
		}
	}
	return nil
}

type atomicPredicate struct {
	Field string
	Op    Op
	Value any
}

func buildEnv(fields map[string]FieldRule) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(fields)+1)
	for name, rule := range fields {
		var t *cel.Type
		switch rule.Kind {
		case KindString:
			t = cel.StringType
		case KindNumber:
			t = cel.DoubleType
		default:
			return nil, fmt.Errorf("field %q: unsupported kind %s", name, rule.Kind)
		}
		opts = append(opts, cel.Variable(name, t))
	}
	opts = append(opts, cel.CrossTypeNumericComparisons(true))
	return cel.NewEnv(opts...)
}

// extractConjuncts flattens nested && chains. Any other logical operator is rejected.
func extractConjuncts(expr *exprpb.Expr) ([]*exprpb.Expr, error) {
	if expr == nil {
		return nil, errors.New("empty expression")
	}
	call := expr.GetCallExpr()
	if call == nil {
		return []*exprpb.Expr{expr}, nil
	}

	switch call.Function {
	case "_&&_":
		var result []*exprpb.Expr
		for _, arg := range call.Args {
			conjuncts, err := extractConjuncts(arg)
			if err != nil {
				return nil, err
			}
			result = append(result, conjuncts...)
		}
		return result, nil
	case "_||_", "_?_:_", "!_":
		return nil, fmt.Errorf("logical operator %q is not supported; only AND is allowed", call.Function)
	default:
		return []*exprpb.Expr{expr}, nil
	}
}

func parseAtomicPredicate(expr *exprpb.Expr) (atomicPredicate, error) {
	call := expr.GetCallExpr()
	if call == nil {
		return atomicPredicate{}, errors.New("unsupported expression; expected comparison or function call")
	}

	switch call.Function {
	case "_==_":
		return parseBinary(call, OpEQ, false)
	case "_>=_":
		return parseBinary(call, OpGTE, false)
	case "_<=_":
		return parseBinary(call, OpLTE, false)
	case "@in":
		return parseBinary(call, OpIN, false)
	case "startsWith":
		return parseBinary(call, OpSW, true)
	default:
		return atomicPredicate{}, fmt.Errorf("function %q is not supported", call.Function)
	}
}

// parseBinary reads "field op literal" or, for receiver-style calls, "field.fn(literal)".
func parseBinary(call *exprpb.Expr_Call, op Op, receiver bool) (atomicPredicate, error) {
	var fieldExpr, valueExpr *exprpb.Expr
	switch {
	case receiver && call.Target != nil && len(call.Args) == 1:
		fieldExpr, valueExpr = call.Target, call.Args[0]
	case call.Target == nil && len(call.Args) == 2:
		fieldExpr, valueExpr = call.Args[0], call.Args[1]
	default:
		return atomicPredicate{}, fmt.Errorf("operator %q expects a field and a literal", string(op))
	}

	ident := fieldExpr.GetIdentExpr()
	if ident == nil {
		return atomicPredicate{}, errors.New("left-hand side must be an identifier")
	}
	value, err := parseLiteral(valueExpr)
	if err != nil {
		return atomicPredicate{}, err
	}
	return atomicPredicate{Field: ident.GetName(), Op: op, Value: value}, nil
}

func parseLiteral(expr *exprpb.Expr) (any, error) {
	if constant := expr.GetConstExpr(); constant != nil {
		switch constant.ConstantKind.(type) {
		case *exprpb.Constant_StringValue:
			return constant.GetStringValue(), nil
		case *exprpb.Constant_Int64Value:
			return float64(constant.GetInt64Value()), nil
		case *exprpb.Constant_Uint64Value:
			return float64(constant.GetUint64Value()), nil
		case *exprpb.Constant_DoubleValue:
			return constant.GetDoubleValue(), nil
		default:
			return nil, fmt.Errorf("literal type %T is not supported", constant.ConstantKind)
		}
	}

	if list := expr.GetListExpr(); list != nil {
		elements := list.GetElements()
		values := make([]string, len(elements))
		for i, elem := range elements {
			val, err := parseLiteral(elem)
			if err != nil {
				return nil, fmt.Errorf("list literal element %d: %w", i, err)
			}
			str, ok := val.(string)
			if !ok {
				return nil, errors.New("list literal elements must be strings")
			}
			values[i] = str
		}
		return values, nil
	}

	return nil, errors.New("right-hand side must be a literal or list literal")
}

func validateLiteral(kind ValueKind, op Op, value any) error {
	switch kind {
	case KindString:
		if op == OpIN {
			list, ok := value.([]string)
			if !ok {
				return fmt.Errorf("expected list of %s literals", kind)
			}
			if len(list) == 0 {
				return errors.New("list literal must not be empty")
			}
			return nil
		}
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected %s literal", kind)
		}
	case KindNumber:
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("expected %s literal", kind)
		}
	default:
		return fmt.Errorf("unsupported field kind %s", kind)
	}
	return nil
}

func assignValue(field reflect.Value, value any) error {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return assignValue(field.Elem(), value)
	}

	switch v := value.(type) {
	case string:
		if field.Kind() != reflect.String {
			return fmt.Errorf("expected string destination, got %s", field.Kind())
		}
		field.SetString(v)
	case []string:
		if field.Kind() != reflect.Slice || field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("expected []string destination, got %s", field.Type())
		}
		field.Set(reflect.ValueOf(append([]string(nil), v...)))
	case float64:
		return assignNumeric(field, v)
	default:
		return fmt.Errorf("unsupported literal type %T", value)
	}
	return nil
}

func assignNumeric(field reflect.Value, value float64) error {
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		field.SetFloat(value)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if math.Trunc(value) != value {
			return fmt.Errorf("cannot assign non-integer value %v to integer field", value)
		}
		if math.Abs(value) > math.MaxInt64 || field.OverflowInt(int64(value)) {
			return fmt.Errorf("value %v overflows integer field", value)
		}
		field.SetInt(int64(value))
		return nil
	default:
		return fmt.Errorf("numeric assignment requires integer or float field, got %s", field.Kind())
	}
}
