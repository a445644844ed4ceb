package rules

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

// Registry manages the CEL environment used by data-driven modifiers.
type Registry struct {
	env *cel.Env

	mu       sync.Mutex
	programs map[string]cel.Program
}

// NewRegistry initializes the CEL environment with the battle variables and helpers.
func NewRegistry() (*Registry, error) {
	env, err := cel.NewEnv(
		ext.Strings(),
		ext.Lists(),

		cel.Variable("attacker", cel.MapType(cel.StringType, cel.AnyType)),
		cel.Variable("defender", cel.MapType(cel.StringType, cel.AnyType)),
		cel.Variable("move", cel.MapType(cel.StringType, cel.AnyType)),
		cel.Variable("field", cel.MapType(cel.StringType, cel.AnyType)),
		cel.Variable("effectiveness", cel.DoubleType),

		cel.Function("has_type",
			cel.Overload("has_type_map_string",
				[]*cel.Type{cel.MapType(cel.StringType, cel.AnyType), cel.StringType},
				cel.BoolType,
				cel.BinaryBinding(func(c, t ref.Val) ref.Val {
					want := t.Value().(string)
					m, ok := c.Value().(map[string]any)
					if !ok {
						return types.False
					}
					list, _ := m["types"].([]string)
					for _, have := range list {
						if have == want {
							return types.True
						}
					}
					return types.False
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Registry{env: env, programs: make(map[string]cel.Program)}, nil
}

// Compile checks an expression once so it can be evaluated many times.
// Programs are memoized by expression text.
func (r *Registry) Compile(expression string) (cel.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prog, ok := r.programs[expression]; ok {
		return prog, nil
	}
	ast, iss := r.env.Compile(expression)
	if iss.Err() != nil {
		return nil, fmt.Errorf("CEL compile error in %q: %w", expression, iss.Err())
	}
	prog, err := r.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program error in %q: %w", expression, err)
	}
	r.programs[expression] = prog
	return prog, nil
}

// Eval executes a CEL expression against the provided context.
func (r *Registry) Eval(expression string, context map[string]any) (any, error) {
	prog, err := r.Compile(expression)
	if err != nil {
		return nil, err
	}
	out, _, err := prog.Eval(context)
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}
