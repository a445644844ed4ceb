package rules

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/suderio/arena/internal/engine"
)

// ModifierDef is a data-driven item or ability hook.
// When is a CEL condition; Value applies while it holds.
type ModifierDef struct {
	Source engine.ModifierSource `yaml:"source"`
	ID     int                   `yaml:"id"`
	Name   string                `yaml:"name"`
	Role   engine.ModifierRole   `yaml:"role"`
	Kind   engine.ModifierKind   `yaml:"kind,omitempty"`
	When   string                `yaml:"when,omitempty"`
	Value  float64               `yaml:"value"`
}

// neutral is what a hook returns when its condition does not hold.
func neutral(kind engine.ModifierKind) float64 {
	switch kind {
	case engine.KindCritStage, engine.KindSTAB:
		return 0
	}
	return 1
}

// Install compiles every definition and registers it on reg.
// A definition that fails to compile aborts the whole install.
func (r *Registry) Install(reg *engine.ModifierRegistry, defs []ModifierDef) error {
	for _, def := range defs {
		fn, err := r.hook(def)
		if err != nil {
			return fmt.Errorf("modifier %s/%d (%s): %w", def.Source, def.ID, def.Name, err)
		}
		reg.Register(engine.ModifierKey{
			Source: def.Source,
			ID:     def.ID,
			Role:   def.Role,
			Kind:   def.Kind,
		}, def.Name, fn)
	}
	return nil
}

func (r *Registry) hook(def ModifierDef) (engine.ModifierFunc, error) {
	switch def.Source {
	case engine.SourceItem, engine.SourceAbility:
	default:
		return nil, fmt.Errorf("unknown source %q", def.Source)
	}
	switch def.Role {
	case engine.RoleAttacker, engine.RoleDefender:
	default:
		return nil, fmt.Errorf("unknown role %q", def.Role)
	}
	switch def.Kind {
	case "", engine.KindDamage, engine.KindSTAB, engine.KindCritStage:
	default:
		return nil, fmt.Errorf("unknown kind %q", def.Kind)
	}
	if def.Value < 0 {
		return nil, fmt.Errorf("negative value %v", def.Value)
	}

	value := def.Value
	off := neutral(def.Kind)
	if def.When == "" {
		return func(*engine.ModifierContext) float64 { return value }, nil
	}

	prog, err := r.Compile(def.When)
	if err != nil {
		return nil, err
	}
	name := def.Name
	return func(ctx *engine.ModifierContext) float64 {
		out, _, err := prog.Eval(BuildEvalContext(ctx))
		if err != nil {
			log.Warn().Err(err).Str("modifier", name).Msg("modifier condition failed, ignoring")
			return off
		}
		if ok, isBool := out.Value().(bool); isBool && ok {
			return value
		}
		return off
	}, nil
}
