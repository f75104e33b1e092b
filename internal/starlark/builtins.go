package starlark

import (
	"os"

	"go.starlark.net/starlark"
)

// Predeclared returns the builtin globals available to template expressions:
//
//	vars              dict of configured template variables
//	var(name, default=None)
//	env_var(name, default=None)
//
// Each configured variable is also exposed directly as a global.
func Predeclared(vars *starlark.Dict) starlark.StringDict {
	globals := starlark.StringDict{
		"vars":    vars,
		"var":     starlark.NewBuiltin("var", varBuiltin(vars)),
		"env_var": starlark.NewBuiltin("env_var", envVar),
	}
	for _, item := range vars.Items() {
		if name, ok := item[0].(starlark.String); ok {
			if _, reserved := globals[string(name)]; !reserved {
				globals[string(name)] = item[1]
			}
		}
	}
	return globals
}

type builtinFunc = func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error)

func varBuiltin(vars *starlark.Dict) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		var def starlark.Value = starlark.None
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "default?", &def); err != nil {
			return nil, err
		}
		v, found, err := vars.Get(starlark.String(name))
		if err != nil {
			return nil, err
		}
		if !found {
			return def, nil
		}
		return v, nil
	}
}

func envVar(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var def starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "default?", &def); err != nil {
		return nil, err
	}
	if v, ok := os.LookupEnv(name); ok {
		return starlark.String(v), nil
	}
	return def, nil
}
