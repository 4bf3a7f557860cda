package callable

import (
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

// Placeholder is the display name of functions without a usable name
const Placeholder = "<callable>"

// Call is a function bound to its arguments, invoked later. Returning a *Call
// from a Func chains to it.
type Call struct {
	Name   string
	Fn     Func
	Args   []any
	Kwargs Kwargs
}

// Defer binds fn to positional arguments
func Defer(fn Func, args ...any) *Call {
	return &Call{Fn: fn, Args: args}
}

// Named sets the display name
func (c *Call) Named(name string) *Call {
	c.Name = name
	return c
}

// With adds a named argument
func (c *Call) With(key string, value any) *Call {
	c.Kwargs = append(c.Kwargs, Kwarg{Key: key, Value: value})
	return c
}

// DisplayName returns the explicit name, else the declared function name
func (c *Call) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return Name(c.Fn)
}

// String renders the call as a statement
func (c *Call) String() string {
	return Statement(c.DisplayName(), c.Args, c.Kwargs)
}

// Invoke calls the bound function, recovering panics
func (c *Call) Invoke() Outcome {
	return invoke(c.Fn, c.Args, c.Kwargs)
}

var closureName = regexp.MustCompile(`(^|\.)func\d+(\.\d+)*$`)

// Name returns the declared name of fn without its package path. Anonymous
// functions have no usable name and get the Placeholder.
func Name(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return Placeholder
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return Placeholder
	}

	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if name == "" || closureName.MatchString(name) {
		return Placeholder
	}
	return name
}

// Statement renders name(arg, ..., key=value, ...) with Go syntax values
func Statement(name string, args []any, kwargs Kwargs) string {
	parts := make([]string, 0, len(args)+len(kwargs))
	for _, arg := range args {
		parts = append(parts, repr(arg))
	}
	for _, kw := range kwargs {
		parts = append(parts, kw.Key+"="+repr(kw.Value))
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

func repr(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%#v", v)
}
