// Package envvar applies environment variable overrides to configuration fields.
//
// Every setter is a no-op when the variable name is empty or the variable is unset,
// so configuration Env structs only need to name the overrides they support.
package envvar

import (
	"os"
	"strconv"
	"strings"
)

// Source looks up environment variables. It has the same signature as [os.LookupEnv].
type Source func(string) (string, bool)

// OS reads from the process environment.
var OS Source = os.LookupEnv

// Map returns a Source backed by a fixed set of variables.
func Map(vars map[string]string) Source {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func (s Source) lookup(name string) (string, bool) {
	if name == "" || s == nil {
		return "", false
	}
	v, ok := s(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// String overwrites dst with the variable's value.
func (s Source) String(name string, dst *string) {
	if v, ok := s.lookup(name); ok {
		*dst = v
	}
}

// Int overwrites dst when the variable parses as an integer.
func (s Source) Int(name string, dst *int) {
	if v, ok := s.lookup(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Bool overwrites dst when the variable parses as a boolean.
func (s Source) Bool(name string, dst *bool) {
	if v, ok := s.lookup(name); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// List overwrites dst with the comma-separated values of the variable.
// Blank entries are dropped.
func (s Source) List(name string, dst *[]string) {
	v, ok := s.lookup(name)
	if !ok {
		return
	}

	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
