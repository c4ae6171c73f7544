// env.go — lexical environment frames.
package suvawa

import "fmt"

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward; frames form a tree, never a cycle. Closures hold a shared
// reference to their defining frame, so a frame lives as long as any closure
// or call frame that can still reach it.
type Env struct {
	parent           *Env
	table            map[string]Value
	sealParentWrites bool
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env { return &Env{parent: parent, table: make(map[string]Value)} }

// SealParentWrites stops Set from climbing past this frame. Used on Global so
// program code cannot reassign Core builtins.
func (e *Env) SealParentWrites() { e.sealParentWrites = true }

// Define binds name to v in the current frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Set updates the nearest existing binding of name to v. If no binding exists
// in any visible frame, Set returns an error (it does not implicitly define).
func (e *Env) Set(name string, v Value) error {
	if _, ok := e.table[name]; ok {
		e.table[name] = v
		return nil
	}
	// A sealed frame does not climb; report a friendlier message when the
	// name exists in an ancestor (i.e. a Core builtin).
	if e.sealParentWrites {
		for p := e.parent; p != nil; p = p.parent {
			if _, ok := p.table[name]; ok {
				return fmt.Errorf("cannot assign to builtin: %s", name)
			}
		}
		return fmt.Errorf("undefined variable: %s", name)
	}
	if e.parent != nil {
		return e.parent.Set(name, v)
	}
	return fmt.Errorf("undefined variable: %s", name)
}

// Get retrieves the nearest visible binding for name or returns an error.
func (e *Env) Get(name string) (Value, error) {
	if v, ok := e.table[name]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Value{}, fmt.Errorf("undefined variable: %s", name)
}
