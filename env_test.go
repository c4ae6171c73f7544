// env_test.go
package suvawa

import "testing"

func Test_Env_Define_And_Get(t *testing.T) {
	e := NewEnv(nil)
	e.Define("x", Num(1))
	v, err := e.Get("x")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	wantNum(t, v, 1)
	if _, err := e.Get("y"); err == nil {
		t.Fatalf("Get of an unbound name should fail")
	}
}

func Test_Env_Lookup_Climbs_Parents(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Num(1))
	child := NewEnv(NewEnv(root))
	v, err := child.Get("x")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	wantNum(t, v, 1)
}

func Test_Env_Define_Shadows(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Num(1))
	child := NewEnv(root)
	child.Define("x", Num(2))

	v, _ := child.Get("x")
	wantNum(t, v, 2)
	v, _ = root.Get("x")
	wantNum(t, v, 1)
}

func Test_Env_Set_Updates_Nearest_Binding(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Num(1))
	child := NewEnv(root)

	if err := child.Set("x", Num(9)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, _ := root.Get("x")
	wantNum(t, v, 9)

	if err := child.Set("nope", Num(0)); err == nil {
		t.Fatalf("Set of an unbound name must not implicitly define")
	}
	if _, err := child.Get("nope"); err == nil {
		t.Fatalf("failed Set leaked a binding")
	}
}

func Test_Env_Sealed_Frame_Blocks_Parent_Writes(t *testing.T) {
	core := NewEnv(nil)
	core.Define("len", Num(0))
	global := NewEnv(core)
	global.SealParentWrites()
	user := NewEnv(global)

	// Reads still climb through the seal.
	if _, err := user.Get("len"); err != nil {
		t.Fatalf("sealed frame must not block reads: %v", err)
	}
	// Writes stop at the seal.
	if err := user.Set("len", Num(1)); err == nil {
		t.Fatalf("write through a sealed frame should fail")
	}
	v, _ := core.Get("len")
	wantNum(t, v, 0)

	// A binding at or below the seal is still writable.
	global.Define("g", Num(1))
	if err := user.Set("g", Num(2)); err != nil {
		t.Fatalf("Set below the seal: %v", err)
	}
	v, _ = global.Get("g")
	wantNum(t, v, 2)
}
