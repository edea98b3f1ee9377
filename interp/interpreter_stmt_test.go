package interp

import "testing"

// A brace-less `if (cond) var x = 1;` must give x its own scope just like a
// braced `if (cond) { var x = 1; }` would: x's persistent allocation must be
// reclaimed when the if exits, not leaked into the enclosing frame.
func TestIfStmtReclaimsBraceLessThenScope(t *testing.T) {
	i := &Interpreter{Memory: NewMemory()}
	fr := newFrame(i.Memory.Allocate(IntType{}, true))

	binding := &SimpleBinding{Name: "x", Declared: AutoType{}}
	ifStmt := &IfStmt{
		Cond: &BoolLit{Value: true},
		Then: &InitStmt{
			Init: &Initialization{
				Pattern:     &VariablePattern{Binding: binding},
				Initializer: &IntLit{Value: 1},
			},
		},
	}

	mark := len(fr.persistent)
	c, err := i.execStmt(fr, ifStmt)
	if err != nil {
		t.Fatalf("execStmt returned error: %v", err)
	}
	if c != ctrlNormal {
		t.Fatalf("execStmt returned ctrl %v, want ctrlNormal", c)
	}
	if got := len(fr.persistent); got != mark {
		t.Errorf("fr.persistent has %d entries after the if exits, want %d (x's allocation leaked)", got, mark)
	}
}

// Same check for the Else branch of a brace-less if/else.
func TestIfStmtReclaimsBraceLessElseScope(t *testing.T) {
	i := &Interpreter{Memory: NewMemory()}
	fr := newFrame(i.Memory.Allocate(IntType{}, true))

	binding := &SimpleBinding{Name: "x", Declared: AutoType{}}
	ifStmt := &IfStmt{
		Cond: &BoolLit{Value: false},
		Then: &BlockStmt{},
		Else: &InitStmt{
			Init: &Initialization{
				Pattern:     &VariablePattern{Binding: binding},
				Initializer: &IntLit{Value: 2},
			},
		},
	}

	mark := len(fr.persistent)
	c, err := i.execStmt(fr, ifStmt)
	if err != nil {
		t.Fatalf("execStmt returned error: %v", err)
	}
	if c != ctrlNormal {
		t.Fatalf("execStmt returned ctrl %v, want ctrlNormal", c)
	}
	if got := len(fr.persistent); got != mark {
		t.Errorf("fr.persistent has %d entries after the if exits, want %d (x's allocation leaked)", got, mark)
	}
}
