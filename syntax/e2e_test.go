package syntax

import (
	"strings"
	"testing"

	"carbonc/interp"
)

// runProgram parses, resolves, checks, and (only if checking succeeded)
// interprets src, returning the interpreter's exit code, the program's
// diagnostics (if any), and whether the program was well-formed enough
// to run at all.
func runProgram(t *testing.T, src string) (exitCode int64, diags []interp.Diagnostic, ran bool) {
	t.Helper()
	f, errs := ParseFile("test.carbon", src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	program := interp.BuildExecutableProgram(f)
	if !program.OK() {
		return 0, program.Diagnostics(), false
	}
	it := interp.NewInterpreter(program)
	code, err := it.Run()
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	return code, nil, true
}

func diagsContain(diags []interp.Diagnostic, substr string) bool {
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			return true
		}
	}
	return false
}

func TestScenarioLiteralReturn(t *testing.T) {
	code, _, ran := runProgram(t, `fn main() -> Int { return 0; }`)
	if !ran || code != 0 {
		t.Fatalf("got code=%d ran=%v, want 0/true", code, ran)
	}
}

func TestScenarioAssignmentAndArithmetic(t *testing.T) {
	code, _, ran := runProgram(t, `
fn main() -> Int {
	var x = 3;
	x = x + 4;
	return x;
}`)
	if !ran || code != 7 {
		t.Fatalf("got code=%d ran=%v, want 7/true", code, ran)
	}
}

func TestScenarioChoiceAndMatch(t *testing.T) {
	code, _, ran := runProgram(t, `
choice Ints { None, One(Int) }

fn main() -> Int {
	match (Ints.One(42)) {
		case Ints.One(n) => return n;
		default => return 0;
	}
}`)
	if !ran || code != 42 {
		t.Fatalf("got code=%d ran=%v, want 42/true", code, ran)
	}
}

func TestScenarioStructMemberAccess(t *testing.T) {
	code, _, ran := runProgram(t, `
struct Point { x: Int; y: Int; }

fn main() -> Int {
	var p = Point(.x = 3, .y = 4);
	return p.x + p.y;
}`)
	if !ran || code != 7 {
		t.Fatalf("got code=%d ran=%v, want 7/true", code, ran)
	}
}

func TestScenarioMutualGlobalCycleIsATypeError(t *testing.T) {
	_, diags, ran := runProgram(t, `
var a = b;
var b = a;

fn main() -> Int { return 0; }`)
	if ran {
		t.Fatalf("expected this program to fail checking")
	}
	if !diagsContain(diags, "type dependency loop") {
		t.Errorf("got diagnostics %v, want one containing 'type dependency loop'", diags)
	}
}

func TestScenarioNonTypeExpressionStructMember(t *testing.T) {
	_, diags, ran := runProgram(t, `
var k = 5;
struct Bad { field: k; }

fn main() -> Int { return 0; }`)
	if ran {
		t.Fatalf("expected this program to fail checking")
	}
	if !diagsContain(diags, "Not a type expression (value has type Int)") {
		t.Errorf("got diagnostics %v, want one containing 'Not a type expression (value has type Int)'", diags)
	}
}

func TestScenarioUnaryNotOnIntIsATypeError(t *testing.T) {
	_, diags, ran := runProgram(t, `
fn main() -> Int {
	var b = 5;
	return not b;
}`)
	if ran {
		t.Fatalf("expected this program to fail checking")
	}
	if !diagsContain(diags, "Expected expression of type Bool, not Int") {
		t.Errorf("got diagnostics %v, want one containing 'Expected expression of type Bool, not Int'", diags)
	}
}

func TestScenarioWhileLoopWithBreak(t *testing.T) {
	code, _, ran := runProgram(t, `
fn main() -> Int {
	var i = 0;
	var total = 0;
	while (i == i) {
		if (i == 5) {
			break;
		}
		total = total + i;
		i = i + 1;
	}
	return total;
}`)
	if !ran || code != 10 {
		t.Fatalf("got code=%d ran=%v, want 10/true", code, ran)
	}
}

func TestScenarioFunctionCallWithExprBody(t *testing.T) {
	code, _, ran := runProgram(t, `
fn double(x: Int) -> Int => x + x;

fn main() -> Int {
	return double(3) + double(4);
}`)
	if !ran || code != 14 {
		t.Fatalf("got code=%d ran=%v, want 14/true", code, ran)
	}
}

func TestScenarioRecursiveFunction(t *testing.T) {
	code, _, ran := runProgram(t, `
fn sum(n: Int) -> Int {
	if (n == 0) {
		return 0;
	}
	return n + sum(n + -1);
}

fn main() -> Int {
	return sum(4);
}`)
	if !ran || code != 10 {
		t.Fatalf("got code=%d ran=%v, want 10/true", code, ran)
	}
}
