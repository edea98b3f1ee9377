package interp

import "fmt"

// RuntimeError is a user-visible failure raised while executing a
// well-typed program: a refuted match, a cyclic global initializer.
// Unlike internalError it is never a sign of an implementation bug, so
// it is returned, not panicked, and propagates straight up through
// every enclosing call frame to (*Interpreter).Run.
type RuntimeError struct {
	Site SourceRegion
	Msg  string
}

func (e *RuntimeError) Error() string { return fmt.Sprintf("%s: %s", e.Site, e.Msg) }

func runtimeErrorf(site SourceRegion, format string, args ...any) error {
	return &RuntimeError{Site: site, Msg: fmt.Sprintf(format, args...)}
}

// StepRecorder observes statement-granularity execution. It is the
// interpreter's single hook for tracing/debugging (§5's externally
// drivable step), implemented as a callback rather than a literal
// pull-based step() so that a trace sink (see the trace package) can be
// wired in without the interpreter itself managing a suspended
// continuation.
type StepRecorder interface {
	OnStep(site SourceRegion, note string)
}

// globalState tracks the three-phase lazy initialization of a top-level
// binding (§4.3): unstarted, in progress (for cycle detection), done.
type globalState int

const (
	globalUnstarted globalState = iota
	globalInProgress
	globalDone
)

// frame is one function activation: where to write the eventual return
// value, the binding environment for locals introduced within it (`var`
// statements, parameters, match-clause variables), and the stack of
// persistent allocations owned by the activation's currently-open
// scopes, reclaimed in reverse order as each scope exits (§3.5, §4.3).
type frame struct {
	resultAddress Address
	locals        map[*SimpleBinding]Address
	persistent    []Address
}

func newFrame(resultAddress Address) *frame {
	return &frame{resultAddress: resultAddress, locals: make(map[*SimpleBinding]Address)}
}

// localBind returns a bind callback that introduces a pattern variable
// into fr's environment, for use with matchPattern.
func (fr *frame) localBind() func(*SimpleBinding, Address) {
	return func(b *SimpleBinding, addr Address) { fr.locals[b] = addr }
}

// ctrl is the non-local exit signal threaded back up through statement
// execution in place of the spec's reified onReturn/onBreak/onContinue
// continuations — idiomatic Go favors an explicit result over a
// continuation closure for this, and the two are observationally
// identical: both stop normal statement sequencing and unwind to the
// nearest handler of the right kind. See DESIGN.md.
type ctrl int

const (
	ctrlNormal ctrl = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

// evalResult is the outcome of evaluating an expression: the address
// holding its value, and — if that address was freshly allocated for
// this evaluation rather than naming existing storage — the root
// address to deallocate once the caller is done with it. Addr and Root
// coincide for a plain temporary; Root differs from Addr when Addr
// is itself a projection of an ephemeral base (e.g. `(1, 2).0`).
type evalResult struct {
	Addr      Address
	Root      Address
	Ephemeral bool
}

func ephemeralResult(addr Address) evalResult {
	return evalResult{Addr: addr, Root: addr, Ephemeral: true}
}

func storageResult(addr Address) evalResult {
	return evalResult{Addr: addr}
}

// projectResult derives the result of projecting field id out of base's
// result: the projection shares base's lifetime rather than owning one
// of its own.
func projectResult(base evalResult, id FieldID) evalResult {
	return evalResult{Addr: base.Addr.Field(id), Root: base.Root, Ephemeral: base.Ephemeral}
}

// Interpreter drives one run of a checked program to completion. Memory
// is its sole mutable resource (§5); Globals and state track the lazy,
// cycle-checked initialization of top-level bindings.
type Interpreter struct {
	Program *ExecutableProgram
	Memory  *Memory
	Trace   StepRecorder

	globals map[*SimpleBinding]Address
	state   map[*SimpleBinding]globalState
}

// NewInterpreter builds an interpreter for a program that has already
// passed BuildExecutableProgram with OK() true.
func NewInterpreter(p *ExecutableProgram) *Interpreter {
	return &Interpreter{
		Program: p,
		Memory:  NewMemory(),
		globals: make(map[*SimpleBinding]Address),
		state:   make(map[*SimpleBinding]globalState),
	}
}

// Run evaluates `main()` to completion and returns its Int result as
// the host process's exit code (§6: "the distinguished main ... whose
// return value is the program's exit code"). A RuntimeError, or an
// internal invariant violation raised through panicInternal, is reported
// as a non-nil error instead (Memory's own panics are not recovered); the host
// is expected to treat that as exit code 1, not read exitCode.
func (i *Interpreter) Run() (exitCode int64, err error) {
	defer recoverInternal(&err)
	main := i.Program.MainFunction()
	if main == nil {
		return 0, fmt.Errorf("interp: program has no main function")
	}
	dest := i.Memory.Allocate(IntType{}, false)
	defer i.Memory.Dealloc(dest)
	if callErr := i.callUserFunction(main, nil, dest); callErr != nil {
		return 0, callErr
	}
	return i.Memory.Read(dest).(IntValue).Value, nil
}

// callUserFunction binds argAddrs to def's parameter patterns by value
// (a fresh, persistent copy per parameter, reclaimed at the call's
// exit) and runs its body, writing the result to dest.
func (i *Interpreter) callUserFunction(def *FunctionDefinition, argAddrs []Address, dest Address) error {
	fr := newFrame(dest)
	for idx, f := range def.Params.Fields {
		argVal := i.Memory.Read(argAddrs[idx])
		paramAddr := i.Memory.Allocate(argVal.DynamicType(), true)
		i.Memory.Write(paramAddr, argVal)
		fr.persistent = append(fr.persistent, paramAddr)
		matched, err := i.matchPattern(fr, fr.localBind(), f.Value, paramAddr)
		if err != nil {
			i.reclaimTo(fr, 0)
			return err
		}
		if !matched {
			i.reclaimTo(fr, 0)
			return runtimeErrorf(f.Value.Site(), "argument did not match parameter pattern")
		}
	}

	var bodyErr error
	switch body := def.Body.(type) {
	case BlockBody:
		c, err := i.execStmt(fr, body.Block)
		if err == nil && c != ctrlReturn {
			// Fell off the end of the block without an explicit return.
			// The checker does not verify that every path returns, so the
			// unit tuple is written only when dest is bound to the unit
			// tuple type; any other return type is a runtime error.
			if TypesEqual(i.Memory.Type(dest), TupleType{}) {
				i.Memory.Write(dest, TupleValue{})
			} else {
				err = runtimeErrorf(def.Site(), "function '%s' ended without returning a value", def.NameVal)
			}
		}
		bodyErr = err
	case ExprBody:
		r, err := i.evalExpr(fr, body.Expr)
		if err == nil {
			i.Memory.Write(dest, i.Memory.Read(r.Addr))
			i.releaseEphemeral(r)
		}
		bodyErr = err
	case nil:
		bodyErr = runtimeErrorf(def.Site(), "call to forward-declared function '%s' with no body", def.NameVal)
	}

	i.reclaimTo(fr, 0)
	return bodyErr
}

// releaseEphemeral deallocates r's root if evaluating the expression
// that produced r allocated fresh storage for it.
func (i *Interpreter) releaseEphemeral(r evalResult) {
	if r.Ephemeral {
		i.Memory.Dealloc(r.Root)
	}
}

// evalExprInto evaluates e and copies its value into dest, releasing
// any ephemeral storage the evaluation allocated. Used to fill a field
// projection of a partially-constructed tuple/struct/choice.
func (i *Interpreter) evalExprInto(fr *frame, e Expression, dest Address) error {
	r, err := i.evalExpr(fr, e)
	if err != nil {
		return err
	}
	i.Memory.Write(dest, i.Memory.Read(r.Addr))
	i.releaseEphemeral(r)
	return nil
}

// reclaimTo deallocates fr's persistent allocations back down to mark,
// in reverse order of allocation (§3.5 invariant 4).
func (i *Interpreter) reclaimTo(fr *frame, mark int) {
	for idx := len(fr.persistent) - 1; idx >= mark; idx-- {
		i.Memory.Dealloc(fr.persistent[idx])
	}
	fr.persistent = fr.persistent[:mark]
}

// resolveGlobal returns the persistent address of a top-level binding,
// running its Initialization on first reference. All bindings declared
// by the same Initialization are marked in-progress together, so a
// cyclic reference from within any of their initializers is caught
// regardless of which one started the evaluation (§4.3).
func (i *Interpreter) resolveGlobal(def *SimpleBinding) (Address, error) {
	if addr, ok := i.globals[def]; ok {
		return addr, nil
	}
	if i.state[def] == globalInProgress {
		return Address{}, runtimeErrorf(def.Site(), "cycle evaluating global '%s'", def.Name)
	}
	init := i.Program.Check.EnclosingInitialization[def]
	if init == nil {
		panicInternal(def.Site(), "resolveGlobal: binding has no enclosing Initialization")
	}
	siblings := collectBindings(init.Pattern)
	for _, b := range siblings {
		i.state[b] = globalInProgress
	}
	if err := i.runGlobalInitialization(init); err != nil {
		return Address{}, err
	}
	for _, b := range siblings {
		i.state[b] = globalDone
	}
	addr, ok := i.globals[def]
	if !ok {
		panicInternal(def.Site(), "resolveGlobal: binding not bound after its initialization ran")
	}
	return addr, nil
}

func (i *Interpreter) runGlobalInitialization(init *Initialization) error {
	fr := newFrame(Address{})
	r, err := i.evalExpr(fr, init.Initializer)
	if err != nil {
		return err
	}
	// Each global binding gets its own independent, never-reclaimed
	// allocation, copied out of whatever projection matchPattern hands
	// it — globals cannot share a root the way block-local bindings
	// share their enclosing frame's allocation, since they have no
	// common enclosing scope to reclaim them together.
	bind := func(b *SimpleBinding, addr Address) {
		own := i.Memory.Allocate(i.Memory.Type(addr), true)
		i.Memory.Write(own, i.Memory.Read(addr))
		i.globals[b] = own
	}
	matched, err := i.matchPattern(fr, bind, init.Pattern, r.Addr)
	i.releaseEphemeral(r)
	if err != nil {
		return err
	}
	if !matched {
		return runtimeErrorf(init.Site(), "pattern did not match its initializer")
	}
	return nil
}
