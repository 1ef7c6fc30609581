package mython

import (
	"io"
	"sync"
)

// Config controls interpreter execution bounds.
type Config struct {
	// RecursionLimit caps the method call depth so runaway recursion in a
	// script surfaces as a diagnostic instead of exhausting the stack.
	RecursionLimit int
}

const defaultRecursionLimit = 256

// Engine compiles Mython source into runnable programs. An Engine remembers
// class definitions across Compile calls, so an interactive host can define
// a class in one submission and instantiate it in the next.
type Engine struct {
	config  Config
	mu      sync.Mutex
	classes map[string]*Class
}

func NewEngine(cfg Config) *Engine {
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = defaultRecursionLimit
	}
	return &Engine{config: cfg, classes: make(map[string]*Class)}
}

// Compile lexes and parses source. The returned program can be run any
// number of times.
func (e *Engine) Compile(source string) (*Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := newParser(source, e.classes)
	stmts, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	return &Program{Statements: stmts, source: source, engine: e}, nil
}

// Run executes the program in a fresh top-level closure, writing script
// output to w.
func (p *Program) Run(w io.Writer) error {
	return p.RunInto(w, NewClosure())
}

// RunInto executes the program in the given top-level closure, so a host
// (the REPL) can keep bindings alive across runs.
func (p *Program) RunInto(w io.Writer, closure *Closure) error {
	exec := newExecution(w, p.source, p.engine.config.RecursionLimit)
	for _, stmt := range p.Statements {
		_, returned, err := exec.execStatement(stmt, closure)
		if err != nil {
			return err
		}
		if returned {
			return exec.errorAt(stmt.Pos(), "return outside of a method")
		}
	}
	return nil
}
