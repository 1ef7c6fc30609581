package mython

import (
	"fmt"
	"io"
	"strings"
)

// Execution carries the mutable state of one program run: the output stream
// and the call stack. Evaluation is single-threaded and depth-first;
// statement walkers return (value, returned, error) where returned reports
// that a return statement fired and is still looking for its method frame.
type Execution struct {
	out          io.Writer
	source       string
	callStack    []callFrame
	recursionCap int
}

type callFrame struct {
	Function string
	Pos      Position
}

// StackFrame is one entry of a diagnostic call trace.
type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError is a fatal semantic failure: type mismatch, unknown name,
// missing method, division by zero. Scripts cannot catch it.
type RuntimeError struct {
	Message   string
	CodeFrame string
	Frames    []StackFrame
}

func (re *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(re.Message)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	for _, frame := range re.Frames {
		if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}
	return b.String()
}

func newExecution(out io.Writer, source string, recursionCap int) *Execution {
	return &Execution{out: out, source: source, recursionCap: recursionCap}
}

func (exec *Execution) pushFrame(function string, pos Position) error {
	if len(exec.callStack) >= exec.recursionCap {
		return exec.errorAt(pos, "recursion limit of %d frames exceeded", exec.recursionCap)
	}
	exec.callStack = append(exec.callStack, callFrame{Function: function, Pos: pos})
	return nil
}

func (exec *Execution) popFrame() {
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
}

func (exec *Execution) errorAt(pos Position, format string, args ...any) *RuntimeError {
	frames := make([]StackFrame, 0, len(exec.callStack))
	for i := len(exec.callStack) - 1; i >= 0; i-- {
		frames = append(frames, StackFrame{Function: exec.callStack[i].Function, Pos: exec.callStack[i].Pos})
	}
	return &RuntimeError{
		Message:   fmt.Sprintf(format, args...),
		CodeFrame: formatCodeFrame(exec.source, pos),
		Frames:    frames,
	}
}
