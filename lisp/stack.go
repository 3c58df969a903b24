// Copyright © 2026 The sexp authors

package lisp

import (
	"fmt"
	"io"

	"github.com/sexplang/sexp/parser/token"
)

// CallStack is a function call stack.  One frame is pushed for each function
// application.  Loop and recursion-function iterations reuse the frame of
// their activation.
type CallStack struct {
	Frames            []CallFrame
	MaxHeightPhysical int
}

// CallFrame is one frame in the CallStack
type CallFrame struct {
	Source    *token.Location
	Namespace string
	Name      string
	Type      LType
}

// QualifiedFunName returns the name of the function prefixed by its
// namespace.
func (f *CallFrame) QualifiedFunName() string {
	if f == nil {
		return ""
	}
	if f.Namespace == "" {
		return f.Name
	}
	return f.Namespace + "." + f.Name
}

func (f *CallFrame) String() string {
	if f.Source != nil {
		return fmt.Sprintf("%s: %s", f.Source, f.desc())
	}
	return f.desc()
}

func (f *CallFrame) desc() string {
	return fmt.Sprintf("%s [%s]", f.QualifiedFunName(), f.Type)
}

// Copy creates a copy of the current stack so that it can be attached to a
// runtime error.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{
		Frames:            frames,
		MaxHeightPhysical: s.MaxHeightPhysical,
	}
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Height returns the number of frames in s.
func (s *CallStack) Height() int {
	return len(s.Frames)
}

// Push pushes a frame for an application of fun at src.
func (s *CallStack) Push(src *token.Location, fun *LVal) error {
	err := s.checkHeightPush()
	if err != nil {
		return err
	}
	frame := CallFrame{
		Source: src,
		Type:   fun.Type,
		Name:   anonFunName,
	}
	if fun.Fun != nil && fun.Fun.Name != "" {
		frame.Name = fun.Fun.Name
		frame.Namespace = fun.Fun.Namespace
	}
	s.Frames = append(s.Frames, frame)
	return nil
}

// checkHeightPush performs an inclusive check against s.MaxHeightPhysical
// because it is called before a new frame is pushed onto the stack.
func (s *CallStack) checkHeightPush() error {
	if s.MaxHeightPhysical <= 0 {
		return nil
	}
	if s.MaxHeightPhysical <= len(s.Frames) {
		height := len(s.Frames) + 1
		return EvalError(CodeStackOverflow, ErrorData{"height": height},
			"physical stack height exceeded maximum: %d", height)
	}
	return nil
}

// Pop removes the top CallFrame from the stack and returns it.
func (s *CallStack) Pop() CallFrame {
	if len(s.Frames) < 1 {
		panic("pop called on an empty stack")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames[len(s.Frames)-1] = CallFrame{}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f
}

// Reset discards all frames.
func (s *CallStack) Reset() {
	for i := range s.Frames {
		s.Frames[i] = CallFrame{}
	}
	s.Frames = s.Frames[:0]
}

// DebugPrint prints s
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	n, err := fmt.Fprintf(w, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	if err != nil {
		return n, err
	}
	indent := "  "
	for i := len(s.Frames) - 1; i >= 0; i-- {
		fstr := s.Frames[i].String()
		_n, err := fmt.Fprintf(w, "%sheight %d: %s\n", indent, i, fstr)
		n += _n
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
