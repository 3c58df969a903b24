// Copyright © 2026 The sexp authors

package lisp

import (
	"bytes"
	"fmt"
)

// LType is the type of an LVal
type LType uint

// Possible LType values
const (
	LInvalid LType = iota
	// LNone is the value of an empty do or namespace body.
	LNone
	LNumber
	LNative
	LUserFun
	LAnonFun
	LRecurFun
	// LMarkBreak and LMarkRecur are loop signals.  They are produced by break
	// and recur and consumed by the loop and recursion-function trampolines.
	// They are never visible to user code.
	LMarkBreak
	LMarkRecur
	numLTypes
)

var lvalTypeStrings = [numLTypes]string{
	LInvalid:   "INVALID",
	LNone:      "none",
	LNumber:    "number",
	LNative:    "native-function",
	LUserFun:   "function",
	LAnonFun:   "lambda",
	LRecurFun:  "recursion-function",
	LMarkBreak: "break",
	LMarkRecur: "recur",
}

func (t LType) String() string {
	if t >= numLTypes {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// LBuiltin is the host implementation of a native function.  It is called
// with exactly as many arguments as the function's declared arity.
type LBuiltin func(args []*LVal) (*LVal, error)

// FunData holds the definition of a function value.
type FunData struct {
	// Name is the defined name of the function.  Anonymous functions have no
	// name.
	Name string
	// Namespace is the path of the namespace the function was defined in.
	Namespace string
	Params    []string
	Body      *LExpr
	// Env is the context captured when the function was created.  Free
	// identifiers in Body resolve against Env, never the caller's context.
	Env     Context
	Builtin LBuiltin
	Doc     string
	arity   int
}

// Arity returns the number of arguments the function requires.
func (fd *FunData) Arity() int {
	if fd.Builtin != nil {
		return fd.arity
	}
	return len(fd.Params)
}

// QualifiedName returns the function name prefixed by its namespace path.
func (fd *FunData) QualifiedName() string {
	switch {
	case fd.Name == "":
		return anonFunName
	case fd.Namespace == "":
		return fd.Name
	}
	return fd.Namespace + "." + fd.Name
}

// LVal is a runtime value.
type LVal struct {
	Type LType
	Num  float64
	// Fun holds the definition of function values.
	Fun *FunData
	// Cells holds the payload of loop signals.
	Cells []*LVal
}

// Number returns an LVal representing the number x.
func Number(x float64) *LVal {
	return &LVal{Type: LNumber, Num: x}
}

// Bool returns the number 1 if b is true and 0 otherwise.
func Bool(b bool) *LVal {
	if b {
		return Number(1)
	}
	return Number(0)
}

// None returns the value of an empty body.
func None() *LVal {
	return &LVal{Type: LNone}
}

// Native returns a native function value.
func Native(name string, arity int, fn LBuiltin) *LVal {
	return &LVal{
		Type: LNative,
		Fun: &FunData{
			Name:    name,
			Builtin: fn,
			arity:   arity,
		},
	}
}

// Fun returns a user defined function value of type typ (LUserFun, LAnonFun
// or LRecurFun).
func Fun(typ LType, name string, params []string, body *LExpr, env Context) *LVal {
	fd := &FunData{
		Name:   name,
		Params: params,
		Body:   body,
		Env:    env,
	}
	if env != nil {
		fd.Namespace = env.Namespace().Path
	}
	return &LVal{Type: typ, Fun: fd}
}

func markBreak(v ...*LVal) *LVal {
	return &LVal{Type: LMarkBreak, Cells: v}
}

func markRecur(args []*LVal) *LVal {
	return &LVal{Type: LMarkRecur, Cells: args}
}

// IsFunction returns true if v can be applied to arguments.
func (v *LVal) IsFunction() bool {
	switch v.Type {
	case LNative, LUserFun, LAnonFun, LRecurFun:
		return true
	}
	return false
}

// IsTrue returns true if v is the true constant 1.
func (v *LVal) IsTrue() bool {
	return v.Type == LNumber && v.Num == 1
}

func (v *LVal) isMark() bool {
	return v.Type == LMarkBreak || v.Type == LMarkRecur
}

func (v *LVal) String() string {
	switch v.Type {
	case LNone:
		return "()"
	case LNumber:
		return formatNumber(v.Num)
	case LNative, LUserFun, LRecurFun:
		return fmt.Sprintf("<%s %s>", v.Type, v.Fun.QualifiedName())
	case LAnonFun:
		return "<lambda>"
	case LMarkBreak, LMarkRecur:
		var buf bytes.Buffer
		buf.WriteString("<")
		buf.WriteString(v.Type.String())
		for _, c := range v.Cells {
			buf.WriteString(" ")
			buf.WriteString(c.String())
		}
		buf.WriteString(">")
		return buf.String()
	}
	return "<invalid>"
}
