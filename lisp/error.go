// Copyright © 2026 The sexp authors

package lisp

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/sexplang/sexp/parser/token"
)

// ErrorKind classifies an interpreter Error.
type ErrorKind uint

const (
	KindInvalid ErrorKind = iota
	KindLex
	KindIdentifier
	KindSyntax
	KindEval
)

func (k ErrorKind) String() string {
	switch k {
	case KindLex:
		return "LexError"
	case KindIdentifier:
		return "IdentifierError"
	case KindSyntax:
		return "SyntaxError"
	case KindEval:
		return "EvalError"
	default:
		return "Error"
	}
}

// Error codes.
const (
	CodeInvalidChar = "INVALID_CHAR"
	CodeInvalidUTF8 = "INVALID_UTF8"
	CodeReadError   = "READ_ERROR"

	CodeIdentifierAlreadyExist = "IDENTIFIER_ALREADY_EXIST"
	CodeIdentifierNotFound     = "IDENTIFIER_NOT_FOUND"
	CodeNamespaceNotFound      = "NAMESPACE_NOT_FOUND"

	CodeInvalidExpression                      = "INVALID_EXPRESSION"
	CodeIncorrectNumberOfParameters            = "INCORRECT_NUMBER_OF_PARAMETERS"
	CodeIncorrectNumberOfLoopArgs              = "INCORRECT_NUMBER_OF_LOOP_ARGS"
	CodeRequireLoopReturnOneValue              = "REQUIRE_LOOP_RETURN_ONE_VALUE"
	CodeRequireRecursionFunctionReturnOneValue = "REQUIRE_RECURSION_FUNCTION_RETURN_ONE_VALUE"
	CodeInvalidConstExpressionPlace            = "INVALID_CONST_EXPRESSION_PLACE"
	CodeInvalidLetExpressionPlace              = "INVALID_LET_EXPRESSION_PLACE"
	CodeInvalidSetExpressionPlace              = "INVALID_SET_EXPRESSION_PLACE"
	CodeInvalidDefnExpressionPlace             = "INVALID_DEFN_EXPRESSION_PLACE"
	CodeInvalidUseExpressionPlace              = "INVALID_USE_EXPRESSION_PLACE"
	CodeRelativePathError                      = "RELATIVE_PATH_ERROR"
	CodeInvalidFullName                        = "INVALID_FULLNAME"
	CodeInvalidLoopBody                        = "INVALID_LOOP_BODY"
	CodeInvalidLoopControlPlace                = "INVALID_LOOP_CONTROL_PLACE"
	CodeUnmatchedParen                         = "UNMATCHED_PAREN"
	CodeUnexpectedToken                        = "UNEXPECTED_TOKEN"
	CodeUnexpectedEOF                          = "UNEXPECTED_EOF"
	CodeRequireOneExpression                   = "REQUIRE_ONE_EXPRESSION"

	CodeIdentifierNotAFunction = "IDENTIFIER_NOT_A_FUNCTION"
	CodeNotImplement           = "NOT_IMPLEMENT"
	CodeArgumentNotANumber     = "ARGUMENT_NOT_A_NUMBER"
	CodeStackOverflow          = "STACK_OVERFLOW"
	CodeStepLimitExceeded      = "STEP_LIMIT_EXCEEDED"
	CodeContextCancelled       = "CONTEXT_CANCELLED"
	CodeNoReader               = "NO_READER"
)

// Sentinel values for use with errors.Is.  Only Kind and Code are compared.
var (
	ErrIdentifierAlreadyExist      = &Error{Kind: KindIdentifier, Code: CodeIdentifierAlreadyExist}
	ErrIdentifierNotFound          = &Error{Kind: KindIdentifier, Code: CodeIdentifierNotFound}
	ErrNamespaceNotFound           = &Error{Kind: KindIdentifier, Code: CodeNamespaceNotFound}
	ErrInvalidExpression           = &Error{Kind: KindSyntax, Code: CodeInvalidExpression}
	ErrIncorrectNumberOfParameters = &Error{Kind: KindSyntax, Code: CodeIncorrectNumberOfParameters}
	ErrIncorrectNumberOfLoopArgs   = &Error{Kind: KindSyntax, Code: CodeIncorrectNumberOfLoopArgs}
	ErrRelativePathError           = &Error{Kind: KindSyntax, Code: CodeRelativePathError}
	ErrIdentifierNotAFunction      = &Error{Kind: KindEval, Code: CodeIdentifierNotAFunction}
	ErrNotImplement                = &Error{Kind: KindEval, Code: CodeNotImplement}
	ErrStackOverflow               = &Error{Kind: KindEval, Code: CodeStackOverflow}
	ErrStepLimitExceeded           = &Error{Kind: KindEval, Code: CodeStepLimitExceeded}
	ErrContextCancelled            = &Error{Kind: KindEval, Code: CodeContextCancelled}
)

// ErrorData is the structured payload of an Error, e.g. the offending name
// and arity of a bad function call.
type ErrorData map[string]interface{}

// Error is the single error type produced by the lexer, parser and evaluator.
type Error struct {
	Kind    ErrorKind
	Code    string
	Data    ErrorData
	Message string
	// Source is the location of the innermost expression being evaluated
	// (or the offending token) when the error was raised.
	Source *token.Location
	// Stack is a copy of the call stack at the time of the error.  Stack is
	// nil for errors raised outside of evaluation.
	Stack *CallStack
	// Err is an underlying host error, if any.
	Err error
}

func newError(kind ErrorKind, code string, data ErrorData, format string, v ...interface{}) *Error {
	if data == nil {
		data = ErrorData{}
	}
	return &Error{
		Kind:    kind,
		Code:    code,
		Data:    data,
		Message: fmt.Sprintf(format, v...),
	}
}

// LexError returns an error raised while tokenizing source text.
func LexError(code string, data ErrorData, format string, v ...interface{}) *Error {
	return newError(KindLex, code, data, format, v...)
}

// IdentifierError returns an error raised by a failed identifier or
// namespace operation.
func IdentifierError(code string, data ErrorData, format string, v ...interface{}) *Error {
	return newError(KindIdentifier, code, data, format, v...)
}

// SyntaxError returns an error raised for a malformed expression.
func SyntaxError(code string, data ErrorData, format string, v ...interface{}) *Error {
	return newError(KindSyntax, code, data, format, v...)
}

// EvalError returns a general runtime error.
func EvalError(code string, data ErrorData, format string, v ...interface{}) *Error {
	return newError(KindEval, code, data, format, v...)
}

func (e *Error) Error() string {
	if e.Source != nil {
		return fmt.Sprintf("%v: %s: %s", e.Source, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying host error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same kind and code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Code == e.Code
}

// WriteTrace writes the error message followed by the call stack, if one was
// captured.
func (e *Error) WriteTrace(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	var n int
	var err error
	wrote := func(_n int, _err error) bool {
		n += _n
		err = _err
		return err == nil
	}
	if !wrote(fmt.Fprintf(bw, "%s %s\n", e.Kind, e.Error())) {
		return n, err
	}
	if e.Stack != nil && len(e.Stack.Frames) > 0 {
		if !wrote(e.Stack.DebugPrint(bw)) {
			return n, err
		}
	}
	return n, bw.Flush()
}

// ErrorCode returns the code of err if it is an *Error, and the empty string
// otherwise.
func ErrorCode(err error) string {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}

// AsError returns the first *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
