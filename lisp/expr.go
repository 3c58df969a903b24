// Copyright © 2026 The sexp authors

package lisp

import (
	"bytes"
	"errors"
	"math"
	"strconv"

	"github.com/sexplang/sexp/parser/token"
)

// ExprType is the type of a parsed expression.
type ExprType uint

const (
	ExprInvalid ExprType = iota
	ExprNumber
	ExprIdent
	ExprList
)

var exprTypeStrings = []string{
	ExprInvalid: "invalid",
	ExprNumber:  "number",
	ExprIdent:   "identifier",
	ExprList:    "list",
}

func (t ExprType) String() string {
	if int(t) >= len(exprTypeStrings) {
		return exprTypeStrings[ExprInvalid]
	}
	return exprTypeStrings[t]
}

// LExpr is a parsed, unevaluated expression: a number literal, an
// identifier, or a parenthesized list of expressions.
type LExpr struct {
	Type ExprType
	// Num holds the value of a number literal.
	Num float64
	// Str holds the name of an identifier or the source text of a number.
	Str    string
	Cells  []*LExpr
	Source *token.Location
}

// NumberExpr returns a number literal expression.
func NumberExpr(x float64) *LExpr {
	return &LExpr{Type: ExprNumber, Num: x, Str: formatNumber(x)}
}

// IdentExpr returns an identifier expression.
func IdentExpr(name string) *LExpr {
	return &LExpr{Type: ExprIdent, Str: name}
}

// ListExpr returns a list expression containing cells.
func ListExpr(cells ...*LExpr) *LExpr {
	if cells == nil {
		cells = []*LExpr{}
	}
	return &LExpr{Type: ExprList, Cells: cells}
}

// AtomExpr converts the text of a symbol token into an expression.  Text
// which converts to a number becomes a number literal, anything else is an
// identifier.
func AtomExpr(text string, loc *token.Location) *LExpr {
	var expr *LExpr
	if x, ok := ParseNumber(text); ok {
		expr = &LExpr{Type: ExprNumber, Num: x, Str: text}
	} else {
		expr = IdentExpr(text)
	}
	expr.Source = loc
	return expr
}

// ParseNumber converts numeric text to a number.  Decimal text uses the
// syntax of strconv.ParseFloat, except that the spellings of NaN and
// infinity are not numbers (only "Infinity" with an optional sign is).
// Integers may be written in hexadecimal, octal or binary with a 0x, 0o or 0b
// prefix.
func ParseNumber(text string) (float64, bool) {
	if len(text) > 2 && text[0] == '0' {
		base := 0
		switch text[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			x, err := strconv.ParseUint(text[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(x), true
		}
	}
	switch text {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	x, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			// overflow to infinity or underflow to zero
			return x, true
		}
		return 0, false
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

func formatNumber(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	case x == 0:
		return "0"
	case x == math.Trunc(x) && math.Abs(x) < 1e21:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Head returns the identifier at the head of a list expression, or the empty
// string if expr is not a list with an identifier head.
func (expr *LExpr) Head() string {
	if expr.Type != ExprList || len(expr.Cells) == 0 {
		return ""
	}
	if expr.Cells[0].Type != ExprIdent {
		return ""
	}
	return expr.Cells[0].Str
}

// Equal compares the structure of expr and other, ignoring source locations
// and the spelling of numbers.
func (expr *LExpr) Equal(other *LExpr) bool {
	if expr == nil || other == nil {
		return expr == other
	}
	if expr.Type != other.Type {
		return false
	}
	switch expr.Type {
	case ExprNumber:
		return expr.Num == other.Num || math.IsNaN(expr.Num) && math.IsNaN(other.Num)
	case ExprIdent:
		return expr.Str == other.Str
	case ExprList:
		if len(expr.Cells) != len(other.Cells) {
			return false
		}
		for i := range expr.Cells {
			if !expr.Cells[i].Equal(other.Cells[i]) {
				return false
			}
		}
		return true
	}
	return true
}

func (expr *LExpr) String() string {
	switch expr.Type {
	case ExprNumber:
		return formatNumber(expr.Num)
	case ExprIdent:
		return expr.Str
	case ExprList:
		var buf bytes.Buffer
		buf.WriteString("(")
		for i, c := range expr.Cells {
			if i > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(c.String())
		}
		buf.WriteString(")")
		return buf.String()
	}
	return "<invalid>"
}
