// Copyright © 2026 The sexp authors

package lisp

import (
	"math"
)

// Paths of the native namespaces registered in every interpreter.
const (
	NativeI64Namespace = "native.i64"
	NativeI32Namespace = "native.i32"
	NativeF64Namespace = "native.f64"
	NativeF32Namespace = "native.f32"
	BuiltinNamespace   = "builtin"
)

// numericFun is the implementation of a native function over numbers.  A nil
// numericFun marks an operation which is declared but not implemented.
type numericFun func(x []float64) float64

type nativeBuiltin struct {
	name  string
	arity int
	fun   numericFun
	doc   string
}

type nativeNamespace struct {
	path     string
	builtins []*nativeBuiltin
}

var nativeNamespaces = []*nativeNamespace{
	{NativeI64Namespace, concat(i64Builtins, unimplemented(2, "div_u", "rem_u", "lt_u", "gt_u", "le_u", "ge_u"),
		unimplemented(1, "extend_i32_s", "extend_i32_u", "trunc_f32_s", "trunc_f32_u", "trunc_f64_s", "trunc_f64_u"))},
	{NativeI32Namespace, concat(
		unimplemented(2, "add", "sub", "mul", "div_s", "div_u", "rem_s", "rem_u",
			"and", "or", "xor", "shl", "shr_s", "shr_u",
			"eq", "ne", "lt_s", "lt_u", "gt_s", "gt_u", "le_s", "le_u", "ge_s", "ge_u"),
		unimplemented(1, "wrap", "trunc_f32_s", "trunc_f32_u", "trunc_f64_s", "trunc_f64_u"))},
	{NativeF64Namespace, concat(f64Builtins,
		unimplemented(1, "promote", "convert_i32_s", "convert_i32_u", "convert_i64_s", "convert_i64_u"))},
	{NativeF32Namespace, concat(
		unimplemented(2, "add", "sub", "mul", "div", "eq", "ne", "lt", "gt", "le", "ge"),
		unimplemented(1, "abs", "neg", "ceil", "floor", "trunc", "nearest", "sqrt",
			"demote", "convert_i32_s", "convert_i32_u", "convert_i64_s", "convert_i64_u"))},
	{BuiltinNamespace, builtinBuiltins},
}

var i64Builtins = []*nativeBuiltin{
	{"add", 2, func(x []float64) float64 { return x[0] + x[1] },
		`Returns the sum of two integers.`},
	{"sub", 2, func(x []float64) float64 { return x[0] - x[1] },
		`Returns the difference of two integers.`},
	{"mul", 2, func(x []float64) float64 { return x[0] * x[1] },
		`Returns the product of two integers.`},
	{"div_s", 2, func(x []float64) float64 { return x[0] / x[1] },
		`Returns the quotient of two signed integers.`},
	{"rem_s", 2, func(x []float64) float64 { return math.Mod(x[0], x[1]) },
		`Returns the remainder of two signed integers.  The result has the
		sign of the dividend.`},
	{"and", 2, func(x []float64) float64 { return float64(toInt64(x[0]) & toInt64(x[1])) },
		`Returns the bitwise and of two integers.`},
	{"or", 2, func(x []float64) float64 { return float64(toInt64(x[0]) | toInt64(x[1])) },
		`Returns the bitwise or of two integers.`},
	{"xor", 2, func(x []float64) float64 { return float64(toInt64(x[0]) ^ toInt64(x[1])) },
		`Returns the bitwise exclusive or of two integers.`},
	{"shl", 2, func(x []float64) float64 { return float64(toInt64(x[0]) << shiftCount(x[1])) },
		`Shifts an integer left.  Only the low 6 bits of the count are used.`},
	{"shr_s", 2, func(x []float64) float64 { return float64(toInt64(x[0]) >> shiftCount(x[1])) },
		`Shifts an integer right, preserving its sign.`},
	{"shr_u", 2, func(x []float64) float64 { return float64(uint64(toInt64(x[0])) >> shiftCount(x[1])) },
		`Shifts the unsigned 64-bit pattern of an integer right.`},
	{"eq", 2, compare(func(a, b float64) bool { return a == b }),
		`Returns 1 if two integers are equal and 0 otherwise.`},
	{"ne", 2, compare(func(a, b float64) bool { return a != b }),
		`Returns 1 if two integers differ and 0 otherwise.`},
	{"lt_s", 2, compare(func(a, b float64) bool { return a < b }),
		`Returns 1 if the first integer is less than the second.`},
	{"gt_s", 2, compare(func(a, b float64) bool { return a > b }),
		`Returns 1 if the first integer is greater than the second.`},
	{"le_s", 2, compare(func(a, b float64) bool { return a <= b }),
		`Returns 1 if the first integer is less than or equal to the second.`},
	{"ge_s", 2, compare(func(a, b float64) bool { return a >= b }),
		`Returns 1 if the first integer is greater than or equal to the
		second.`},
}

var f64Builtins = []*nativeBuiltin{
	{"add", 2, func(x []float64) float64 { return x[0] + x[1] },
		`Returns the sum of two floats.`},
	{"sub", 2, func(x []float64) float64 { return x[0] - x[1] },
		`Returns the difference of two floats.`},
	{"mul", 2, func(x []float64) float64 { return x[0] * x[1] },
		`Returns the product of two floats.`},
	{"div", 2, func(x []float64) float64 { return x[0] / x[1] },
		`Returns the quotient of two floats.`},
	{"eq", 2, compare(func(a, b float64) bool { return a == b }),
		`Returns 1 if two floats are equal and 0 otherwise.`},
	{"ne", 2, compare(func(a, b float64) bool { return a != b }),
		`Returns 1 if two floats differ and 0 otherwise.`},
	{"lt", 2, compare(func(a, b float64) bool { return a < b }),
		`Returns 1 if the first float is less than the second.`},
	{"gt", 2, compare(func(a, b float64) bool { return a > b }),
		`Returns 1 if the first float is greater than the second.`},
	{"le", 2, compare(func(a, b float64) bool { return a <= b }),
		`Returns 1 if the first float is less than or equal to the second.`},
	{"ge", 2, compare(func(a, b float64) bool { return a >= b }),
		`Returns 1 if the first float is greater than or equal to the second.`},
	{"abs", 1, func(x []float64) float64 { return math.Abs(x[0]) },
		`Returns the absolute value of a float.`},
	{"neg", 1, func(x []float64) float64 { return -x[0] },
		`Returns the negation of a float.`},
	{"ceil", 1, func(x []float64) float64 { return math.Ceil(x[0]) },
		`Rounds a float up to an integer.`},
	{"floor", 1, func(x []float64) float64 { return math.Floor(x[0]) },
		`Rounds a float down to an integer.`},
	{"trunc", 1, func(x []float64) float64 { return math.Trunc(x[0]) },
		`Rounds a float toward zero.`},
	{"nearest", 1, func(x []float64) float64 { return nearest(x[0]) },
		`Rounds a float to the nearest integer.  Halves round up.`},
	{"sqrt", 1, func(x []float64) float64 { return math.Sqrt(x[0]) },
		`Returns the square root of a float.`},
}

var builtinBuiltins = []*nativeBuiltin{
	{"and", 2, func(x []float64) float64 { return boolNum(toInt64(x[0])&toInt64(x[1]) != 0) },
		`Returns 1 if both arguments are true and 0 otherwise.`},
	{"or", 2, func(x []float64) float64 { return boolNum(toInt64(x[0])|toInt64(x[1]) != 0) },
		`Returns 1 if either argument is true and 0 otherwise.`},
	{"not", 1, func(x []float64) float64 { return boolNum(x[0] == 0) },
		`Returns 1 if the argument is 0 and 0 otherwise.`},
}

// RegisterNatives creates the native namespaces in r and defines their
// functions.
func RegisterNatives(r *Registry) error {
	for _, nn := range nativeNamespaces {
		ns := r.CreateNamespace(nn.path)
		for _, b := range nn.builtins {
			if err := ns.DefineNative(b.name, b.arity, b.builtin(nn.path), b.doc); err != nil {
				return err
			}
		}
	}
	builtin, err := r.GetNamespace(BuiltinNamespace)
	if err != nil {
		return err
	}
	return builtin.DefineNative("val", 1, builtinVal, `Returns its argument.`)
}

func builtinVal(args []*LVal) (*LVal, error) {
	return args[0], nil
}

func (b *nativeBuiltin) builtin(path string) LBuiltin {
	name := path + "." + b.name
	if b.fun == nil {
		return func(args []*LVal) (*LVal, error) {
			return nil, EvalError(CodeNotImplement, ErrorData{"name": name},
				"native function not implemented: %s", name)
		}
	}
	fun := b.fun
	return func(args []*LVal) (*LVal, error) {
		x := make([]float64, len(args))
		for i, arg := range args {
			if arg.Type != LNumber {
				return nil, EvalError(CodeArgumentNotANumber, ErrorData{"name": name, "index": i},
					"%s: argument %d is not a number: %v", name, i, arg)
			}
			x[i] = arg.Num
		}
		return Number(fun(x)), nil
	}
}

func unimplemented(arity int, names ...string) []*nativeBuiltin {
	builtins := make([]*nativeBuiltin, len(names))
	for i, name := range names {
		builtins[i] = &nativeBuiltin{name: name, arity: arity, doc: `Not implemented.`}
	}
	return builtins
}

func concat(lists ...[]*nativeBuiltin) []*nativeBuiltin {
	var builtins []*nativeBuiltin
	for _, list := range lists {
		builtins = append(builtins, list...)
	}
	return builtins
}

func compare(fn func(a, b float64) bool) numericFun {
	return func(x []float64) float64 {
		return boolNum(fn(x[0], x[1]))
	}
}

func boolNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

const twoTo63 = 1 << 63
const twoTo64 = 1 << 64

// toInt64 converts x to a 64-bit integer by truncation, wrapping values
// outside the range of int64.  NaN and infinities convert to 0.
func toInt64(x float64) int64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	t := math.Mod(math.Trunc(x), twoTo64)
	switch {
	case t >= twoTo63:
		t -= twoTo64
	case t < -twoTo63:
		t += twoTo64
	}
	return int64(t)
}

func shiftCount(x float64) uint64 {
	return uint64(toInt64(x)) & 63
}

func nearest(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		return f + 1
	}
	return f
}
