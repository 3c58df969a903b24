// Copyright © 2026 The sexp authors

package lisp

// CheckLoopControl verifies the placement of break and recur in expr before
// it is evaluated.  Every tail branch of a loop or defnr body must end in
// break or recur, and break and recur may appear nowhere else.  Tail branches
// are followed through if and through the last expression of do.
func CheckLoopControl(expr *LExpr) error {
	return checkLoop(expr, false)
}

// checkLoop walks expr.  When tail is true expr is a tail branch of a loop
// body.
func checkLoop(expr *LExpr, tail bool) error {
	if expr.Type != ExprList || len(expr.Cells) == 0 {
		if tail {
			return errLoopBody(expr)
		}
		return nil
	}
	head := expr.Head()
	switch head {
	case "break", "recur":
		if !tail {
			return errLoopControlPlace(head, expr)
		}
		return checkLoopAll(expr.Cells[1:])
	case "if":
		if len(expr.Cells) > 1 {
			if err := checkLoop(expr.Cells[1], false); err != nil {
				return err
			}
		}
		for _, branch := range expr.Cells[min(2, len(expr.Cells)):] {
			if err := checkLoop(branch, tail); err != nil {
				return err
			}
		}
		if tail && len(expr.Cells) < 4 {
			return errLoopBody(expr)
		}
		return nil
	case "do":
		body := expr.Cells[1:]
		if len(body) == 0 {
			if tail {
				return errLoopBody(expr)
			}
			return nil
		}
		if err := checkLoopAll(body[:len(body)-1]); err != nil {
			return err
		}
		return checkLoop(body[len(body)-1], tail)
	}
	if tail {
		return errLoopBody(expr)
	}
	switch head {
	case "loop":
		// (loop params args body)
		if len(expr.Cells) > 2 {
			if err := checkLoopAll(expr.Cells[2:3]); err != nil {
				return err
			}
		}
		if len(expr.Cells) > 3 {
			if err := checkLoop(expr.Cells[3], true); err != nil {
				return err
			}
			return checkLoopAll(expr.Cells[4:])
		}
		return nil
	case "defnr":
		// (defnr name params body)
		if len(expr.Cells) > 3 {
			if err := checkLoop(expr.Cells[3], true); err != nil {
				return err
			}
			return checkLoopAll(expr.Cells[4:])
		}
		return nil
	case "defn":
		return checkLoopAll(expr.Cells[min(3, len(expr.Cells)):])
	case "fn":
		return checkLoopAll(expr.Cells[min(2, len(expr.Cells)):])
	case "const", "let", "set":
		return checkLoopAll(expr.Cells[min(2, len(expr.Cells)):])
	case "namespace":
		return checkLoopAll(expr.Cells[min(2, len(expr.Cells)):])
	case "use":
		return nil
	}
	return checkLoopAll(expr.Cells)
}

func checkLoopAll(exprs []*LExpr) error {
	for _, expr := range exprs {
		if err := checkLoop(expr, false); err != nil {
			return err
		}
	}
	return nil
}

func errLoopBody(expr *LExpr) error {
	lerr := SyntaxError(CodeInvalidLoopBody, ErrorData{"form": expr.String()},
		"loop body must end with break or recur: %v", expr)
	lerr.Source = expr.Source
	return lerr
}

func errLoopControlPlace(form string, expr *LExpr) error {
	lerr := SyntaxError(CodeInvalidLoopControlPlace, ErrorData{"form": form},
		"%s must be the last form of a loop or recursion function body", form)
	lerr.Source = expr.Source
	return lerr
}
