package sema

import (
	"github.com/aiven-lang/minicc/internal/cast"
	"github.com/aiven-lang/minicc/internal/diag"
)

// CheckTypes runs §4.3.2: populates the symbol table and validates that
// every Variable and FunctionCall use matches the declared type.
func CheckTypes(prog *cast.Program) (cast.SymbolTable, error) {
	syms := cast.SymbolTable{}
	tc := &typeChecker{syms: syms}
	for _, fn := range prog.Decls {
		if err := tc.checkFuncDecl(fn); err != nil {
			return nil, err
		}
	}
	return syms, nil
}

type typeChecker struct {
	syms cast.SymbolTable
}

func (tc *typeChecker) checkFuncDecl(fn *cast.FuncDecl) error {
	ft := cast.FuncType{ParamCount: len(fn.Params)}
	hasBody := fn.Body != nil

	if existing, ok := tc.syms[fn.Name]; ok {
		if !existing.Type.Equal(ft) {
			return diag.NewTypeError(fn.Pos, "incompatible redeclaration of function %q", fn.Name)
		}
		if existing.Defined && hasBody {
			return diag.NewTypeError(fn.Pos, "redefinition of function %q", fn.Name)
		}
		existing.Defined = existing.Defined || hasBody
		tc.syms[fn.Name] = existing
	} else {
		tc.syms[fn.Name] = cast.SymbolInfo{Type: ft, Defined: hasBody, HasExternalLinkage: true}
	}

	for _, param := range fn.Params {
		tc.syms[param] = cast.SymbolInfo{Type: cast.IntType{}, Defined: true}
	}

	if fn.Body != nil {
		if err := tc.checkBlock(fn.Body); err != nil {
			return err
		}
	}
	return nil
}

func (tc *typeChecker) checkBlock(blk *cast.Block) error {
	for _, item := range blk.Items {
		switch v := item.(type) {
		case *cast.VarDecl:
			tc.syms[v.Name] = cast.SymbolInfo{Type: cast.IntType{}, Defined: true}
			if v.Init != nil {
				if err := tc.checkExpr(v.Init); err != nil {
					return err
				}
			}
		case *cast.FuncDecl:
			if err := tc.checkFuncDecl(v); err != nil {
				return err
			}
		case cast.Stmt:
			if err := tc.checkStmt(v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (tc *typeChecker) checkStmt(stmt cast.Stmt) error {
	switch s := stmt.(type) {
	case *cast.ReturnStmt:
		return tc.checkExpr(s.Expr)
	case *cast.ExprStmt:
		return tc.checkExpr(s.Expr)
	case *cast.IfStmt:
		if err := tc.checkExpr(s.Cond); err != nil {
			return err
		}
		if err := tc.checkStmt(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return tc.checkStmt(s.Else)
		}
		return nil
	case *cast.GotoStmt, *cast.BreakStmt, *cast.ContinueStmt, *cast.NullStmt:
		return nil
	case *cast.LabelledStmt:
		return tc.checkStmt(s.Stmt)
	case *cast.CompoundStmt:
		return tc.checkBlock(s.Block)
	case *cast.WhileStmt:
		if err := tc.checkExpr(s.Cond); err != nil {
			return err
		}
		return tc.checkStmt(s.Body)
	case *cast.DoWhileStmt:
		if err := tc.checkStmt(s.Body); err != nil {
			return err
		}
		return tc.checkExpr(s.Cond)
	case *cast.ForStmt:
		if s.Init.Decl != nil {
			tc.syms[s.Init.Decl.Name] = cast.SymbolInfo{Type: cast.IntType{}, Defined: true}
			if s.Init.Decl.Init != nil {
				if err := tc.checkExpr(s.Init.Decl.Init); err != nil {
					return err
				}
			}
		} else if s.Init.Expr != nil {
			if err := tc.checkExpr(s.Init.Expr); err != nil {
				return err
			}
		}
		if s.Cond != nil {
			if err := tc.checkExpr(s.Cond); err != nil {
				return err
			}
		}
		if s.Post != nil {
			if err := tc.checkExpr(s.Post); err != nil {
				return err
			}
		}
		return tc.checkStmt(s.Body)
	case *cast.SwitchStmt:
		if err := tc.checkExpr(s.Selector); err != nil {
			return err
		}
		return tc.checkStmt(s.Body)
	case *cast.CaseStmt:
		return tc.checkStmt(s.Stmt)
	case *cast.DefaultStmt:
		return tc.checkStmt(s.Stmt)
	default:
		return nil
	}
}

func (tc *typeChecker) checkExpr(e cast.Expr) error {
	switch v := e.(type) {
	case *cast.Constant:
		return nil
	case *cast.Variable:
		info, ok := tc.syms[v.Name]
		if !ok {
			return diag.NewTypeError(v.Pos, "use of undeclared identifier %q", v.Name)
		}
		if _, isInt := info.Type.(cast.IntType); !isInt {
			return diag.NewTypeError(v.Pos, "function %q used as a variable", v.Name)
		}
		return nil
	case *cast.UnaryExpr:
		return tc.checkExpr(v.Inner)
	case *cast.BinaryExpr:
		if err := tc.checkExpr(v.Left); err != nil {
			return err
		}
		return tc.checkExpr(v.Right)
	case *cast.AssignmentExpr:
		if err := tc.checkExpr(v.LValue); err != nil {
			return err
		}
		return tc.checkExpr(v.RValue)
	case *cast.CrementExpr:
		return tc.checkExpr(v.Var)
	case *cast.ConditionalExpr:
		if err := tc.checkExpr(v.Cond); err != nil {
			return err
		}
		if err := tc.checkExpr(v.Then); err != nil {
			return err
		}
		return tc.checkExpr(v.Else)
	case *cast.FunctionCallExpr:
		info, ok := tc.syms[v.Name]
		if !ok {
			return diag.NewTypeError(v.Pos, "call to undeclared function %q", v.Name)
		}
		ft, isFunc := info.Type.(cast.FuncType)
		if !isFunc || ft.ParamCount != len(v.Args) {
			return diag.NewTypeError(v.Pos, "function %q called with wrong number of arguments", v.Name)
		}
		for _, arg := range v.Args {
			if err := tc.checkExpr(arg); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
