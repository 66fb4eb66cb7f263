// Package sema implements the four semantic-analysis sub-passes, run in
// order: identifier resolution, type checking, control-flow labelling, and
// goto-label resolution. Each is a tree walk over cast.Program that mutates
// the AST in place; pure subtrees pass through unchanged.
package sema

import (
	"github.com/aiven-lang/minicc/internal/cast"
	"github.com/aiven-lang/minicc/internal/diag"
	"github.com/aiven-lang/minicc/internal/ids"
)

// scopeEntry records one name's resolution state within a scope.
type scopeEntry struct {
	newName            string
	fromCurrentScope   bool
	hasExternalLinkage bool
}

type scope map[string]scopeEntry

func (s scope) childScope() scope {
	child := make(scope, len(s))
	for name, entry := range s {
		child[name] = scopeEntry{newName: entry.newName, fromCurrentScope: false, hasExternalLinkage: entry.hasExternalLinkage}
	}
	return child
}

type identResolver struct {
	gen *ids.Generator
}

// ResolveIdentifiers runs §4.3.1: lexical scoping of variable and function
// names, rewriting every VarDecl and Variable to a fresh unique name.
func ResolveIdentifiers(prog *cast.Program, gen *ids.Generator) error {
	r := &identResolver{gen: gen}
	top := scope{}
	for _, fn := range prog.Decls {
		if err := r.resolveFuncDecl(fn, top); err != nil {
			return err
		}
	}
	return nil
}

func (r *identResolver) resolveFuncDecl(fn *cast.FuncDecl, outer scope) error {
	if entry, ok := outer[fn.Name]; ok && entry.fromCurrentScope && !entry.hasExternalLinkage {
		return diag.NewResolutionError(fn.Pos, "redeclaration of %q without external linkage", fn.Name)
	}
	outer[fn.Name] = scopeEntry{newName: fn.Name, fromCurrentScope: true, hasExternalLinkage: true}

	if fn.Body == nil {
		return nil
	}

	inner := outer.childScope()
	for _, param := range fn.Params {
		if entry, ok := inner[param]; ok && entry.fromCurrentScope {
			return diag.NewResolutionError(fn.Pos, "redeclaration of parameter %q", param)
		}
		fresh := r.gen.Rename(param)
		inner[param] = scopeEntry{newName: fresh, fromCurrentScope: true}
	}
	// Parameters are renamed in place so later stages see the resolved
	// names consistently with every Variable reference to them.
	for i, param := range fn.Params {
		fn.Params[i] = inner[param].newName
	}

	return r.resolveBlock(fn.Body, inner)
}

func (r *identResolver) resolveBlock(blk *cast.Block, outer scope) error {
	inner := outer.childScope()
	for _, item := range blk.Items {
		switch v := item.(type) {
		case *cast.VarDecl:
			if err := r.resolveVarDecl(v, inner); err != nil {
				return err
			}
		case *cast.FuncDecl:
			if v.Body != nil {
				return diag.NewResolutionError(v.Pos, "nested function definition %q", v.Name)
			}
			if err := r.resolveFuncDecl(v, inner); err != nil {
				return err
			}
		case cast.Stmt:
			if err := r.resolveStmt(v, inner); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *identResolver) resolveVarDecl(decl *cast.VarDecl, sc scope) error {
	if entry, ok := sc[decl.Name]; ok && entry.fromCurrentScope {
		return diag.NewResolutionError(decl.Pos, "redeclaration of %q", decl.Name)
	}
	fresh := r.gen.Rename(decl.Name)
	sc[decl.Name] = scopeEntry{newName: fresh, fromCurrentScope: true}
	if decl.Init != nil {
		if err := r.resolveExpr(&decl.Init, sc); err != nil {
			return err
		}
	}
	decl.Name = fresh
	return nil
}

func (r *identResolver) resolveStmt(stmt cast.Stmt, sc scope) error {
	switch s := stmt.(type) {
	case *cast.ReturnStmt:
		return r.resolveExpr(&s.Expr, sc)
	case *cast.ExprStmt:
		return r.resolveExpr(&s.Expr, sc)
	case *cast.IfStmt:
		if err := r.resolveExpr(&s.Cond, sc); err != nil {
			return err
		}
		if err := r.resolveStmt(s.Then, sc); err != nil {
			return err
		}
		if s.Else != nil {
			return r.resolveStmt(s.Else, sc)
		}
		return nil
	case *cast.GotoStmt, *cast.BreakStmt, *cast.ContinueStmt, *cast.NullStmt:
		return nil
	case *cast.LabelledStmt:
		return r.resolveStmt(s.Stmt, sc)
	case *cast.CompoundStmt:
		return r.resolveBlock(s.Block, sc)
	case *cast.WhileStmt:
		if err := r.resolveExpr(&s.Cond, sc); err != nil {
			return err
		}
		return r.resolveStmt(s.Body, sc)
	case *cast.DoWhileStmt:
		if err := r.resolveStmt(s.Body, sc); err != nil {
			return err
		}
		return r.resolveExpr(&s.Cond, sc)
	case *cast.ForStmt:
		inner := sc.childScope()
		if s.Init.Decl != nil {
			if err := r.resolveVarDecl(s.Init.Decl, inner); err != nil {
				return err
			}
		} else if s.Init.Expr != nil {
			if err := r.resolveExpr(&s.Init.Expr, inner); err != nil {
				return err
			}
		}
		if s.Cond != nil {
			if err := r.resolveExpr(&s.Cond, inner); err != nil {
				return err
			}
		}
		if s.Post != nil {
			if err := r.resolveExpr(&s.Post, inner); err != nil {
				return err
			}
		}
		return r.resolveStmt(s.Body, inner)
	case *cast.SwitchStmt:
		if err := r.resolveExpr(&s.Selector, sc); err != nil {
			return err
		}
		return r.resolveStmt(s.Body, sc)
	case *cast.CaseStmt:
		return r.resolveStmt(s.Stmt, sc)
	case *cast.DefaultStmt:
		return r.resolveStmt(s.Stmt, sc)
	default:
		return nil
	}
}

func (r *identResolver) resolveExpr(e *cast.Expr, sc scope) error {
	switch v := (*e).(type) {
	case *cast.Constant:
		return nil
	case *cast.Variable:
		entry, ok := sc[v.Name]
		if !ok {
			return diag.NewResolutionError(v.Pos, "use of undeclared identifier %q", v.Name)
		}
		v.Name = entry.newName
		return nil
	case *cast.UnaryExpr:
		return r.resolveExpr(&v.Inner, sc)
	case *cast.BinaryExpr:
		if err := r.resolveExpr(&v.Left, sc); err != nil {
			return err
		}
		return r.resolveExpr(&v.Right, sc)
	case *cast.AssignmentExpr:
		if _, ok := v.LValue.(*cast.Variable); !ok {
			return diag.NewResolutionError(v.Pos, "invalid lvalue in assignment")
		}
		if err := r.resolveExpr(&v.LValue, sc); err != nil {
			return err
		}
		return r.resolveExpr(&v.RValue, sc)
	case *cast.CrementExpr:
		if _, ok := v.Var.(*cast.Variable); !ok {
			return diag.NewResolutionError(v.Pos, "invalid lvalue in increment/decrement")
		}
		return r.resolveExpr(&v.Var, sc)
	case *cast.ConditionalExpr:
		if err := r.resolveExpr(&v.Cond, sc); err != nil {
			return err
		}
		if err := r.resolveExpr(&v.Then, sc); err != nil {
			return err
		}
		return r.resolveExpr(&v.Else, sc)
	case *cast.FunctionCallExpr:
		entry, ok := sc[v.Name]
		if !ok {
			return diag.NewResolutionError(v.Pos, "call to undeclared function %q", v.Name)
		}
		v.Name = entry.newName
		for i := range v.Args {
			if err := r.resolveExpr(&v.Args[i], sc); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
