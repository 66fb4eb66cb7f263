package tacky

import (
	"github.com/aiven-lang/minicc/internal/cast"
	"github.com/aiven-lang/minicc/internal/ids"
)

// builder accumulates one function's instruction sequence while walking
// the C AST, mirroring the original CToTacky visitor's emit-as-you-go
// shape.
type builder struct {
	gen  *ids.Generator
	body []Instruction
}

func (b *builder) emit(ins Instruction) { b.body = append(b.body, ins) }

// Lower converts a fully analyzed cast.Program into a tacky.Program. Only
// FuncDecls with a body produce a tacky.Function; declarations without a
// body contribute nothing (there is no TACKY for an un-defined function).
func Lower(prog *cast.Program, gen *ids.Generator) *Program {
	out := &Program{}
	for _, fn := range prog.Decls {
		if fn.Body == nil {
			continue
		}
		out.Functions = append(out.Functions, lowerFunction(fn, gen))
	}
	return out
}

func lowerFunction(fn *cast.FuncDecl, gen *ids.Generator) *Function {
	b := &builder{gen: gen}
	b.lowerBlock(fn.Body)
	// Safety net: every function body falls through to an implicit
	// `return 0` if control reaches its end without an explicit return.
	b.emit(Return{Val: Constant{Value: 0}})
	return &Function{Name: fn.Name, Params: fn.Params, Body: b.body}
}

func (b *builder) lowerBlock(blk *cast.Block) {
	for _, item := range blk.Items {
		switch v := item.(type) {
		case *cast.VarDecl:
			b.lowerVarDecl(v)
		case *cast.FuncDecl:
			// a nested declaration without a body: no TACKY to emit.
		case cast.Stmt:
			b.lowerStmt(v)
		}
	}
}

func (b *builder) lowerVarDecl(decl *cast.VarDecl) {
	if decl.Init == nil {
		return
	}
	v := b.lowerExpr(decl.Init)
	b.emit(Copy{Src: v, Dst: Var{Name: decl.Name}})
}

func (b *builder) lowerStmt(stmt cast.Stmt) {
	switch s := stmt.(type) {
	case *cast.ReturnStmt:
		v := b.lowerExpr(s.Expr)
		b.emit(Return{Val: v})

	case *cast.ExprStmt:
		b.lowerExpr(s.Expr) // evaluated for side effects only

	case *cast.IfStmt:
		cond := b.lowerExpr(s.Cond)
		elseLbl, end := b.gen.IfLabels()
		if s.Else == nil {
			b.emit(JumpIfZero{Cond: cond, Target: end})
			b.lowerStmt(s.Then)
			b.emit(Label{Name: end})
			return
		}
		b.emit(JumpIfZero{Cond: cond, Target: elseLbl})
		b.lowerStmt(s.Then)
		b.emit(Jump{Target: end})
		b.emit(Label{Name: elseLbl})
		b.lowerStmt(s.Else)
		b.emit(Label{Name: end})

	case *cast.GotoStmt:
		b.emit(Jump{Target: s.Target})

	case *cast.LabelledStmt:
		b.emit(Label{Name: s.Name})
		b.lowerStmt(s.Stmt)

	case *cast.CompoundStmt:
		b.lowerBlock(s.Block)

	case *cast.BreakStmt:
		b.emit(Jump{Target: ids.BreakLabel(s.Label)})

	case *cast.ContinueStmt:
		b.emit(Jump{Target: ids.ContinueLabel(s.Label)})

	case *cast.WhileStmt:
		continueLbl := ids.ContinueLabel(s.ID)
		breakLbl := ids.BreakLabel(s.ID)
		b.emit(Label{Name: continueLbl})
		cond := b.lowerExpr(s.Cond)
		b.emit(JumpIfZero{Cond: cond, Target: breakLbl})
		b.lowerStmt(s.Body)
		b.emit(Jump{Target: continueLbl})
		b.emit(Label{Name: breakLbl})

	case *cast.DoWhileStmt:
		startLbl := ids.StartLabel(s.ID)
		continueLbl := ids.ContinueLabel(s.ID)
		breakLbl := ids.BreakLabel(s.ID)
		b.emit(Label{Name: startLbl})
		b.lowerStmt(s.Body)
		b.emit(Label{Name: continueLbl})
		cond := b.lowerExpr(s.Cond)
		b.emit(JumpIfNotZero{Cond: cond, Target: startLbl})
		b.emit(Label{Name: breakLbl})

	case *cast.ForStmt:
		startLbl := ids.StartLabel(s.ID)
		continueLbl := ids.ContinueLabel(s.ID)
		breakLbl := ids.BreakLabel(s.ID)
		if s.Init.Decl != nil {
			b.lowerVarDecl(s.Init.Decl)
		} else if s.Init.Expr != nil {
			b.lowerExpr(s.Init.Expr)
		}
		b.emit(Label{Name: startLbl})
		if s.Cond != nil {
			cond := b.lowerExpr(s.Cond)
			b.emit(JumpIfZero{Cond: cond, Target: breakLbl})
		}
		b.lowerStmt(s.Body)
		b.emit(Label{Name: continueLbl})
		if s.Post != nil {
			b.lowerExpr(s.Post)
		}
		b.emit(Jump{Target: startLbl})
		b.emit(Label{Name: breakLbl})

	case *cast.SwitchStmt:
		selector := b.lowerExpr(s.Selector)
		breakLbl := ids.BreakLabel(s.ID)
		for _, c := range s.Cases {
			b.emit(JumpIfEqual{Src1: selector, Src2: Constant{Value: int32(c)}, Target: ids.CaseLabel(int(c), s.ID)})
		}
		if s.HasDefault {
			b.emit(Jump{Target: ids.DefaultLabel(s.ID)})
		} else {
			b.emit(Jump{Target: breakLbl})
		}
		b.lowerStmt(s.Body)
		b.emit(Label{Name: breakLbl})

	case *cast.CaseStmt:
		b.emit(Label{Name: ids.CaseLabel(int(s.Value), s.SwitchID)})
		b.lowerStmt(s.Stmt)

	case *cast.DefaultStmt:
		b.emit(Label{Name: ids.DefaultLabel(s.SwitchID)})
		b.lowerStmt(s.Stmt)

	case *cast.NullStmt:
		// no control effect

	default:
	}
}
