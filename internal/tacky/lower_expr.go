package tacky

import "github.com/aiven-lang/minicc/internal/cast"

// lowerExpr lowers a C expression into a linear instruction sequence
// appended to b.body, returning the Val holding its result.
func (b *builder) lowerExpr(e cast.Expr) Val {
	switch v := e.(type) {
	case *cast.Constant:
		return Constant{Value: v.Value}

	case *cast.Variable:
		return Var{Name: v.Name}

	case *cast.UnaryExpr:
		src := b.lowerExpr(v.Inner)
		dst := Var{Name: b.gen.Temp()}
		b.emit(Unary{Op: unaryOp(v.Op), Src: src, Dst: dst})
		return dst

	case *cast.BinaryExpr:
		return b.lowerBinary(v)

	case *cast.AssignmentExpr:
		lv, ok := v.LValue.(*cast.Variable)
		if !ok {
			panic("tacky: assignment lvalue must be a Variable after identifier resolution")
		}
		rv := b.lowerExpr(v.RValue)
		dst := Var{Name: lv.Name}
		b.emit(Copy{Src: rv, Dst: dst})
		return dst

	case *cast.CrementExpr:
		return b.lowerCrement(v)

	case *cast.ConditionalExpr:
		return b.lowerConditional(v)

	case *cast.FunctionCallExpr:
		args := make([]Val, len(v.Args))
		for i, arg := range v.Args {
			args[i] = b.lowerExpr(arg)
		}
		dst := Var{Name: b.gen.Temp()}
		b.emit(FuncCall{Name: v.Name, Args: args, Dst: dst})
		return dst

	default:
		panic("tacky: unhandled expression node")
	}
}

// lowerBinary handles short-circuit && and ||, then falls through to plain
// two-operand lowering for every other binary operator.
func (b *builder) lowerBinary(v *cast.BinaryExpr) Val {
	switch v.Op {
	case cast.OpLogicalAnd:
		falseLbl, endLbl := b.gen.AndLabels()
		result := Var{Name: b.gen.Temp()}
		left := b.lowerExpr(v.Left)
		b.emit(JumpIfZero{Cond: left, Target: falseLbl})
		right := b.lowerExpr(v.Right)
		b.emit(JumpIfZero{Cond: right, Target: falseLbl})
		b.emit(Copy{Src: Constant{Value: 1}, Dst: result})
		b.emit(Jump{Target: endLbl})
		b.emit(Label{Name: falseLbl})
		b.emit(Copy{Src: Constant{Value: 0}, Dst: result})
		b.emit(Label{Name: endLbl})
		return result

	case cast.OpLogicalOr:
		trueLbl, endLbl := b.gen.OrLabels()
		result := Var{Name: b.gen.Temp()}
		left := b.lowerExpr(v.Left)
		b.emit(JumpIfNotZero{Cond: left, Target: trueLbl})
		right := b.lowerExpr(v.Right)
		b.emit(JumpIfNotZero{Cond: right, Target: trueLbl})
		b.emit(Copy{Src: Constant{Value: 0}, Dst: result})
		b.emit(Jump{Target: endLbl})
		b.emit(Label{Name: trueLbl})
		b.emit(Copy{Src: Constant{Value: 1}, Dst: result})
		b.emit(Label{Name: endLbl})
		return result

	default:
		s1 := b.lowerExpr(v.Left)
		s2 := b.lowerExpr(v.Right)
		dst := Var{Name: b.gen.Temp()}
		b.emit(Binary{Op: binaryOp(v.Op), Src1: s1, Src2: s2, Dst: dst})
		return dst
	}
}

func (b *builder) lowerCrement(v *cast.CrementExpr) Val {
	variable, ok := v.Var.(*cast.Variable)
	if !ok {
		panic("tacky: crement operand must be a Variable after identifier resolution")
	}
	dst := Var{Name: variable.Name}
	op := OpAdd
	if !v.Increment {
		op = OpSubtract
	}
	if !v.Post {
		b.emit(Binary{Op: op, Src1: dst, Src2: Constant{Value: 1}, Dst: dst})
		return dst
	}
	tmp := Var{Name: b.gen.Temp()}
	b.emit(Copy{Src: dst, Dst: tmp})
	b.emit(Binary{Op: op, Src1: dst, Src2: Constant{Value: 1}, Dst: dst})
	return tmp
}

func (b *builder) lowerConditional(v *cast.ConditionalExpr) Val {
	expr2Lbl, endLbl := b.gen.CondLabels()
	result := Var{Name: b.gen.Temp()}
	cond := b.lowerExpr(v.Cond)
	b.emit(JumpIfZero{Cond: cond, Target: expr2Lbl})
	v1 := b.lowerExpr(v.Then)
	b.emit(Copy{Src: v1, Dst: result})
	b.emit(Jump{Target: endLbl})
	b.emit(Label{Name: expr2Lbl})
	v2 := b.lowerExpr(v.Else)
	b.emit(Copy{Src: v2, Dst: result})
	b.emit(Label{Name: endLbl})
	return result
}

func unaryOp(op cast.UnaryOp) UnaryOp {
	switch op {
	case cast.OpComplement:
		return OpComplement
	case cast.OpNegate:
		return OpNegate
	case cast.OpLogicalNot:
		return OpLogicalNot
	default:
		return OpComplement
	}
}

func binaryOp(op cast.BinaryOp) BinaryOp {
	switch op {
	case cast.OpAdd:
		return OpAdd
	case cast.OpSubtract:
		return OpSubtract
	case cast.OpMultiply:
		return OpMultiply
	case cast.OpDivide:
		return OpDivide
	case cast.OpModulo:
		return OpModulo
	case cast.OpLeftShift:
		return OpLeftShift
	case cast.OpRightShift:
		return OpRightShift
	case cast.OpBitwiseAnd:
		return OpBitwiseAnd
	case cast.OpBitwiseOr:
		return OpBitwiseOr
	case cast.OpBitwiseXor:
		return OpBitwiseXor
	case cast.OpIsEqual:
		return OpIsEqual
	case cast.OpNotEqual:
		return OpNotEqual
	case cast.OpLessThan:
		return OpLessThan
	case cast.OpGreaterThan:
		return OpGreaterThan
	case cast.OpLessOrEqual:
		return OpLessOrEqual
	case cast.OpGreaterOrEqual:
		return OpGreaterOrEqual
	default:
		panic("tacky: unhandled binary operator")
	}
}
