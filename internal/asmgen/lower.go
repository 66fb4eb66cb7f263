package asmgen

import "github.com/aiven-lang/minicc/internal/tacky"

// Lower runs §4.5.1: direct per-instruction translation from TACKY into
// assembly IR with pseudo-register operands. Register allocation and
// operand legalization are deliberately not done here — see
// ReplacePseudoRegisters and FixUp.
func Lower(prog *tacky.Program) *Program {
	out := &Program{}
	for _, fn := range prog.Functions {
		out.Functions = append(out.Functions, lowerFunction(fn))
	}
	return out
}

func lowerFunction(fn *tacky.Function) *Function {
	var instrs []Instruction

	// Function entry: copy parameters from their ABI positions into
	// pseudo-operands named after the parameters.
	for i, param := range fn.Params {
		var src Operand
		if i < len(ArgRegs) {
			src = Reg{Name: ArgRegs[i]}
		} else {
			src = Stack{Offset: int32(16 + 8*(i-len(ArgRegs)))}
		}
		instrs = append(instrs, Mov{Src: src, Dst: Pseudo{Name: param}})
	}

	for _, ins := range fn.Body {
		instrs = append(instrs, lowerInstruction(ins)...)
	}

	return &Function{Name: fn.Name, Instructions: instrs}
}

func lowerOperand(v tacky.Val) Operand {
	switch val := v.(type) {
	case tacky.Constant:
		return Imm{Value: val.Value}
	case tacky.Var:
		return Pseudo{Name: val.Name}
	default:
		panic("asmgen: unhandled TACKY value")
	}
}

func lowerInstruction(ins tacky.Instruction) []Instruction {
	switch v := ins.(type) {
	case tacky.Return:
		return []Instruction{
			Mov{Src: lowerOperand(v.Val), Dst: Reg{Name: AX}},
			Ret{},
		}

	case tacky.Unary:
		if v.Op == tacky.OpLogicalNot {
			dst := lowerOperand(v.Dst)
			return []Instruction{
				Cmp{A: Imm{Value: 0}, B: lowerOperand(v.Src)},
				Mov{Src: Imm{Value: 0}, Dst: dst},
				SetCC{CC: E, Dst: dst},
			}
		}
		dst := lowerOperand(v.Dst)
		return []Instruction{
			Mov{Src: lowerOperand(v.Src), Dst: dst},
			Unary{Op: unaryOp(v.Op), Operand: dst},
		}

	case tacky.Binary:
		return lowerBinary(v)

	case tacky.Copy:
		return []Instruction{Mov{Src: lowerOperand(v.Src), Dst: lowerOperand(v.Dst)}}

	case tacky.Jump:
		return []Instruction{Jmp{Target: v.Target}}

	case tacky.JumpIfZero:
		return []Instruction{
			Cmp{A: Imm{Value: 0}, B: lowerOperand(v.Cond)},
			JmpCC{CC: E, Target: v.Target},
		}

	case tacky.JumpIfNotZero:
		return []Instruction{
			Cmp{A: Imm{Value: 0}, B: lowerOperand(v.Cond)},
			JmpCC{CC: NE, Target: v.Target},
		}

	case tacky.JumpIfEqual:
		return []Instruction{
			Cmp{A: lowerOperand(v.Src2), B: lowerOperand(v.Src1)},
			JmpCC{CC: E, Target: v.Target},
		}

	case tacky.Label:
		return []Instruction{Label{Name: v.Name}}

	case tacky.FuncCall:
		return lowerCall(v)

	default:
		panic("asmgen: unhandled TACKY instruction")
	}
}

func lowerBinary(v tacky.Binary) []Instruction {
	dst := lowerOperand(v.Dst)
	s1 := lowerOperand(v.Src1)
	s2 := lowerOperand(v.Src2)

	switch v.Op {
	case tacky.OpDivide:
		return []Instruction{
			Mov{Src: s1, Dst: Reg{Name: AX}},
			Cdq{},
			Idiv{Operand: s2},
			Mov{Src: Reg{Name: AX}, Dst: dst},
		}
	case tacky.OpModulo:
		return []Instruction{
			Mov{Src: s1, Dst: Reg{Name: AX}},
			Cdq{},
			Idiv{Operand: s2},
			Mov{Src: Reg{Name: DX}, Dst: dst},
		}
	}

	if cc, ok := relationalCC(v.Op); ok {
		return []Instruction{
			Cmp{A: s2, B: s1},
			Mov{Src: Imm{Value: 0}, Dst: dst},
			SetCC{CC: cc, Dst: dst},
		}
	}

	return []Instruction{
		Mov{Src: s1, Dst: dst},
		Binary{Op: binaryOp(v.Op), Src: s2, Dst: dst},
	}
}

// lowerCall implements the System V AMD64 calling convention for up to 6
// register args plus the remainder on the stack.
func lowerCall(v tacky.FuncCall) []Instruction {
	var instrs []Instruction

	regArgs := len(v.Args)
	if regArgs > 6 {
		regArgs = 6
	}
	stackArgs := len(v.Args) - regArgs

	if stackArgs%2 != 0 {
		instrs = append(instrs, AllocateStack{Bytes: 8})
	}

	for i := 0; i < regArgs; i++ {
		instrs = append(instrs, Mov{Src: lowerOperand(v.Args[i]), Dst: Reg{Name: ArgRegs[i]}})
	}

	for j := len(v.Args) - 1; j >= 6; j-- {
		arg := lowerOperand(v.Args[j])
		switch arg.(type) {
		case Reg, Imm:
			instrs = append(instrs, Push{Operand: arg})
		default:
			// memory-to-stack push is illegal on x86-64 in 32-bit width;
			// round-trip through AX.
			instrs = append(instrs, Mov{Src: arg, Dst: Reg{Name: AX}}, Push{Operand: Reg{Name: AX}})
		}
	}

	instrs = append(instrs, Call{Name: v.Name})

	padding := int32(0)
	if stackArgs%2 != 0 {
		padding = 8
	}
	deallocate := int32(8*stackArgs) + padding
	if deallocate != 0 {
		instrs = append(instrs, DeallocateStack{Bytes: deallocate})
	}

	instrs = append(instrs, Mov{Src: Reg{Name: AX}, Dst: lowerOperand(v.Dst)})
	return instrs
}

func unaryOp(op tacky.UnaryOp) UnaryOp {
	switch op {
	case tacky.OpComplement:
		return OpComplement
	case tacky.OpNegate:
		return OpNegate
	default:
		panic("asmgen: Logical_NOT must be handled before reaching unaryOp")
	}
}

func binaryOp(op tacky.BinaryOp) BinaryOp {
	switch op {
	case tacky.OpAdd:
		return OpAdd
	case tacky.OpSubtract:
		return OpSubtract
	case tacky.OpMultiply:
		return OpMultiply
	case tacky.OpLeftShift:
		return OpLeftShift
	case tacky.OpRightShift:
		return OpRightShift
	case tacky.OpBitwiseAnd:
		return OpBitwiseAnd
	case tacky.OpBitwiseOr:
		return OpBitwiseOr
	case tacky.OpBitwiseXor:
		return OpBitwiseXor
	default:
		panic("asmgen: unhandled arithmetic/bitwise operator")
	}
}

func relationalCC(op tacky.BinaryOp) (ConditionCode, bool) {
	switch op {
	case tacky.OpIsEqual:
		return E, true
	case tacky.OpNotEqual:
		return NE, true
	case tacky.OpLessThan:
		return L, true
	case tacky.OpLessOrEqual:
		return LE, true
	case tacky.OpGreaterThan:
		return G, true
	case tacky.OpGreaterOrEqual:
		return GE, true
	default:
		return 0, false
	}
}
