package asmgen

// FixUp runs §4.5.3: prepends AllocateStack(round16(stack_size)) to each
// function's body, then legalizes every instruction against x86-64's
// operand constraints. Each original instruction is examined once: the
// instructions a rule puts in its place (sometimes a Mov prepended ahead of
// the rewritten instruction) are spliced into the slice and stepped over,
// not examined again.
func FixUp(prog *Program, stackSizes map[string]int32) {
	for _, fn := range prog.Functions {
		fixUpFunction(fn, stackSizes[fn.Name])
	}
}

func fixUpFunction(fn *Function, stackSize int32) {
	instrs := append([]Instruction{AllocateStack{Bytes: round16(stackSize)}}, fn.Instructions...)

	i := 0
	for i < len(instrs) {
		replacement, consumed := legalize(instrs[i])
		if consumed == 1 && len(replacement) == 1 {
			instrs[i] = replacement[0]
			i++
			continue
		}
		instrs = append(instrs[:i], append(replacement, instrs[i+consumed:]...)...)
		i += len(replacement)
	}

	fn.Instructions = instrs
}

func round16(n int32) int32 {
	if n < 0 {
		n = -n
	}
	return (n + 15) &^ 15
}

func isStack(op Operand) bool {
	_, ok := op.(Stack)
	return ok
}

func isImm(op Operand) bool {
	_, ok := op.(Imm)
	return ok
}

// legalize returns the instructions that should replace instrs[i] (always
// length 1, 2, or 3) and how many original instructions it consumes
// (always 1 — every fix-up rule here rewrites exactly one instruction into
// one-or-more replacements, never folds multiple together).
func legalize(ins Instruction) ([]Instruction, int) {
	switch v := ins.(type) {
	case Mov:
		if isStack(v.Src) && isStack(v.Dst) {
			return []Instruction{
				Mov{Src: v.Src, Dst: Reg{Name: R10}},
				Mov{Src: Reg{Name: R10}, Dst: v.Dst},
			}, 1
		}
		return []Instruction{v}, 1

	case Binary:
		if v.Op == OpMultiply && isStack(v.Dst) {
			return []Instruction{
				Mov{Src: v.Dst, Dst: Reg{Name: R11}},
				Binary{Op: OpMultiply, Src: v.Src, Dst: Reg{Name: R11}},
				Mov{Src: Reg{Name: R11}, Dst: v.Dst},
			}, 1
		}
		if (v.Op == OpLeftShift || v.Op == OpRightShift) && !isCXReg(v.Src) {
			return []Instruction{
				Mov{Src: v.Src, Dst: Reg{Name: CX}},
				Binary{Op: v.Op, Src: Reg{Name: CX}, Dst: v.Dst},
			}, 1
		}
		if isStack(v.Src) && isStack(v.Dst) {
			return []Instruction{
				Mov{Src: v.Src, Dst: Reg{Name: R10}},
				Binary{Op: v.Op, Src: Reg{Name: R10}, Dst: v.Dst},
			}, 1
		}
		return []Instruction{v}, 1

	case Idiv:
		if isImm(v.Operand) {
			return []Instruction{
				Mov{Src: v.Operand, Dst: Reg{Name: R10}},
				Idiv{Operand: Reg{Name: R10}},
			}, 1
		}
		return []Instruction{v}, 1

	case Cmp:
		if isImm(v.B) {
			return []Instruction{
				Mov{Src: v.B, Dst: Reg{Name: R10}},
				Cmp{A: v.A, B: Reg{Name: R10}},
			}, 1
		}
		if isStack(v.A) && isStack(v.B) {
			return []Instruction{
				Mov{Src: v.A, Dst: Reg{Name: R10}},
				Cmp{A: Reg{Name: R10}, B: v.B},
			}, 1
		}
		return []Instruction{v}, 1

	default:
		return []Instruction{v}, 1
	}
}

func isCXReg(op Operand) bool {
	r, ok := op.(Reg)
	return ok && r.Name == CX
}
