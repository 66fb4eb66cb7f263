package asmgen

import "github.com/aiven-lang/minicc/internal/cast"

// ReplacePseudoRegisters runs §4.5.2: walks each function's instructions,
// assigning every distinct Pseudo name a 4-byte stack slot on first sight.
// The final offset magnitude becomes the function's stack_size in the
// symbol table.
func ReplacePseudoRegisters(prog *Program, syms cast.SymbolTable) {
	for _, fn := range prog.Functions {
		replaceInFunction(fn, syms)
	}
}

func replaceInFunction(fn *Function, syms cast.SymbolTable) {
	offsets := map[string]int32{}
	lastOffset := int32(0)

	resolve := func(op Operand) Operand {
		p, ok := op.(Pseudo)
		if !ok {
			return op
		}
		off, seen := offsets[p.Name]
		if !seen {
			lastOffset -= 4
			off = lastOffset
			offsets[p.Name] = off
		}
		return Stack{Offset: off}
	}

	for i, ins := range fn.Instructions {
		fn.Instructions[i] = replaceOperandsInInstruction(ins, resolve)
	}

	info := syms[fn.Name]
	info.StackSize = -lastOffset
	syms[fn.Name] = info
}

func replaceOperandsInInstruction(ins Instruction, resolve func(Operand) Operand) Instruction {
	switch v := ins.(type) {
	case Mov:
		return Mov{Src: resolve(v.Src), Dst: resolve(v.Dst)}
	case Unary:
		return Unary{Op: v.Op, Operand: resolve(v.Operand)}
	case Binary:
		return Binary{Op: v.Op, Src: resolve(v.Src), Dst: resolve(v.Dst)}
	case Idiv:
		return Idiv{Operand: resolve(v.Operand)}
	case Cmp:
		return Cmp{A: resolve(v.A), B: resolve(v.B)}
	case SetCC:
		return SetCC{CC: v.CC, Dst: resolve(v.Dst)}
	case Push:
		return Push{Operand: resolve(v.Operand)}
	default:
		// Cdq, AllocateStack, DeallocateStack, Jmp, JmpCC, Label, Call, Ret
		// carry no Pseudo operands.
		return ins
	}
}
