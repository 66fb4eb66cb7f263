// Package emit serializes the fixed-up assembly IR to AT&T-syntax text,
// matching the exact instruction templates, register-width aliasing, and
// @PLT rule the original compiler's EmitAsmbVisitor uses.
package emit

import (
	"fmt"
	"strings"

	"github.com/aiven-lang/minicc/internal/asmgen"
	"github.com/aiven-lang/minicc/internal/cast"
)

// Program serializes every function in prog to AT&T-syntax assembly text,
// consulting syms to decide whether a Call target needs @PLT.
func Program(prog *asmgen.Program, syms cast.SymbolTable) string {
	var b strings.Builder
	for _, fn := range prog.Functions {
		emitFunction(&b, fn, syms)
	}
	b.WriteString(".section .note.GNU-stack,\"\",@progbits\n")
	return b.String()
}

func emitFunction(b *strings.Builder, fn *asmgen.Function, syms cast.SymbolTable) {
	fmt.Fprintf(b, "\t.globl %s\n", fn.Name)
	fmt.Fprintf(b, "%s:\n", fn.Name)
	b.WriteString("\tpushq %rbp\n")
	b.WriteString("\tmovq %rsp, %rbp\n")
	for _, ins := range fn.Instructions {
		emitInstruction(b, ins, syms)
	}
}

func emitInstruction(b *strings.Builder, ins asmgen.Instruction, syms cast.SymbolTable) {
	switch v := ins.(type) {
	case asmgen.Mov:
		fmt.Fprintf(b, "\tmovl %s, %s\n", operand(v.Src, widthDword), operand(v.Dst, widthDword))

	case asmgen.Unary:
		fmt.Fprintf(b, "\t%s %s\n", unaryMnemonic(v.Op), operand(v.Operand, widthDword))

	case asmgen.Binary:
		fmt.Fprintf(b, "\t%s %s, %s\n", binaryMnemonic(v.Op), operand(v.Src, widthDword), operand(v.Dst, widthDword))

	case asmgen.Idiv:
		fmt.Fprintf(b, "\tidivl %s\n", operand(v.Operand, widthDword))

	case asmgen.Cdq:
		b.WriteString("\tcdq\n")

	case asmgen.AllocateStack:
		fmt.Fprintf(b, "\tsubq $%d, %%rsp\n", v.Bytes)

	case asmgen.DeallocateStack:
		fmt.Fprintf(b, "\taddq $%d, %%rsp\n", v.Bytes)

	case asmgen.Cmp:
		fmt.Fprintf(b, "\tcmpl %s, %s\n", operand(v.A, widthDword), operand(v.B, widthDword))

	case asmgen.Jmp:
		fmt.Fprintf(b, "\tjmp .L%s\n", v.Target)

	case asmgen.JmpCC:
		fmt.Fprintf(b, "\tj%s .L%s\n", ccSuffix(v.CC), v.Target)

	case asmgen.SetCC:
		fmt.Fprintf(b, "\tset%s %s\n", ccSuffix(v.CC), operand(v.Dst, widthByte))

	case asmgen.Label:
		fmt.Fprintf(b, ".L%s:\n", v.Name)

	case asmgen.Push:
		fmt.Fprintf(b, "\tpushq %s\n", operand(v.Operand, widthQword))

	case asmgen.Call:
		if info, ok := syms[v.Name]; ok && info.Defined {
			fmt.Fprintf(b, "\tcall %s\n", v.Name)
		} else {
			fmt.Fprintf(b, "\tcall %s@PLT\n", v.Name)
		}

	case asmgen.Ret:
		b.WriteString("\tmovq %rbp, %rsp\n")
		b.WriteString("\tpopq %rbp\n")
		b.WriteString("\tret\n")

	default:
		panic("emit: unhandled assembly instruction")
	}
}

type width int

const (
	widthByte width = iota
	widthDword
	widthQword
)

func operand(op asmgen.Operand, w width) string {
	switch v := op.(type) {
	case asmgen.Imm:
		return fmt.Sprintf("$%d", v.Value)
	case asmgen.Reg:
		return regName(v.Name, w)
	case asmgen.Stack:
		return fmt.Sprintf("%d(%%rbp)", v.Offset)
	case asmgen.Pseudo:
		panic("emit: Pseudo operand reached the emitter; pseudo-register replacement did not run")
	default:
		panic("emit: unhandled operand kind")
	}
}

func regName(r asmgen.RegisterName, w width) string {
	switch r {
	case asmgen.AX:
		switch w {
		case widthByte:
			return "%al"
		case widthQword:
			return "%rax"
		default:
			return "%eax"
		}
	case asmgen.CX:
		switch w {
		case widthByte:
			return "%cl"
		case widthQword:
			return "%rcx"
		default:
			return "%ecx"
		}
	case asmgen.DX:
		switch w {
		case widthByte:
			return "%dl"
		case widthQword:
			return "%rdx"
		default:
			return "%edx"
		}
	case asmgen.DI:
		switch w {
		case widthByte:
			return "%dil"
		case widthQword:
			return "%rdi"
		default:
			return "%edi"
		}
	case asmgen.SI:
		switch w {
		case widthByte:
			return "%sil"
		case widthQword:
			return "%rsi"
		default:
			return "%esi"
		}
	case asmgen.R8:
		switch w {
		case widthByte:
			return "%r8b"
		case widthQword:
			return "%r8"
		default:
			return "%r8d"
		}
	case asmgen.R9:
		switch w {
		case widthByte:
			return "%r9b"
		case widthQword:
			return "%r9"
		default:
			return "%r9d"
		}
	case asmgen.R10:
		switch w {
		case widthByte:
			return "%r10b"
		case widthQword:
			return "%r10"
		default:
			return "%r10d"
		}
	case asmgen.R11:
		switch w {
		case widthByte:
			return "%r11b"
		case widthQword:
			return "%r11"
		default:
			return "%r11d"
		}
	default:
		panic("emit: unhandled register")
	}
}

func unaryMnemonic(op asmgen.UnaryOp) string {
	switch op {
	case asmgen.OpComplement:
		return "notl"
	case asmgen.OpNegate:
		return "negl"
	default:
		panic("emit: unhandled unary operator")
	}
}

func binaryMnemonic(op asmgen.BinaryOp) string {
	switch op {
	case asmgen.OpAdd:
		return "addl"
	case asmgen.OpSubtract:
		return "subl"
	case asmgen.OpMultiply:
		return "imull"
	case asmgen.OpLeftShift:
		return "sall"
	case asmgen.OpRightShift:
		return "sarl"
	case asmgen.OpBitwiseAnd:
		return "andl"
	case asmgen.OpBitwiseOr:
		return "orl"
	case asmgen.OpBitwiseXor:
		return "xorl"
	default:
		panic("emit: unhandled binary operator")
	}
}

func ccSuffix(cc asmgen.ConditionCode) string {
	switch cc {
	case asmgen.E:
		return "e"
	case asmgen.NE:
		return "ne"
	case asmgen.L:
		return "l"
	case asmgen.LE:
		return "le"
	case asmgen.G:
		return "g"
	case asmgen.GE:
		return "ge"
	default:
		panic("emit: unhandled condition code")
	}
}
