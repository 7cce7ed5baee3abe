// Package disasm renders the instruction at a program counter as a
// human-readable mnemonic line, for logging and the cmd/mos6502run driver.
// It is not part of the CPU engine: it reads memory through the same
// error-returning Memory contract the engine uses, but never mutates state.
package disasm

import (
	"fmt"

	"github.com/kressler/mos6502/insn"
	"github.com/kressler/mos6502/memory"
)

// operandWidth returns how many operand bytes follow the opcode for mode.
func operandWidth(mode insn.AddressingMode) int {
	switch mode {
	case insn.NoMode:
		return 0
	case insn.Absolute, insn.AbsoluteX, insn.AbsoluteY, insn.Indirect:
		return 2
	default:
		return 1
	}
}

// Step disassembles the instruction at pc, returning its text and the total
// length in bytes (opcode plus operand). It does not advance any CPU state;
// callers step pc forward by the returned length themselves.
func Step(pc uint16, mem memory.Memory) (string, int, error) {
	opcode, err := mem.Read(pc)
	if err != nil {
		return "", 0, fmt.Errorf("disasm: reading opcode at 0x%.4X: %w", pc, err)
	}
	in := insn.Decode(opcode)
	width := operandWidth(in.Mode)

	if !in.IsValid() {
		return fmt.Sprintf("%.4X  %.2X        JAM", pc, opcode), 1, nil
	}

	var operand uint16
	for i := 0; i < width; i++ {
		b, err := mem.Read(pc + 1 + uint16(i))
		if err != nil {
			return "", 0, fmt.Errorf("disasm: reading operand at 0x%.4X: %w", pc+1+uint16(i), err)
		}
		operand |= uint16(b) << (8 * i)
	}

	text := fmt.Sprintf("%.4X  %s", pc, formatOperand(in, operand))
	return text, 1 + width, nil
}

// formatOperand renders the mnemonic with its resolved operand substituted
// into the addressing-mode suffix, e.g. "LDA #$12" or "LDA $1200,X".
func formatOperand(in insn.Insn, operand uint16) string {
	name := in.Name()
	switch in.Mode {
	case insn.NoMode:
		return name
	case insn.Immediate:
		return fmt.Sprintf("%s #$%.2X", name, operand)
	case insn.Relative:
		return fmt.Sprintf("%s *%+d", name, int8(operand))
	case insn.Zeropage:
		return fmt.Sprintf("%s $%.2X", name, operand)
	case insn.ZeropageX:
		return fmt.Sprintf("%s $%.2X,X", name, operand)
	case insn.ZeropageY:
		return fmt.Sprintf("%s $%.2X,Y", name, operand)
	case insn.Absolute:
		return fmt.Sprintf("%s $%.4X", name, operand)
	case insn.AbsoluteX:
		return fmt.Sprintf("%s $%.4X,X", name, operand)
	case insn.AbsoluteY:
		return fmt.Sprintf("%s $%.4X,Y", name, operand)
	case insn.Indirect:
		return fmt.Sprintf("%s ($%.4X)", name, operand)
	case insn.Xindirect:
		return fmt.Sprintf("%s ($%.2X,X)", name, operand)
	case insn.IndirectY:
		return fmt.Sprintf("%s ($%.2X),Y", name, operand)
	}
	return name
}
