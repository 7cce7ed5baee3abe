package cpu

import "github.com/kressler/mos6502/insn"

// effectiveAddress computes the effective address for mode and advances PC
// past the operand bytes. PC here denotes the program counter at entry,
// already advanced past the opcode byte.
//
// Zero-page indexed modes and Xindirect wrap the pointer within the zero
// page (8-bit wrap, via uint8 arithmetic); absolute-indexed and IndirectY
// wrap the final address in 16-bit space (via uint16 arithmetic).
func (c *CPU) effectiveAddress(mode insn.AddressingMode) (uint16, error) {
	pc := c.regs.PC
	switch mode {
	case insn.Immediate, insn.Relative:
		c.regs.SetPC(pc + 1)
		return pc, nil

	case insn.Zeropage:
		lo, err := c.read8(pc)
		if err != nil {
			return 0, err
		}
		c.regs.SetPC(pc + 1)
		return uint16(lo), nil

	case insn.ZeropageX:
		lo, err := c.read8(pc)
		if err != nil {
			return 0, err
		}
		c.regs.SetPC(pc + 1)
		return uint16(lo + c.regs.X()), nil

	case insn.ZeropageY:
		lo, err := c.read8(pc)
		if err != nil {
			return 0, err
		}
		c.regs.SetPC(pc + 1)
		return uint16(lo + c.regs.Y()), nil

	case insn.Absolute:
		addr, err := c.read16(pc)
		if err != nil {
			return 0, err
		}
		c.regs.SetPC(pc + 2)
		return addr, nil

	case insn.AbsoluteX:
		base, err := c.read16(pc)
		if err != nil {
			return 0, err
		}
		c.regs.SetPC(pc + 2)
		return base + uint16(c.regs.X()), nil

	case insn.AbsoluteY:
		base, err := c.read16(pc)
		if err != nil {
			return 0, err
		}
		c.regs.SetPC(pc + 2)
		return base + uint16(c.regs.Y()), nil

	case insn.Indirect:
		ptr, err := c.read16(pc)
		if err != nil {
			return 0, err
		}
		c.regs.SetPC(pc + 2)
		return c.read16(ptr)

	case insn.Xindirect:
		zp, err := c.read8(pc)
		if err != nil {
			return 0, err
		}
		c.regs.SetPC(pc + 1)
		ptr := uint16(zp + c.regs.X())
		return c.read16(ptr)

	case insn.IndirectY:
		zp, err := c.read8(pc)
		if err != nil {
			return 0, err
		}
		c.regs.SetPC(pc + 1)
		base, err := c.read16(uint16(zp))
		if err != nil {
			return 0, err
		}
		return base + uint16(c.regs.Y()), nil
	}
	panic("cpu: effectiveAddress called with NoMode")
}
