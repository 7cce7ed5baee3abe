package cpu

import (
	"github.com/kressler/mos6502/insn"
	"github.com/kressler/mos6502/regfile"
)

// updateFlagsNZ sets N from bit 7 of v and Z from v == 0, the update every
// load, transfer, logical, shift, and increment/decrement instruction
// performs.
func (c *CPU) updateFlagsNZ(v uint8) {
	c.regs.SetFlagFromCond(regfile.Negative, v&0x80 != 0)
	c.regs.SetFlagFromCond(regfile.Zero, v == 0)
}

// step fetches, decodes and executes exactly one instruction, returning the
// decoded instruction on success. Errors here are exactly the ones Run
// latches as a fault: CannotFetchInstruction, InvalidInstruction,
// MemoryAccessError, or a stack bound violation.
func (c *CPU) step() (insn.Insn, error) {
	opcode, err := c.mem.Read(c.regs.PC)
	if err != nil {
		return insn.Insn{}, &CannotFetchInstruction{Err: err}
	}
	c.lastOpcode = opcode
	c.regs.SetPC(c.regs.PC + 1)

	in := insn.Decode(opcode)
	if !in.IsValid() {
		return insn.Insn{}, &InvalidInstruction{Opcode: opcode}
	}

	if err := c.execute(in); err != nil {
		return insn.Insn{}, err
	}
	return in, nil
}

// execute dispatches a decoded instruction to its semantics.
func (c *CPU) execute(in insn.Insn) error {
	switch in.Op {
	case insn.LDA, insn.LDX, insn.LDY:
		return c.execLoad(in)
	case insn.STA, insn.STX, insn.STY:
		return c.execStore(in)
	case insn.TAX, insn.TAY, insn.TXA, insn.TYA, insn.TSX, insn.TXS:
		c.execTransfer(in.Op)
		return nil
	case insn.SEC, insn.SED, insn.SEI, insn.CLC, insn.CLD, insn.CLI, insn.CLV:
		c.execFlagOp(in.Op)
		return nil
	case insn.INX, insn.INY, insn.DEX, insn.DEY:
		c.execRegIncDec(in.Op)
		return nil
	case insn.INC, insn.DEC:
		return c.execMemIncDec(in)
	case insn.AND, insn.ORA, insn.EOR:
		return c.execLogical(in)
	case insn.ASLA, insn.LSRA, insn.ROLA, insn.RORA:
		c.execShiftAccumulator(in.Op)
		return nil
	case insn.ASL, insn.LSR, insn.ROL, insn.ROR:
		return c.execShiftMemory(in)
	case insn.CMP, insn.CPX, insn.CPY:
		return c.execCompare(in)
	case insn.BIT:
		return c.execBit(in)
	case insn.BCC, insn.BCS, insn.BEQ, insn.BNE, insn.BVC, insn.BVS, insn.BPL, insn.BMI:
		return c.execBranch(in.Op)
	case insn.JMP:
		return c.execJump(in)
	case insn.JSR:
		return c.execJSR()
	case insn.RTS:
		return c.execRTS()
	case insn.BRK:
		return c.execBRK()
	case insn.RTI:
		return c.execRTI()
	case insn.PHA:
		return c.pushU8(c.regs.A())
	case insn.PHP:
		return c.pushU8(c.regs.Reg(regfile.P) | regfile.AlwaysOne.Mask() | regfile.Break.Mask())
	case insn.PLA:
		v, err := c.pullU8()
		if err != nil {
			return err
		}
		*c.regs.RegPtr(regfile.A) = v
		c.updateFlagsNZ(v)
		return nil
	case insn.PLP:
		v, err := c.pullU8()
		if err != nil {
			return err
		}
		v |= regfile.AlwaysOne.Mask()
		v &^= regfile.Break.Mask()
		*c.regs.RegPtr(regfile.P) = v
		return nil
	case insn.ADC:
		m, err := c.readOperand(in.Mode)
		if err != nil {
			return err
		}
		c.adc(m)
		return nil
	case insn.SBC:
		m, err := c.readOperand(in.Mode)
		if err != nil {
			return err
		}
		c.sbc(m)
		return nil
	case insn.NOP:
		return nil
	}
	// Unreachable: every Mnemonic other than JAM is handled above, and JAM
	// never decodes to a valid instruction.
	return &InvalidInstruction{Opcode: c.lastOpcode}
}

// readOperand resolves mode to an effective address and reads the byte
// there, for instructions that only consume a value (ALU ops, compares).
func (c *CPU) readOperand(mode insn.AddressingMode) (uint8, error) {
	addr, err := c.effectiveAddress(mode)
	if err != nil {
		return 0, err
	}
	return c.read8(addr)
}

func (c *CPU) execLoad(in insn.Insn) error {
	v, err := c.readOperand(in.Mode)
	if err != nil {
		return err
	}
	var dst regfile.Register
	switch in.Op {
	case insn.LDA:
		dst = regfile.A
	case insn.LDX:
		dst = regfile.X
	default:
		dst = regfile.Y
	}
	*c.regs.RegPtr(dst) = v
	c.updateFlagsNZ(v)
	return nil
}

func (c *CPU) execStore(in insn.Insn) error {
	addr, err := c.effectiveAddress(in.Mode)
	if err != nil {
		return err
	}
	var src regfile.Register
	switch in.Op {
	case insn.STA:
		src = regfile.A
	case insn.STX:
		src = regfile.X
	default:
		src = regfile.Y
	}
	return c.write8(addr, c.regs.Reg(src))
}

func (c *CPU) execTransfer(op insn.Mnemonic) {
	switch op {
	case insn.TAX:
		v := c.regs.A()
		*c.regs.RegPtr(regfile.X) = v
		c.updateFlagsNZ(v)
	case insn.TAY:
		v := c.regs.A()
		*c.regs.RegPtr(regfile.Y) = v
		c.updateFlagsNZ(v)
	case insn.TXA:
		v := c.regs.X()
		*c.regs.RegPtr(regfile.A) = v
		c.updateFlagsNZ(v)
	case insn.TYA:
		v := c.regs.Y()
		*c.regs.RegPtr(regfile.A) = v
		c.updateFlagsNZ(v)
	case insn.TSX:
		v := c.regs.SP()
		*c.regs.RegPtr(regfile.X) = v
		c.updateFlagsNZ(v)
	case insn.TXS:
		// TXS copies X into S without touching any flag.
		*c.regs.RegPtr(regfile.S) = c.regs.X()
	}
}

func (c *CPU) execFlagOp(op insn.Mnemonic) {
	switch op {
	case insn.SEC:
		c.regs.SetFlag(regfile.Carry)
	case insn.SED:
		c.regs.SetFlag(regfile.Decimal)
	case insn.SEI:
		c.regs.SetFlag(regfile.InterruptDisable)
	case insn.CLC:
		c.regs.ClearFlag(regfile.Carry)
	case insn.CLD:
		c.regs.ClearFlag(regfile.Decimal)
	case insn.CLI:
		c.regs.ClearFlag(regfile.InterruptDisable)
	case insn.CLV:
		c.regs.ClearFlag(regfile.Overflow)
	}
}

func (c *CPU) execRegIncDec(op insn.Mnemonic) {
	var reg regfile.Register
	var delta uint8 = 1
	switch op {
	case insn.INX:
		reg = regfile.X
	case insn.INY:
		reg = regfile.Y
	case insn.DEX:
		reg, delta = regfile.X, 0xFF
	case insn.DEY:
		reg, delta = regfile.Y, 0xFF
	}
	p := c.regs.RegPtr(reg)
	*p += delta
	c.updateFlagsNZ(*p)
}

func (c *CPU) execMemIncDec(in insn.Insn) error {
	addr, err := c.effectiveAddress(in.Mode)
	if err != nil {
		return err
	}
	v, err := c.read8(addr)
	if err != nil {
		return err
	}
	if in.Op == insn.INC {
		v++
	} else {
		v--
	}
	if err := c.write8(addr, v); err != nil {
		return err
	}
	c.updateFlagsNZ(v)
	return nil
}

func (c *CPU) execLogical(in insn.Insn) error {
	m, err := c.readOperand(in.Mode)
	if err != nil {
		return err
	}
	a := c.regs.A()
	var result uint8
	switch in.Op {
	case insn.AND:
		result = a & m
	case insn.ORA:
		result = a | m
	case insn.EOR:
		result = a ^ m
	}
	*c.regs.RegPtr(regfile.A) = result
	c.updateFlagsNZ(result)
	return nil
}

// shiftLeft and shiftRight implement the shared shift/rotate arithmetic:
// compute the carry bit shifted out, perform the shift, optionally splice
// the previous carry into the vacated bit for rotates.
func shiftLeft(v uint8, carryIn bool, rotate bool) (result uint8, carryOut bool) {
	carryOut = v&0x80 != 0
	result = v << 1
	if rotate && carryIn {
		result |= 0x01
	}
	return result, carryOut
}

func shiftRight(v uint8, carryIn bool, rotate bool) (result uint8, carryOut bool) {
	carryOut = v&0x01 != 0
	result = v >> 1
	if rotate && carryIn {
		result |= 0x80
	}
	return result, carryOut
}

func (c *CPU) execShiftAccumulator(op insn.Mnemonic) {
	carryIn := c.regs.FlagSet(regfile.Carry)
	a := c.regs.A()
	var result uint8
	var carryOut bool
	switch op {
	case insn.ASLA:
		result, carryOut = shiftLeft(a, carryIn, false)
	case insn.ROLA:
		result, carryOut = shiftLeft(a, carryIn, true)
	case insn.LSRA:
		result, carryOut = shiftRight(a, carryIn, false)
	case insn.RORA:
		result, carryOut = shiftRight(a, carryIn, true)
	}
	*c.regs.RegPtr(regfile.A) = result
	c.updateFlagsNZ(result)
	c.regs.SetFlagFromCond(regfile.Carry, carryOut)
}

func (c *CPU) execShiftMemory(in insn.Insn) error {
	addr, err := c.effectiveAddress(in.Mode)
	if err != nil {
		return err
	}
	v, err := c.read8(addr)
	if err != nil {
		return err
	}
	carryIn := c.regs.FlagSet(regfile.Carry)
	var result uint8
	var carryOut bool
	switch in.Op {
	case insn.ASL:
		result, carryOut = shiftLeft(v, carryIn, false)
	case insn.ROL:
		result, carryOut = shiftLeft(v, carryIn, true)
	case insn.LSR:
		result, carryOut = shiftRight(v, carryIn, false)
	case insn.ROR:
		result, carryOut = shiftRight(v, carryIn, true)
	}
	if err := c.write8(addr, result); err != nil {
		return err
	}
	c.updateFlagsNZ(result)
	c.regs.SetFlagFromCond(regfile.Carry, carryOut)
	return nil
}

func (c *CPU) execCompare(in insn.Insn) error {
	m, err := c.readOperand(in.Mode)
	if err != nil {
		return err
	}
	var r uint8
	switch in.Op {
	case insn.CMP:
		r = c.regs.A()
	case insn.CPX:
		r = c.regs.X()
	case insn.CPY:
		r = c.regs.Y()
	}
	result := r - m
	c.updateFlagsNZ(result)
	c.regs.SetFlagFromCond(regfile.Carry, r >= m)
	return nil
}

func (c *CPU) execBit(in insn.Insn) error {
	m, err := c.readOperand(in.Mode)
	if err != nil {
		return err
	}
	a := c.regs.A()
	c.regs.SetFlagFromCond(regfile.Zero, a&m == 0)
	c.regs.SetFlagFromCond(regfile.Negative, m&0x80 != 0)
	c.regs.SetFlagFromCond(regfile.Overflow, m&0x40 != 0)
	return nil
}

// branchCondition reports whether op's tested flag holds.
func (c *CPU) branchCondition(op insn.Mnemonic) bool {
	switch op {
	case insn.BCC:
		return !c.regs.FlagSet(regfile.Carry)
	case insn.BCS:
		return c.regs.FlagSet(regfile.Carry)
	case insn.BNE:
		return !c.regs.FlagSet(regfile.Zero)
	case insn.BEQ:
		return c.regs.FlagSet(regfile.Zero)
	case insn.BVC:
		return !c.regs.FlagSet(regfile.Overflow)
	case insn.BVS:
		return c.regs.FlagSet(regfile.Overflow)
	case insn.BPL:
		return !c.regs.FlagSet(regfile.Negative)
	case insn.BMI:
		return c.regs.FlagSet(regfile.Negative)
	}
	return false
}

func (c *CPU) execBranch(op insn.Mnemonic) error {
	operandAddr, err := c.effectiveAddress(insn.Relative)
	if err != nil {
		return err
	}
	if !c.branchCondition(op) {
		return nil
	}
	offset, err := c.read8(operandAddr)
	if err != nil {
		return err
	}
	c.regs.AdjustPCBy(int8(offset))
	return nil
}

func (c *CPU) execJump(in insn.Insn) error {
	addr, err := c.effectiveAddress(in.Mode)
	if err != nil {
		return err
	}
	c.regs.SetPC(addr)
	return nil
}

func (c *CPU) execJSR() error {
	addr, err := c.effectiveAddress(insn.Absolute)
	if err != nil {
		return err
	}
	// Return-address redesign: push PC-1 (the address of the last operand
	// byte), not plain PC, so RTS's pull-and-add-1 lands back on the
	// instruction after the call.
	if err := c.pushU16(c.regs.PC - 1); err != nil {
		return err
	}
	c.regs.SetPC(addr)
	return nil
}

func (c *CPU) execRTS() error {
	ret, err := c.pullU16()
	if err != nil {
		return err
	}
	c.regs.SetPC(ret + 1)
	return nil
}

func (c *CPU) execBRK() error {
	// The byte after the BRK opcode is a break mark, conventionally
	// skipped by software; the pushed return address points past it.
	c.regs.SetPC(c.regs.PC + 1)
	return c.dispatchInterrupt(IRQBRKVector, true)
}

func (c *CPU) execRTI() error {
	p, err := c.pullU8()
	if err != nil {
		return err
	}
	p |= regfile.AlwaysOne.Mask()
	p &^= regfile.Break.Mask()
	*c.regs.RegPtr(regfile.P) = p
	pc, err := c.pullU16()
	if err != nil {
		return err
	}
	c.regs.SetPC(pc)
	return nil
}
