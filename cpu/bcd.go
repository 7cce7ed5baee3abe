package cpu

import "github.com/kressler/mos6502/regfile"

// bcdToU8 converts a packed BCD byte (each nibble 0-9) to its binary value.
func bcdToU8(bcd uint8) uint8 {
	return (bcd>>4)*10 + (bcd & 0x0F)
}

// u8ToBcd converts a binary value in 0-99 back to packed BCD.
func u8ToBcd(v uint8) uint8 {
	return (v/10)<<4 | (v % 10)
}

// adc implements ADC in both binary and BCD mode.
func (c *CPU) adc(m uint8) {
	a := c.regs.A()
	carryIn := c.carryIn()

	sum := uint16(a) + uint16(m) + uint16(carryIn)
	result := uint8(sum)
	overflow := (a^result)&(m^result)&0x80 != 0

	if c.decimalMode() {
		bin := int(bcdToU8(a)) + int(bcdToU8(m)) + int(carryIn)
		carryOut := bin >= 100
		if carryOut {
			bin -= 100
		}
		final := u8ToBcd(uint8(bin))
		c.regs.SetFlagFromCond(regfile.Carry, carryOut)
		c.regs.SetFlagFromCond(regfile.Overflow, overflow)
		c.updateFlagsNZ(final)
		*c.regs.RegPtr(regfile.A) = final
		return
	}

	c.regs.SetFlagFromCond(regfile.Carry, sum > 0xFF)
	c.regs.SetFlagFromCond(regfile.Overflow, overflow)
	c.updateFlagsNZ(result)
	*c.regs.RegPtr(regfile.A) = result
}

// sbc implements SBC in both binary and BCD mode.
func (c *CPU) sbc(m uint8) {
	a := c.regs.A()
	carryIn := c.carryIn()
	borrowIn := 1 - carryIn

	diff := int(a) - int(m) - int(borrowIn)
	result := uint8(diff)
	invM := ^m
	overflow := (a^result)&(invM^result)&0x80 != 0
	carryOut := diff >= 0

	if c.decimalMode() {
		bin := int(bcdToU8(a)) - int(bcdToU8(m)) - int(borrowIn)
		bcdCarryOut := bin >= 0
		for bin < 0 {
			bin += 100
		}
		final := u8ToBcd(uint8(bin))
		c.regs.SetFlagFromCond(regfile.Carry, bcdCarryOut)
		c.regs.SetFlagFromCond(regfile.Overflow, overflow)
		c.updateFlagsNZ(final)
		*c.regs.RegPtr(regfile.A) = final
		return
	}

	c.regs.SetFlagFromCond(regfile.Carry, carryOut)
	c.regs.SetFlagFromCond(regfile.Overflow, overflow)
	c.updateFlagsNZ(result)
	*c.regs.RegPtr(regfile.A) = result
}

func (c *CPU) carryIn() uint8 {
	if c.regs.FlagSet(regfile.Carry) {
		return 1
	}
	return 0
}

func (c *CPU) decimalMode() bool {
	return c.regs.FlagSet(regfile.Decimal)
}
