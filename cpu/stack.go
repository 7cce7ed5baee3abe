package cpu

import "github.com/kressler/mos6502/regfile"

// pushU8 writes v at 0x0100+S, then decrements S. Under the Disallow policy,
// a push when S is already 0x00 returns StackOverflowError instead of
// wrapping S to 0xFF.
func (c *CPU) pushU8(v uint8) error {
	s := c.regs.SP()
	if s == 0x00 && c.policy == Disallow {
		return &StackOverflowError{}
	}
	if err := c.write8(StackBase+uint16(s), v); err != nil {
		return err
	}
	*c.regs.RegPtr(regfile.S) = s - 1
	return nil
}

// pullU8 increments S, then reads at 0x0100+S. Under the Disallow policy, a
// pull when S is already 0xFF returns StackUnderflowError instead of
// wrapping S to 0x00.
func (c *CPU) pullU8() (uint8, error) {
	s := c.regs.SP()
	if s == 0xFF && c.policy == Disallow {
		return 0, &StackUnderflowError{}
	}
	s++
	v, err := c.read8(StackBase + uint16(s))
	if err != nil {
		return 0, err
	}
	*c.regs.RegPtr(regfile.S) = s
	return v, nil
}

// pushU16 pushes a 16-bit value high byte first, then low byte, so the
// matching pullU16 reads low byte first.
func (c *CPU) pushU16(v uint16) error {
	if err := c.pushU8(uint8(v >> 8)); err != nil {
		return err
	}
	return c.pushU8(uint8(v))
}

// pullU16 pulls a 16-bit value low byte first, then high byte.
func (c *CPU) pullU16() (uint16, error) {
	lo, err := c.pullU8()
	if err != nil {
		return 0, err
	}
	hi, err := c.pullU8()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}
