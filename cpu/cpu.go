// Package cpu implements the MOS 6502 fetch/decode/execute state machine: a
// behavioral, non-cycle-accurate emulator driven one retired instruction (or
// one serviced event) at a time via Run.
package cpu

import (
	"sync/atomic"

	"github.com/kressler/mos6502/insn"
	"github.com/kressler/mos6502/memory"
	"github.com/kressler/mos6502/regfile"
)

// Fixed vector and stack-page locations, little-endian throughout.
const (
	NMIVector    uint16 = 0xFFFA
	ResetVector  uint16 = 0xFFFC
	IRQBRKVector uint16 = 0xFFFE

	StackBase uint16 = 0x0100
)

// StackWraparound controls what happens when the stack pointer would
// decrement past 0 (push) or increment past 0xFF (pull).
type StackWraparound int

const (
	// Disallow returns StackOverflowError/StackUnderflowError instead of
	// wrapping S.
	Disallow StackWraparound = iota
	// Allow lets S wrap modulo 256, matching raw hardware behavior.
	Allow
)

// ExitKind identifies what kind of unit of work a successful Run serviced.
type ExitKind int

const (
	Executed ExitKind = iota
	Interrupt
	NonMaskableInterrupt
)

func (k ExitKind) String() string {
	switch k {
	case Executed:
		return "Executed"
	case Interrupt:
		return "Interrupt"
	case NonMaskableInterrupt:
		return "NonMaskableInterrupt"
	default:
		return "Unknown"
	}
}

// RunExit is the successful result of a Run call.
type RunExit struct {
	Kind ExitKind
	// Insn is the decoded instruction that retired. Only meaningful when
	// Kind == Executed.
	Insn insn.Insn
}

// CPU owns the mutable state a 6502 core needs across Run calls: the
// register file, the three asynchronous event flags, a latched fault, and
// the stack policy. It is single-threaded cooperative: Run is not
// re-entrant. Only the event-flag setters are safe to call concurrently
// with a Run in progress.
type CPU struct {
	mem    memory.Memory
	regs   regfile.RegisterFile
	policy StackWraparound

	resetPending atomic.Bool
	nmiPending   atomic.Bool
	irqPending   atomic.Bool

	fault      error
	lastOpcode uint8
}

// New constructs a CPU over mem with a register file in its non-clean
// pre-reset state, matching regfile.New.
func New(mem memory.Memory, policy StackWraparound) *CPU {
	return WithRegisters(mem, regfile.New(), policy)
}

// WithRegisters constructs a CPU with a caller-supplied register snapshot,
// for tests that need to seed specific register state.
func WithRegisters(mem memory.Memory, regs regfile.RegisterFile, policy StackWraparound) *CPU {
	return &CPU{mem: mem, regs: regs, policy: policy}
}

// SetResetPending asserts the reset line. Safe for concurrent use.
func (c *CPU) SetResetPending() { c.resetPending.Store(true) }

// SetNmiPending asserts the non-maskable interrupt line. Safe for
// concurrent use.
func (c *CPU) SetNmiPending() { c.nmiPending.Store(true) }

// SetIrqPending asserts the maskable interrupt line. Safe for concurrent
// use.
func (c *CPU) SetIrqPending() { c.irqPending.Store(true) }

// Registers returns a pointer to the live register file, for inspection or
// direct mutation by tests and hosts seeding state between Run calls.
func (c *CPU) Registers() *regfile.RegisterFile { return &c.regs }

// read8 reads a single byte, wrapping any memory error as MemoryAccessError.
func (c *CPU) read8(addr uint16) (uint8, error) {
	v, err := c.mem.Read(addr)
	if err != nil {
		return 0, &MemoryAccessError{Err: err}
	}
	return v, nil
}

// write8 writes a single byte, wrapping any memory error as
// MemoryAccessError.
func (c *CPU) write8(addr uint16, v uint8) error {
	if err := c.mem.Write(addr, v); err != nil {
		return &MemoryAccessError{Err: err}
	}
	return nil
}

// read16 reads a little-endian 16-bit word. The high byte is always read
// from addr+1 with 16-bit wraparound, even when addr is 0xFFFF.
func (c *CPU) read16(addr uint16) (uint16, error) {
	lo, err := c.read8(addr)
	if err != nil {
		return 0, err
	}
	hi, err := c.read8(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// readVector reads a vector word, reporting a failed read as
// MemoryAccessError. Vector reads occur around instruction boundaries, not
// mid-instruction, so Run returns such a failure without latching it as a
// fault: the host can fix memory and retry.
func (c *CPU) readVector(addr uint16) (uint16, error) {
	lo, err := c.mem.Read(addr)
	if err != nil {
		return 0, &MemoryAccessError{Err: err}
	}
	hi, err := c.mem.Read(addr + 1)
	if err != nil {
		return 0, &MemoryAccessError{Err: err}
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// Run advances by exactly one retired instruction or services exactly one
// pending event, in priority order: reset, latched fault, NMI, IRQ, step.
// A pending reset does not end the call: once it is serviced, Run goes on
// through the remaining steps, so the same call also dispatches an NMI or
// IRQ or retires the instruction at the reset target.
func (c *CPU) Run() (RunExit, error) {
	if c.resetPending.Load() {
		pc, err := c.readVector(ResetVector)
		if err != nil {
			return RunExit{}, err
		}
		c.fault = nil
		c.regs.Reset()
		c.regs.SetPC(pc)
		c.resetPending.Store(false)
	}

	if c.fault != nil {
		return RunExit{}, c.fault
	}

	if c.nmiPending.Load() {
		if err := c.dispatchInterrupt(NMIVector, false); err != nil {
			return RunExit{}, err
		}
		c.nmiPending.Store(false)
		return RunExit{Kind: NonMaskableInterrupt}, nil
	}

	if !c.regs.FlagSet(regfile.InterruptDisable) && c.irqPending.Load() {
		if err := c.dispatchInterrupt(IRQBRKVector, false); err != nil {
			return RunExit{}, err
		}
		c.irqPending.Store(false)
		return RunExit{Kind: Interrupt}, nil
	}

	snapshot := c.regs
	in, err := c.step()
	if err != nil {
		c.fault = err
		c.regs = snapshot
		return RunExit{}, err
	}
	return RunExit{Kind: Executed, Insn: in}, nil
}

// dispatchInterrupt performs the shared NMI/IRQ/BRK push sequence: push PC
// high-then-low, push P with bit 5 forced on (fromBRK controls whether B is
// also forced on before the push, since BRK's pushed copy has B set while
// NMI/IRQ's does not), set I, then load PC from vector.
//
// NMI/IRQ and BRK set I at different points relative to the P push:
// NMI/IRQ set I before pushing P, so the pushed copy already has I set;
// BRK pushes P first and only sets I afterward, so the pushed copy keeps
// the pre-BRK I and a BRK/RTI round trip restores it.
func (c *CPU) dispatchInterrupt(vector uint16, fromBRK bool) error {
	if !fromBRK {
		c.regs.SetFlag(regfile.InterruptDisable)
	}
	if err := c.pushU16(c.regs.PC); err != nil {
		return err
	}
	p := c.regs.Reg(regfile.P)
	p |= regfile.AlwaysOne.Mask()
	if fromBRK {
		p |= regfile.Break.Mask()
	} else {
		p &^= regfile.Break.Mask()
	}
	if err := c.pushU8(p); err != nil {
		return err
	}
	if fromBRK {
		c.regs.SetFlag(regfile.InterruptDisable)
	}
	target, err := c.readVector(vector)
	if err != nil {
		return err
	}
	c.regs.SetPC(target)
	return nil
}
