// Package memory defines the byte-addressable store a cpu.CPU operates
// against and a reference implementation of it.
package memory

import "fmt"

// MaxMemorySize is the width of the 6502's address bus: 64 KiB.
const MaxMemorySize = 1 << 16

// Memory is the contract a host must satisfy for cpu.CPU to fetch, read and
// write against it. Read and Write can fail: a host backing fewer than
// 64 KiB, or exposing read-only regions, reports that with a typed error
// rather than silently masking the address.
type Memory interface {
	Read(addr uint16) (uint8, error)
	Write(addr uint16, value uint8) error
}

// BadAddressError reports an access outside the memory's addressable range.
type BadAddressError struct {
	Addr uint16
}

func (e *BadAddressError) Error() string {
	return fmt.Sprintf("memory: bad address 0x%.4X", e.Addr)
}

// ReadOnlyAddressError reports a write to an address backed by read-only
// storage (ROM).
type ReadOnlyAddressError struct {
	Addr uint16
}

func (e *ReadOnlyAddressError) Error() string {
	return fmt.Sprintf("memory: address 0x%.4X is read-only", e.Addr)
}

// FlatRAM is the simplest Memory: a full 64 KiB array, every byte writable,
// every address valid. Useful for tests and for hosts that don't need a
// ROM/RAM split.
type FlatRAM struct {
	bytes [MaxMemorySize]uint8
}

// NewFlatRAM returns a zeroed 64 KiB RAM.
func NewFlatRAM() *FlatRAM {
	return &FlatRAM{}
}

func (m *FlatRAM) Read(addr uint16) (uint8, error) {
	return m.bytes[addr], nil
}

func (m *FlatRAM) Write(addr uint16, value uint8) error {
	m.bytes[addr] = value
	return nil
}

// Load copies img into RAM starting at addr, for test and CLI-driver setup.
// It does not itself check for overflow past 0xFFFF; callers are expected to
// size images sensibly, matching how test fixtures in the corpus prepopulate
// flat memories directly.
func (m *FlatRAM) Load(addr uint16, img []uint8) {
	for i, b := range img {
		m.bytes[addr+uint16(i)] = b
	}
}

// BankedRAM is a Memory backed by a flat byte array of a configurable size,
// split into a writable low region and a read-only high region at romStart.
// Modeled on original_source's RomRam: reads beyond size are BadAddress,
// writes at or above romStart (but within size) are ReadOnlyAddress.
type BankedRAM struct {
	bytes    []uint8
	romStart uint16
}

// NewBankedRAM returns a BankedRAM of the given size (at most MaxMemorySize)
// whose addresses from romStart up to size-1 reject writes.
func NewBankedRAM(size int, romStart uint16) *BankedRAM {
	if size > MaxMemorySize {
		size = MaxMemorySize
	}
	return &BankedRAM{
		bytes:    make([]uint8, size),
		romStart: romStart,
	}
}

func (m *BankedRAM) Read(addr uint16) (uint8, error) {
	if int(addr) >= len(m.bytes) {
		return 0, &BadAddressError{Addr: addr}
	}
	return m.bytes[addr], nil
}

func (m *BankedRAM) Write(addr uint16, value uint8) error {
	if int(addr) >= len(m.bytes) {
		return &BadAddressError{Addr: addr}
	}
	if addr >= m.romStart {
		return &ReadOnlyAddressError{Addr: addr}
	}
	m.bytes[addr] = value
	return nil
}

// LoadROM copies img into the read-only region starting at addr, bypassing
// the write check; used to install program images and vectors before
// running. Returns ReadOnlyAddressError if addr itself falls below the ROM
// boundary (use LoadRAM for that), and BadAddressError if img would run past
// the end of memory.
func (m *BankedRAM) LoadROM(addr uint16, img []uint8) error {
	if addr < m.romStart {
		return &ReadOnlyAddressError{Addr: addr}
	}
	if int(addr)+len(img) > len(m.bytes) {
		return &BadAddressError{Addr: addr + uint16(len(img))}
	}
	copy(m.bytes[addr:], img)
	return nil
}

// LoadRAM copies img into the writable region starting at addr.
func (m *BankedRAM) LoadRAM(addr uint16, img []uint8) error {
	if int(addr)+len(img) > int(m.romStart) {
		return &ReadOnlyAddressError{Addr: addr + uint16(len(img))}
	}
	copy(m.bytes[addr:], img)
	return nil
}
