package disasm

import (
	"strings"
	"testing"

	"github.com/kressler/mos6502/insn"
	"github.com/kressler/mos6502/memory"
)

func TestStepImmediate(t *testing.T) {
	m := memory.NewFlatRAM()
	m.Load(0x0200, []uint8{0xA9, 0x12})
	text, length, err := Step(0x0200, m)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if length != 2 {
		t.Errorf("length = %d, want 2", length)
	}
	if !strings.Contains(text, "LDA #$12") {
		t.Errorf("text = %q, want it to contain %q", text, "LDA #$12")
	}
}

func TestStepAbsoluteIndexed(t *testing.T) {
	m := memory.NewFlatRAM()
	m.Load(0x0200, []uint8{0xBD, 0x00, 0x12})
	text, length, err := Step(0x0200, m)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if length != 3 {
		t.Errorf("length = %d, want 3", length)
	}
	if !strings.Contains(text, "LDA $1200,X") {
		t.Errorf("text = %q, want it to contain %q", text, "LDA $1200,X")
	}
}

func TestStepJam(t *testing.T) {
	m := memory.NewFlatRAM()
	m.Load(0x0200, []uint8{0x02})
	text, length, err := Step(0x0200, m)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if length != 1 {
		t.Errorf("length = %d, want 1", length)
	}
	if !strings.Contains(text, "JAM") {
		t.Errorf("text = %q, want it to contain JAM", text)
	}
}

// Mnemonic agreement: the insn table's bare mnemonic (Insn.Name) appears in
// the disasm.Step text for every opcode, at a quiescent program counter
// where the operand bytes are all zero.
func TestMnemonicAgreesWithInsnTable(t *testing.T) {
	for op := 0; op < 256; op++ {
		opcode := uint8(op)
		m := memory.NewFlatRAM()
		m.Load(0x0200, []uint8{opcode, 0, 0})
		text, _, err := Step(0x0200, m)
		if err != nil {
			t.Fatalf("Step(0x%.2X): %v", opcode, err)
		}
		want := insn.Decode(opcode).Name()
		if !strings.Contains(text, want) {
			t.Errorf("opcode 0x%.2X: disasm text %q doesn't contain mnemonic %q", opcode, text, want)
		}
	}
}
