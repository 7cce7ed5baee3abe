package insn

import "testing"

func TestDecodeEncodeRoundTrip(t *testing.T) {
	for op := 0; op < 256; op++ {
		opcode := uint8(op)
		decoded := Decode(opcode)
		if !decoded.IsValid() {
			continue
		}
		got, ok := Encode(decoded)
		if !ok {
			t.Errorf("Encode(Decode(0x%.2X)=%v) had no entry", opcode, decoded)
			continue
		}
		if got != opcode {
			t.Errorf("Encode(Decode(0x%.2X)) = 0x%.2X, want 0x%.2X", opcode, got, opcode)
		}
	}
}

func TestGroupThreeIsAllJam(t *testing.T) {
	for op := 0; op < 256; op++ {
		opcode := uint8(op)
		if opcode&0b11 != 0b11 {
			continue
		}
		if Decode(opcode).IsValid() {
			t.Errorf("opcode 0x%.2X is in group 3 but decoded as valid: %v", opcode, Decode(opcode))
		}
	}
}

func TestKnownOpcodes(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint8
		want   Insn
	}{
		{"BRK", 0x00, Insn{BRK, NoMode}},
		{"LDA immediate", 0xA9, Insn{LDA, Immediate}},
		{"LDA absolute,X", 0xBD, Insn{LDA, AbsoluteX}},
		{"STA zeropage", 0x85, Insn{STA, Zeropage}},
		{"JMP absolute", 0x4C, Insn{JMP, Absolute}},
		{"JMP indirect", 0x6C, Insn{JMP, Indirect}},
		{"JSR absolute", 0x20, Insn{JSR, Absolute}},
		{"RTS", 0x60, Insn{RTS, NoMode}},
		{"RTI", 0x40, Insn{RTI, NoMode}},
		{"NOP", 0xEA, Insn{NOP, NoMode}},
		{"ASL accumulator", 0x0A, Insn{ASLA, NoMode}},
		{"ASL zeropage", 0x06, Insn{ASL, Zeropage}},
		{"ADC X,ind", 0x61, Insn{ADC, Xindirect}},
		{"ADC ind,Y", 0x71, Insn{ADC, IndirectY}},
		{"BEQ", 0xF0, Insn{BEQ, Relative}},
		{"SEI", 0x78, Insn{SEI, NoMode}},
		{"invalid 0x02", 0x02, Insn{JAM, NoMode}},
		{"invalid 0xFF", 0xFF, Insn{JAM, NoMode}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Decode(test.opcode); got != test.want {
				t.Errorf("Decode(0x%.2X) = %v, want %v", test.opcode, got, test.want)
			}
		})
	}
}

func TestStringRendersMnemonicAndSuffix(t *testing.T) {
	if got, want := (Insn{LDA, AbsoluteX}).String(), "LDA abs,X"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := (Insn{JAM, NoMode}).String(), "JAM"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
