package asminfo

import "testing"

// "48 89 d8" is REX.W + "89 d8" = MOV RAX, RBX: writes AX family (RAX),
// reads BX family (RBX).
func TestDecodeMovRegToReg(t *testing.T) {
	info := Decode("48 89 d8")
	if info.Decoded != 1 {
		t.Fatalf("expected 1 decoded instruction, got %d", info.Decoded)
	}
	if !info.Writes["AX"] {
		t.Errorf("expected MOV to write AX family, writes=%v", info.Writes)
	}
	if !info.Reads["BX"] {
		t.Errorf("expected MOV to read BX family, reads=%v", info.Reads)
	}
	if info.Reads["AX"] {
		t.Errorf("plain MOV should not read its destination")
	}
}

// "48 01 d8" is REX.W + "01 d8" = ADD RAX, RBX: reads and writes AX,
// reads BX.
func TestDecodeAddIsReadWriteOnDest(t *testing.T) {
	info := Decode("48 01 d8")
	if !info.Writes["AX"] || !info.Reads["AX"] {
		t.Errorf("expected ADD to both read and write its destination, got %+v", info)
	}
	if !info.Reads["BX"] {
		t.Errorf("expected ADD to read its source, got %+v", info)
	}
}

func TestDecodeGarbageFallsBackToAllRegisters(t *testing.T) {
	info := Decode("not a hex stream")
	if !info.Writes["AX"] || !info.Reads["R15"] {
		t.Errorf("expected undecodable text to fall back to all-registers, got %+v", info)
	}
}

func TestDecodeEmptyFallsBackToAllRegisters(t *testing.T) {
	info := Decode("")
	if len(info.Writes) == 0 {
		t.Errorf("expected empty asm text to fall back to all-registers")
	}
}
