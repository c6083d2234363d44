package cpu

import "fmt"

// OpcodeError reports an unrecognized opcode encountered during fetch: one
// of the unused SM83 opcodes (0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC,
// 0xED, 0xF4, 0xFC, 0xFD). It is surfaced rather than panicking so the host
// loop can choose how to react.
type OpcodeError struct {
	Opcode byte
	PC     uint16
	CBPage bool
}

func (e *OpcodeError) Error() string {
	if e.CBPage {
		return fmt.Sprintf("cpu: unknown CB-prefixed opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
	}
	return fmt.Sprintf("cpu: unknown opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
}
