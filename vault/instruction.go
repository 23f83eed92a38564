package vault

import (
	"encoding/binary"
	"fmt"
)

const (
	InstructionTypeInitialize byte = 0
	InstructionTypeDeposit    byte = 1
	InstructionTypeWithdraw   byte = 2
)

type (
	// Instruction is one decoded vault operation. The concrete type is
	// one of Initialize, Deposit or Withdraw.
	Instruction interface {
		isInstruction()
	}

	// Initialize creates the signer's vault account.
	// Data layout: [0x00, bump].
	Initialize struct {
		Bump byte
	}

	// Deposit moves value from the authority into the vault.
	// Data layout: [0x01, amount u64 LE].
	Deposit struct {
		Amount uint64
	}

	// Withdraw moves value from the vault back to the authority.
	// Data layout: [0x02, amount u64 LE, bump].
	Withdraw struct {
		Amount uint64
		Bump   byte
	}
)

func (Initialize) isInstruction() {}
func (Deposit) isInstruction()    {}
func (Withdraw) isInstruction()   {}

/*
ParseInstruction decodes the raw instruction payload into one of the
three operations. The parse is purely syntactic: amounts are not checked
against any balance here, the handlers do that against the accounts they
are given.
*/
func ParseInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidInstructionData)
	}

	switch tag := data[0]; tag {
	case InstructionTypeInitialize:
		if len(data) < 2 {
			return nil, fmt.Errorf("%w: initialize needs 2 bytes, got %d", ErrInvalidInstructionData, len(data))
		}
		return Initialize{Bump: data[1]}, nil
	case InstructionTypeDeposit:
		if len(data) < 9 {
			return nil, fmt.Errorf("%w: deposit needs 9 bytes, got %d", ErrInvalidInstructionData, len(data))
		}
		return Deposit{Amount: binary.LittleEndian.Uint64(data[1:9])}, nil
	case InstructionTypeWithdraw:
		if len(data) < 10 {
			return nil, fmt.Errorf("%w: withdraw needs 10 bytes, got %d", ErrInvalidInstructionData, len(data))
		}
		return Withdraw{Amount: binary.LittleEndian.Uint64(data[1:9]), Bump: data[9]}, nil
	default:
		return nil, fmt.Errorf("%w: unknown instruction tag %d", ErrInvalidInstructionData, tag)
	}
}
