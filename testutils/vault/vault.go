/*
Package vault provides test helpers for building and submitting vault
program transactions, the way a client SDK would.
*/
package vault

import (
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/solvault/solvault-go/ledger"
	"github.com/solvault/solvault-go/types"
	"github.com/solvault/solvault-go/vault"
)

// InitializeData builds the raw payload of an initialize instruction.
func InitializeData(bump byte) []byte {
	return []byte{vault.InstructionTypeInitialize, bump}
}

// DepositData builds the raw payload of a deposit instruction.
func DepositData(amount uint64) []byte {
	data := make([]byte, 9)
	data[0] = vault.InstructionTypeDeposit
	binary.LittleEndian.PutUint64(data[1:], amount)
	return data
}

// WithdrawData builds the raw payload of a withdraw instruction.
func WithdrawData(amount uint64, bump byte) []byte {
	data := make([]byte, 10)
	data[0] = vault.InstructionTypeWithdraw
	binary.LittleEndian.PutUint64(data[1:], amount)
	data[9] = bump
	return data
}

func InitializeInstruction(programID, payer, vaultAddr types.Address, bump byte) ledger.Instruction {
	return instruction(programID, payer, vaultAddr, InitializeData(bump))
}

func DepositInstruction(programID, owner, vaultAddr types.Address, amount uint64) ledger.Instruction {
	return instruction(programID, owner, vaultAddr, DepositData(amount))
}

func WithdrawInstruction(programID, owner, vaultAddr types.Address, amount uint64, bump byte) ledger.Instruction {
	return instruction(programID, owner, vaultAddr, WithdrawData(amount, bump))
}

// instruction assembles the account list shared by all three vault
// instructions: authority, vault account, system program.
func instruction(programID, authority, vaultAddr types.Address, data []byte) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: programID,
		Accounts: []ledger.AccountMeta{
			{Address: authority, Signer: true, Writable: true},
			{Address: vaultAddr, Writable: true},
			{Address: ledger.SystemProgramID},
		},
		Data: data,
	}
}

var nonce atomic.Uint64

// Submit wraps the instruction in a transaction signed by the authority
// and submits it.
func Submit(t *testing.T, l *ledger.Ledger, authority *ledger.Keypair, ins ledger.Instruction) error {
	t.Helper()
	msg := ledger.Message{
		Payer:        authority.Address(),
		Nonce:        nonce.Add(1),
		Instructions: []ledger.Instruction{ins},
	}
	tx, err := ledger.NewTransaction(msg, authority)
	if err != nil {
		t.Fatalf("building transaction: %v", err)
	}
	return l.SubmitTransaction(tx)
}

// NewFundedKeypair creates a keypair and airdrops it the given balance.
func NewFundedKeypair(t *testing.T, l *ledger.Ledger, balance uint64) *ledger.Keypair {
	t.Helper()
	kp, err := ledger.NewKeypair()
	if err != nil {
		t.Fatalf("generating keypair: %v", err)
	}
	if err := l.Airdrop(kp.Address(), balance); err != nil {
		t.Fatalf("funding keypair: %v", err)
	}
	return kp
}
