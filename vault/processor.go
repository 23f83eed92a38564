/*
Package vault implements a single asset custody program: each authority
owns one vault account, a 48 byte record at an address derived from the
authority's own, and is the only party able to deposit into or withdraw
from it. The vault account holds the value itself; the record tracks the
net balance moved through the program.
*/
package vault

import (
	"fmt"

	"github.com/solvault/solvault-go/runtime"
	"github.com/solvault/solvault-go/types"
)

// vaultSeed is the domain seed all vault addresses are derived under.
var vaultSeed = []byte("vault")

/*
Process is the program entry point: it decodes the instruction payload
and routes it to the matching handler. Accounts for every instruction,
in order:

 0. `[signer]`   authority (payer on initialize)
 1. `[writable]` vault account
 2. `[]`         system program

Any failed check aborts the whole invocation; the host guarantees none of
its writes survive.
*/
func Process(sys runtime.System, programID types.Address, accounts []*runtime.Account, data []byte) error {
	ins, err := ParseInstruction(data)
	if err != nil {
		return err
	}

	switch ins := ins.(type) {
	case Initialize:
		return processInitialize(sys, programID, accounts, ins.Bump)
	case Deposit:
		return processDeposit(sys, programID, accounts, ins.Amount)
	case Withdraw:
		return processWithdraw(sys, programID, accounts, ins.Amount, ins.Bump)
	default:
		return fmt.Errorf("%w: unhandled instruction %T", ErrInvalidInstructionData, ins)
	}
}

// extractAccounts unpacks the fixed account list shared by all three
// instructions.
func extractAccounts(accounts []*runtime.Account) (authority, vaultAcc *runtime.Account, err error) {
	if len(accounts) < 3 {
		return nil, nil, fmt.Errorf("%w: expected 3 accounts, got %d", ErrNotEnoughAccounts, len(accounts))
	}
	return accounts[0], accounts[1], nil
}

// vaultSeeds assembles the full derivation seeds of an authority's vault
// address, bump included.
func vaultSeeds(authority types.Address, bump byte) [][]byte {
	return [][]byte{vaultSeed, authority.Bytes(), {bump}}
}

// DeriveVaultAddress computes the vault address and bump for an
// authority, the way clients do before building an instruction.
func DeriveVaultAddress(programID, authority types.Address) (types.Address, byte, error) {
	return runtime.FindDerivedAddress(programID, vaultSeed, authority.Bytes())
}
