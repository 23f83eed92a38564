package vault

import (
	"fmt"

	"github.com/solvault/solvault-go/runtime"
	"github.com/solvault/solvault-go/types"
	"github.com/solvault/solvault-go/util"
)

/*
processDeposit moves amount from the authority into its vault account and
records the new balance. The sender is a real signer, so the transfer
needs no derivation proof. A zero amount is a valid no-op transfer.
*/
func processDeposit(sys runtime.System, programID types.Address, accounts []*runtime.Account, amount uint64) error {
	authority, vaultAcc, err := extractAccounts(accounts)
	if err != nil {
		return err
	}
	if err := requireSigner(authority); err != nil {
		return fmt.Errorf("authority: %w", err)
	}
	if err := requireOwnedBy(vaultAcc, programID); err != nil {
		return fmt.Errorf("vault: %w", err)
	}

	rec, err := ReadVaultRecord(vaultAcc)
	if err != nil {
		return err
	}
	if !rec.Authority().Eq(authority.Address) {
		return fmt.Errorf("%w: vault belongs to %s", ErrAuthorityMismatch, rec.Authority())
	}

	if err := sys.Transfer(authority, vaultAcc, amount, nil); err != nil {
		return fmt.Errorf("depositing %d: %w", amount, err)
	}

	newBalance, ok := util.SafeAdd(rec.Balance(), amount)
	if !ok {
		return fmt.Errorf("%w: %d + %d", ErrBalanceOverflow, rec.Balance(), amount)
	}
	rec.setBalance(newBalance)
	return nil
}
