package vault

import (
	"fmt"

	"github.com/solvault/solvault-go/runtime"
	"github.com/solvault/solvault-go/types"
	"github.com/solvault/solvault-go/util"
)

/*
processWithdraw moves amount from the vault account back to its
authority. The vault address has no key, so the transfer is authorized by
re-presenting the derivation seeds; the host re-derives the address and
treats the match as the vault's signature.
*/
func processWithdraw(sys runtime.System, programID types.Address, accounts []*runtime.Account, amount uint64, bump byte) error {
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

	newBalance, ok := util.SafeSub(rec.Balance(), amount)
	if !ok {
		return fmt.Errorf("%w: balance %d, withdrawal %d", ErrInsufficientFunds, rec.Balance(), amount)
	}

	proof := &runtime.Derivation{Seeds: vaultSeeds(authority.Address, bump)}
	if err := sys.Transfer(vaultAcc, authority, amount, proof); err != nil {
		return fmt.Errorf("withdrawing %d: %w", amount, err)
	}

	rec.setBalance(newBalance)
	return nil
}
