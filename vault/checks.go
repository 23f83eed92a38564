package vault

import (
	"fmt"

	"github.com/solvault/solvault-go/runtime"
	"github.com/solvault/solvault-go/types"
)

// requireSigner checks that the account's key signed the transaction.
func requireSigner(acc *runtime.Account) error {
	if !acc.Signer {
		return fmt.Errorf("%w: %s", ErrMissingSignature, acc.Address)
	}
	return nil
}

// requireOwnedBy checks that the account's storage is owned by the given
// program, which proves the data was written by that program and not an
// arbitrary party.
func requireOwnedBy(acc *runtime.Account, program types.Address) error {
	if !acc.OwnedBy(program) {
		return fmt.Errorf("%w: account %s is owned by %s", ErrIllegalOwner, acc.Address, acc.Owner)
	}
	return nil
}
