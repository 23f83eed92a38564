package runtime

import (
	"github.com/solvault/solvault-go/types"
)

/*
Account is the view of one storage region handed to a program for the
duration of a single invocation. Data is a mutable alias of the region's
bytes, programs edit it in place and the host decides whether the edits
are committed.

Signer and Writable reflect the transaction's account metas after the
host has verified the corresponding signatures.
*/
type Account struct {
	Address  types.Address
	Owner    types.Address
	Balance  uint64
	Data     []byte
	Signer   bool
	Writable bool
}

// OwnedBy reports whether the account's storage is owned by the given program.
func (a *Account) OwnedBy(program types.Address) bool {
	return a.Owner.Eq(program)
}
