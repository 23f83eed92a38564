/*
Package runtime defines the surface between the host ledger and the
programs it executes: account views, the system call interface and the
derived address scheme. Programs consume these as black box primitives,
the ledger package implements them.
*/
package runtime

import (
	"github.com/solvault/solvault-go/types"
)

type (
	/*
	   System is the call interface the host exposes to an executing
	   program. Both calls debit real value, so both demand an
	   authorization: a transaction signature on the paying account or a
	   Derivation proving the calling program's authority over a derived
	   address.
	*/
	System interface {
		// CreateAccount allocates a zero filled storage region of the
		// given size at the target address, assigns its ownership to
		// owner and funds it from funder to the host's minimum retained
		// balance. The target must not exist yet.
		CreateAccount(target, funder *Account, size int, owner types.Address, proof *Derivation) error

		// Transfer moves amount of native value from one account to
		// another. A nil proof means the sender must be a transaction
		// signer; a non nil proof authorizes sending from an address
		// derived by the calling program.
		Transfer(from, to *Account, amount uint64, proof *Derivation) error
	}

	/*
	   Derivation is the seed material that stands in for a signature of
	   an address that has no key: the host re-derives the address from
	   the seeds and the calling program's identity and accepts the call
	   if it matches. It is never persisted.
	*/
	Derivation struct {
		Seeds [][]byte
	}

	// ProgramFunc is the entry point a program registers with the host.
	ProgramFunc func(sys System, programID types.Address, accounts []*Account, data []byte) error
)
