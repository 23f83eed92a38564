package ledger

import (
	"fmt"

	"github.com/solvault/solvault-go/runtime"
	"github.com/solvault/solvault-go/types"
	"github.com/solvault/solvault-go/util"
)

// systemCall implements runtime.System for one program invocation. It
// mutates the transaction's working copies only; the ledger commits them
// after every instruction has succeeded.
type systemCall struct {
	caller types.Address
}

var _ runtime.System = (*systemCall)(nil)

// authorized reports whether the account consented to value leaving it:
// either its key signed the transaction or the calling program presents
// seeds deriving its address.
func (s *systemCall) authorized(acc *runtime.Account, proof *runtime.Derivation) bool {
	if acc.Signer {
		return true
	}
	return proof != nil && runtime.VerifyDerivation(acc.Address, s.caller, proof.Seeds...)
}

func (s *systemCall) CreateAccount(target, funder *runtime.Account, size int, owner types.Address, proof *runtime.Derivation) error {
	if size < 0 {
		return fmt.Errorf("negative account size %d", size)
	}
	if !target.Writable {
		return fmt.Errorf("%w: %s", ErrNotWritable, target.Address)
	}
	if !funder.Writable {
		return fmt.Errorf("%w: %s", ErrNotWritable, funder.Address)
	}
	if !funder.Signer {
		return fmt.Errorf("%w: funder %s must sign", ErrNotAuthorized, funder.Address)
	}
	if !s.authorized(target, proof) {
		return fmt.Errorf("%w: %s", ErrNotAuthorized, target.Address)
	}
	if target.Balance != 0 || len(target.Data) != 0 || !target.Owner.Eq(SystemProgramID) {
		return fmt.Errorf("%w: %s", ErrAccountInUse, target.Address)
	}

	deposit := MinimumBalance(size)
	balance, ok := util.SafeSub(funder.Balance, deposit)
	if !ok {
		return fmt.Errorf("%w: funder %s has %d, account needs %d", ErrInsufficientBalance, funder.Address, funder.Balance, deposit)
	}
	funder.Balance = balance
	target.Balance = deposit
	target.Owner = owner
	target.Data = make([]byte, size)
	return nil
}

func (s *systemCall) Transfer(from, to *runtime.Account, amount uint64, proof *runtime.Derivation) error {
	if !from.Writable {
		return fmt.Errorf("%w: %s", ErrNotWritable, from.Address)
	}
	if !to.Writable {
		return fmt.Errorf("%w: %s", ErrNotWritable, to.Address)
	}
	if !s.authorized(from, proof) {
		return fmt.Errorf("%w: %s", ErrNotAuthorized, from.Address)
	}

	fromBalance, ok := util.SafeSub(from.Balance, amount)
	if !ok {
		return fmt.Errorf("%w: %s has %d, transfer of %d", ErrInsufficientBalance, from.Address, from.Balance, amount)
	}
	toBalance, ok := util.SafeAdd(to.Balance, amount)
	if !ok {
		return fmt.Errorf("transfer of %d overflows balance of %s", amount, to.Address)
	}
	from.Balance = fromBalance
	to.Balance = toBalance
	return nil
}
