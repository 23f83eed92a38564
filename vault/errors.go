package vault

import "errors"

var (
	// ErrInvalidInstructionData is returned when the instruction payload
	// is empty, too short for its tag or carries an unknown tag.
	ErrInvalidInstructionData = errors.New("invalid instruction data")

	// ErrNotEnoughAccounts is returned when fewer accounts are supplied
	// than the instruction requires.
	ErrNotEnoughAccounts = errors.New("not enough accounts")

	// ErrMissingSignature is returned when a required party has not
	// signed the transaction.
	ErrMissingSignature = errors.New("missing required signature")

	// ErrIllegalOwner is returned when the vault account's storage is not
	// owned by this program.
	ErrIllegalOwner = errors.New("account is not owned by this program")

	// ErrInvalidLayout is returned when the vault account is not a valid
	// 48 byte vault record.
	ErrInvalidLayout = errors.New("invalid vault account layout")

	// ErrAuthorityMismatch is returned when the signer differs from the
	// authority stored in the vault record.
	ErrAuthorityMismatch = errors.New("vault authority mismatch")

	// ErrDerivationMismatch is returned when the supplied bump does not
	// reproduce the vault account's address.
	ErrDerivationMismatch = errors.New("derived vault address mismatch")

	// ErrBalanceOverflow is returned when a deposit would push the vault
	// balance past the uint64 range.
	ErrBalanceOverflow = errors.New("vault balance overflow")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the
	// vault balance.
	ErrInsufficientFunds = errors.New("insufficient vault balance")
)
