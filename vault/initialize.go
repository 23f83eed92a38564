package vault

import (
	"fmt"

	"github.com/solvault/solvault-go/runtime"
	"github.com/solvault/solvault-go/types"
)

/*
processInitialize creates the payer's vault account at its derived
address and writes the initial record: discriminator, payer as authority,
balance zero. The account is funded from the payer to the host's minimum
retained balance and owned by this program.

The bump comes from the client (which searched for it off-chain); the
handler re-derives the address and refuses to create anything the seeds
do not prove.
*/
func processInitialize(sys runtime.System, programID types.Address, accounts []*runtime.Account, bump byte) error {
	payer, vaultAcc, err := extractAccounts(accounts)
	if err != nil {
		return err
	}
	if err := requireSigner(payer); err != nil {
		return fmt.Errorf("payer: %w", err)
	}

	seeds := vaultSeeds(payer.Address, bump)
	derived, err := runtime.DeriveAddress(programID, seeds...)
	if err != nil || !derived.Eq(vaultAcc.Address) {
		return fmt.Errorf("%w: seeds do not derive %s", ErrDerivationMismatch, vaultAcc.Address)
	}

	err = sys.CreateAccount(vaultAcc, payer, VaultRecordLength, programID, &runtime.Derivation{Seeds: seeds})
	if err != nil {
		return fmt.Errorf("creating vault account: %w", err)
	}

	initVaultRecord(vaultAcc, payer.Address)
	return nil
}
