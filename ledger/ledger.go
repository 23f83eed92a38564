/*
Package ledger is an in-process host ledger for developing and testing
programs without a network: accounts, ed25519 transaction verification,
native value transfers, program registration and all-or-nothing commit of
every transaction. It implements the runtime surface programs are written
against.
*/
package ledger

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/solvault/solvault-go/runtime"
	"github.com/solvault/solvault-go/types"
	"github.com/solvault/solvault-go/util"
)

// SystemProgramID is the built-in owner of plain value accounts. An
// address never seen before is a zero balance account owned by it.
var SystemProgramID = types.ZeroAddress

// Storage rent parameters: an account must retain the two year rent for
// its footprint to stay allocated.
const (
	rentPerByteYear        = 3480
	rentExemptYears        = 2
	accountStorageOverhead = 128
)

var (
	ErrUnknownProgram      = errors.New("no program registered at address")
	ErrBadSignature        = errors.New("transaction signature verification failed")
	ErrAccountInUse        = errors.New("account already in use")
	ErrNotAuthorized       = errors.New("account did not authorize the operation")
	ErrNotWritable         = errors.New("account is not writable")
	ErrInsufficientBalance = errors.New("insufficient funds")
)

type (
	// Ledger is a single in-memory chain state. All transactions against
	// it are serialized.
	Ledger struct {
		mu       sync.Mutex
		accounts map[types.Address]*AccountState
		programs map[types.Address]runtime.ProgramFunc
		log      zerolog.Logger
	}

	// AccountState is the persisted state of one account.
	AccountState struct {
		Owner   types.Address
		Balance uint64
		Data    []byte
	}

	Option func(*Ledger)
)

func WithLogger(log zerolog.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		accounts: map[types.Address]*AccountState{},
		programs: map[types.Address]runtime.ProgramFunc{},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RegisterProgram installs a program at the given address.
func (l *Ledger) RegisterProgram(id types.Address, fn runtime.ProgramFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.programs[id] = fn
}

// Airdrop mints amount into the given account.
func (l *Ledger) Airdrop(addr types.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc := l.accounts[addr]
	if acc == nil {
		acc = &AccountState{Owner: SystemProgramID}
		l.accounts[addr] = acc
	}
	balance, ok := util.SafeAdd(acc.Balance, amount)
	if !ok {
		return fmt.Errorf("airdrop of %d overflows balance of %s", amount, addr)
	}
	acc.Balance = balance
	return nil
}

// SetAccount overwrites the account's state directly, bypassing all
// program and authorization logic. Meant for seeding test fixtures.
func (l *Ledger) SetAccount(addr types.Address, acc AccountState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[addr] = &AccountState{Owner: acc.Owner, Balance: acc.Balance, Data: bytes.Clone(acc.Data)}
}

// GetAccount returns a copy of the account's state and whether the
// account exists.
func (l *Ledger) GetAccount(addr types.Address) (AccountState, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc := l.accounts[addr]
	if acc == nil {
		return AccountState{Owner: SystemProgramID}, false
	}
	return AccountState{Owner: acc.Owner, Balance: acc.Balance, Data: bytes.Clone(acc.Data)}, true
}

// Balance returns the native balance of the given address, zero if the
// account does not exist.
func (l *Ledger) Balance(addr types.Address) uint64 {
	acc, _ := l.GetAccount(addr)
	return acc.Balance
}

// MinimumBalance returns the smallest balance an account with the given
// data size must retain to stay allocated.
func MinimumBalance(size int) uint64 {
	return uint64(accountStorageOverhead+size) * rentPerByteYear * rentExemptYears
}

/*
SubmitTransaction verifies the transaction's signatures, executes its
instructions in order and commits every account mutation if and only if
all of them succeed. A failing instruction aborts the whole transaction
with its error and leaves the ledger untouched.
*/
func (l *Ledger) SubmitTransaction(tx *Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.execute(tx); err != nil {
		l.log.Debug().Err(err).Uint64("nonce", tx.Message.Nonce).Msg("transaction aborted")
		return err
	}
	l.log.Debug().Uint64("nonce", tx.Message.Nonce).Int("instructions", len(tx.Message.Instructions)).Msg("transaction committed")
	return nil
}

func (l *Ledger) execute(tx *Transaction) error {
	signers, err := verifySignatures(tx)
	if err != nil {
		return err
	}

	views := map[types.Address]*runtime.Account{}
	for _, ins := range tx.Message.Instructions {
		for _, meta := range ins.Accounts {
			if meta.Signer && !signers[meta.Address] {
				return fmt.Errorf("%w: no signature for %s", ErrBadSignature, meta.Address)
			}
			view := views[meta.Address]
			if view == nil {
				view = l.loadView(meta.Address)
				views[meta.Address] = view
			}
			view.Signer = view.Signer || meta.Signer
			view.Writable = view.Writable || meta.Writable
		}
	}

	for i, ins := range tx.Message.Instructions {
		prog, ok := l.programs[ins.ProgramID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownProgram, ins.ProgramID)
		}
		accounts := make([]*runtime.Account, len(ins.Accounts))
		for j, meta := range ins.Accounts {
			accounts[j] = views[meta.Address]
		}
		sys := &systemCall{caller: ins.ProgramID}
		if err := prog(sys, ins.ProgramID, accounts, ins.Data); err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
	}

	// Commit: all mutations or none. An account back at its zero state
	// is removed so it reads as absent again.
	for addr, view := range views {
		if view.Balance == 0 && len(view.Data) == 0 && view.Owner.Eq(SystemProgramID) {
			delete(l.accounts, addr)
			continue
		}
		l.accounts[addr] = &AccountState{Owner: view.Owner, Balance: view.Balance, Data: view.Data}
	}
	return nil
}

// loadView materializes a per-transaction working copy of an account.
func (l *Ledger) loadView(addr types.Address) *runtime.Account {
	acc := l.accounts[addr]
	if acc == nil {
		return &runtime.Account{Address: addr, Owner: SystemProgramID}
	}
	return &runtime.Account{
		Address: addr,
		Owner:   acc.Owner,
		Balance: acc.Balance,
		Data:    bytes.Clone(acc.Data),
	}
}

// verifySignatures checks every signature against the message bytes and
// returns the set of addresses that validly signed.
func verifySignatures(tx *Transaction) (map[types.Address]bool, error) {
	sigBytes, err := tx.Message.SigBytes()
	if err != nil {
		return nil, err
	}
	signers := map[types.Address]bool{}
	for _, sig := range tx.Signatures {
		if !ed25519.Verify(ed25519.PublicKey(sig.Key.Bytes()), sigBytes, sig.Sig) {
			return nil, fmt.Errorf("%w: %s", ErrBadSignature, sig.Key)
		}
		signers[sig.Key] = true
	}
	return signers, nil
}
