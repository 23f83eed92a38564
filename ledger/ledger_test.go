package ledger

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/solvault/solvault-go/runtime"
	"github.com/solvault/solvault-go/types"
)

func randomAddress(t *testing.T) types.Address {
	t.Helper()
	var addr types.Address
	_, err := rand.Read(addr[:])
	require.NoError(t, err)
	return addr
}

func newKeypair(t *testing.T) *Keypair {
	t.Helper()
	kp, err := NewKeypair()
	require.NoError(t, err)
	return kp
}

func newLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(WithLogger(zerolog.New(zerolog.NewTestWriter(t))))
}

var testNonce uint64

func submit(t *testing.T, l *Ledger, ins Instruction, signers ...*Keypair) error {
	t.Helper()
	testNonce++
	msg := Message{Payer: signers[0].Address(), Nonce: testNonce, Instructions: []Instruction{ins}}
	tx, err := NewTransaction(msg, signers...)
	require.NoError(t, err)
	return l.SubmitTransaction(tx)
}

// transferProgram moves a u64 LE amount from accounts[0] to accounts[1].
// A leading 0xFF byte asks for a derivation proof built from the data
// after the amount.
func transferProgram(sys runtime.System, programID types.Address, accounts []*runtime.Account, data []byte) error {
	var proof *runtime.Derivation
	if data[0] == 0xFF {
		var seeds [][]byte
		for _, b := range data[9:] {
			seeds = append(seeds, []byte{b})
		}
		proof = &runtime.Derivation{Seeds: seeds}
	}
	return sys.Transfer(accounts[0], accounts[1], binary.LittleEndian.Uint64(data[1:9]), proof)
}

func transferData(amount uint64, seeds ...byte) []byte {
	data := make([]byte, 9)
	if len(seeds) > 0 {
		data[0] = 0xFF
	}
	binary.LittleEndian.PutUint64(data[1:], amount)
	return append(data, seeds...)
}

func Test_AirdropAndGetAccount(t *testing.T) {
	l := newLedger(t)
	addr := randomAddress(t)

	require.Zero(t, l.Balance(addr))
	_, ok := l.GetAccount(addr)
	require.False(t, ok)

	require.NoError(t, l.Airdrop(addr, 5_000))
	require.NoError(t, l.Airdrop(addr, 1_000))
	require.EqualValues(t, 6_000, l.Balance(addr))

	st, ok := l.GetAccount(addr)
	require.True(t, ok)
	require.Equal(t, SystemProgramID, st.Owner)

	// the returned state is a copy
	l.SetAccount(addr, AccountState{Owner: SystemProgramID, Balance: 6_000, Data: []byte{1, 2, 3}})
	st, _ = l.GetAccount(addr)
	st.Data[0] = 0xAA
	st2, _ := l.GetAccount(addr)
	require.Equal(t, []byte{1, 2, 3}, st2.Data)
}

func Test_MinimumBalance(t *testing.T) {
	require.EqualValues(t, 1_224_960, MinimumBalance(48))
	require.Less(t, MinimumBalance(0), MinimumBalance(1))
	require.Less(t, MinimumBalance(48), MinimumBalance(49))
}

func Test_SignatureVerification(t *testing.T) {
	l := newLedger(t)
	programID := randomAddress(t)
	l.RegisterProgram(programID, transferProgram)

	sender := newKeypair(t)
	receiver := randomAddress(t)
	require.NoError(t, l.Airdrop(sender.Address(), 10_000))

	ins := Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			{Address: sender.Address(), Signer: true, Writable: true},
			{Address: receiver, Writable: true},
		},
		Data: transferData(1_000),
	}

	t.Run("tampered message", func(t *testing.T) {
		msg := Message{Payer: sender.Address(), Nonce: 1, Instructions: []Instruction{ins}}
		tx, err := NewTransaction(msg, sender)
		require.NoError(t, err)
		tx.Message.Nonce = 2

		require.ErrorIs(t, l.SubmitTransaction(tx), ErrBadSignature)
		require.Zero(t, l.Balance(receiver))
	})

	t.Run("signer meta without signature", func(t *testing.T) {
		msg := Message{Payer: sender.Address(), Nonce: 3, Instructions: []Instruction{ins}}
		tx := &Transaction{Message: msg} // no signatures at all

		require.ErrorIs(t, l.SubmitTransaction(tx), ErrBadSignature)
		require.Zero(t, l.Balance(receiver))
	})

	t.Run("valid signature", func(t *testing.T) {
		require.NoError(t, submit(t, l, ins, sender))
		require.EqualValues(t, 1_000, l.Balance(receiver))
		require.EqualValues(t, 9_000, l.Balance(sender.Address()))
	})
}

func Test_UnknownProgram(t *testing.T) {
	l := newLedger(t)
	sender := newKeypair(t)

	ins := Instruction{ProgramID: randomAddress(t), Accounts: []AccountMeta{{Address: sender.Address(), Signer: true}}}
	require.ErrorIs(t, submit(t, l, ins, sender), ErrUnknownProgram)
}

func Test_Transfer(t *testing.T) {
	l := newLedger(t)
	programID := randomAddress(t)
	l.RegisterProgram(programID, transferProgram)

	sender := newKeypair(t)
	receiver := randomAddress(t)
	require.NoError(t, l.Airdrop(sender.Address(), 10_000))

	metas := func(signer, writable bool) []AccountMeta {
		return []AccountMeta{
			{Address: sender.Address(), Signer: signer, Writable: true},
			{Address: receiver, Writable: writable},
		}
	}

	t.Run("sender did not sign", func(t *testing.T) {
		ins := Instruction{ProgramID: programID, Accounts: metas(false, true), Data: transferData(1_000)}
		err := submit(t, l, ins, sender)
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("receiver not writable", func(t *testing.T) {
		ins := Instruction{ProgramID: programID, Accounts: metas(true, false), Data: transferData(1_000)}
		err := submit(t, l, ins, sender)
		require.ErrorIs(t, err, ErrNotWritable)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		ins := Instruction{ProgramID: programID, Accounts: metas(true, true), Data: transferData(10_001)}
		err := submit(t, l, ins, sender)
		require.ErrorIs(t, err, ErrInsufficientBalance)
		require.EqualValues(t, 10_000, l.Balance(sender.Address()))
	})

	t.Run("ok", func(t *testing.T) {
		ins := Instruction{ProgramID: programID, Accounts: metas(true, true), Data: transferData(2_500)}
		require.NoError(t, submit(t, l, ins, sender))
		require.EqualValues(t, 7_500, l.Balance(sender.Address()))
		require.EqualValues(t, 2_500, l.Balance(receiver))
	})
}

func Test_AllOrNothingCommit(t *testing.T) {
	l := newLedger(t)
	transferID := randomAddress(t)
	l.RegisterProgram(transferID, transferProgram)

	failID := randomAddress(t)
	errBoom := errors.New("boom")
	l.RegisterProgram(failID, func(sys runtime.System, programID types.Address, accounts []*runtime.Account, data []byte) error {
		// mutate before failing; none of it may survive
		if err := sys.Transfer(accounts[0], accounts[1], 100, nil); err != nil {
			return err
		}
		accounts[1].Data = []byte{0xEE}
		return errBoom
	})

	sender := newKeypair(t)
	receiver := randomAddress(t)
	require.NoError(t, l.Airdrop(sender.Address(), 10_000))

	metas := []AccountMeta{
		{Address: sender.Address(), Signer: true, Writable: true},
		{Address: receiver, Writable: true},
	}

	t.Run("failing program rolls back its own writes", func(t *testing.T) {
		ins := Instruction{ProgramID: failID, Accounts: metas}
		err := submit(t, l, ins, sender)
		require.ErrorIs(t, err, errBoom)
		require.EqualValues(t, 10_000, l.Balance(sender.Address()))
		require.Zero(t, l.Balance(receiver))
	})

	t.Run("later instruction failure discards earlier instruction", func(t *testing.T) {
		testNonce++
		msg := Message{
			Payer: sender.Address(),
			Nonce: testNonce,
			Instructions: []Instruction{
				{ProgramID: transferID, Accounts: metas, Data: transferData(1_000)},
				{ProgramID: failID, Accounts: metas},
			},
		}
		tx, err := NewTransaction(msg, sender)
		require.NoError(t, err)

		err = l.SubmitTransaction(tx)
		require.ErrorIs(t, err, errBoom)
		require.EqualValues(t, 10_000, l.Balance(sender.Address()))
		require.Zero(t, l.Balance(receiver))

		_, ok := l.GetAccount(receiver)
		require.False(t, ok)
	})
}

func Test_CreateAccount(t *testing.T) {
	l := newLedger(t)
	programID := randomAddress(t)

	// createProgram allocates a 16 byte account at the derived address
	// using data as the seed, funded by accounts[0].
	l.RegisterProgram(programID, func(sys runtime.System, id types.Address, accounts []*runtime.Account, data []byte) error {
		return sys.CreateAccount(accounts[1], accounts[0], 16, id, &runtime.Derivation{Seeds: [][]byte{data}})
	})

	funder := newKeypair(t)
	require.NoError(t, l.Airdrop(funder.Address(), 100_000_000))

	seed := []byte("stash")
	derived, bump, err := runtime.FindDerivedAddress(programID, seed)
	require.NoError(t, err)
	fullSeed := append(append([]byte{}, seed...), bump)

	metas := []AccountMeta{
		{Address: funder.Address(), Signer: true, Writable: true},
		{Address: derived, Writable: true},
	}

	t.Run("wrong proof", func(t *testing.T) {
		ins := Instruction{ProgramID: programID, Accounts: metas, Data: []byte("nope")}
		err := submit(t, l, ins, funder)
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("ok", func(t *testing.T) {
		ins := Instruction{ProgramID: programID, Accounts: metas, Data: fullSeed}
		require.NoError(t, submit(t, l, ins, funder))

		st, ok := l.GetAccount(derived)
		require.True(t, ok)
		require.Equal(t, programID, st.Owner)
		require.Equal(t, MinimumBalance(16), st.Balance)
		require.Equal(t, make([]byte, 16), st.Data)
		require.EqualValues(t, 100_000_000-MinimumBalance(16), l.Balance(funder.Address()))
	})

	t.Run("already in use", func(t *testing.T) {
		ins := Instruction{ProgramID: programID, Accounts: metas, Data: fullSeed}
		err := submit(t, l, ins, funder)
		require.ErrorIs(t, err, ErrAccountInUse)
	})
}

func Test_DerivedTransfer(t *testing.T) {
	l := newLedger(t)
	programID := randomAddress(t)
	l.RegisterProgram(programID, transferProgram)

	seed := byte(7)
	derived, bump, err := runtime.FindDerivedAddress(programID, []byte{seed})
	require.NoError(t, err)
	l.SetAccount(derived, AccountState{Owner: SystemProgramID, Balance: 50_000})

	payer := newKeypair(t)
	require.NoError(t, l.Airdrop(payer.Address(), 1_000))

	metas := []AccountMeta{
		{Address: derived, Writable: true},
		{Address: payer.Address(), Signer: true, Writable: true},
	}

	t.Run("no proof", func(t *testing.T) {
		ins := Instruction{ProgramID: programID, Accounts: metas, Data: transferData(20_000)}
		err := submit(t, l, ins, payer)
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("derivation proof authorizes the transfer", func(t *testing.T) {
		ins := Instruction{ProgramID: programID, Accounts: metas, Data: transferData(20_000, seed, bump)}
		require.NoError(t, submit(t, l, ins, payer))
		require.EqualValues(t, 30_000, l.Balance(derived))
		require.EqualValues(t, 21_000, l.Balance(payer.Address()))
	})
}
