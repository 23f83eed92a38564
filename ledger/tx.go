package ledger

import (
	"fmt"

	"github.com/solvault/solvault-go/cbor"
	"github.com/solvault/solvault-go/types"
)

type (
	// AccountMeta names one account an instruction touches and the
	// privileges the transaction requests for it.
	AccountMeta struct {
		_        struct{} `cbor:",toarray"`
		Address  types.Address
		Signer   bool
		Writable bool
	}

	// Instruction is one program invocation inside a transaction.
	Instruction struct {
		_         struct{} `cbor:",toarray"`
		ProgramID types.Address
		Accounts  []AccountMeta
		Data      []byte
	}

	// Message is the signed portion of a transaction.
	Message struct {
		_            struct{} `cbor:",toarray"`
		Payer        types.Address
		Nonce        uint64
		Instructions []Instruction
	}

	Signature struct {
		_   struct{} `cbor:",toarray"`
		Key types.Address
		Sig []byte
	}

	Transaction struct {
		_          struct{} `cbor:",toarray"`
		Message    Message
		Signatures []Signature
	}
)

// SigBytes returns the deterministic encoding of the message that
// signatures are computed over.
func (m Message) SigBytes() ([]byte, error) {
	buf, err := cbor.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling message sig bytes: %w", err)
	}
	return buf, nil
}

// NewTransaction signs the message with every given keypair.
func NewTransaction(msg Message, signers ...*Keypair) (*Transaction, error) {
	sigBytes, err := msg.SigBytes()
	if err != nil {
		return nil, err
	}
	tx := &Transaction{Message: msg}
	for _, kp := range signers {
		tx.Signatures = append(tx.Signatures, Signature{Key: kp.Address(), Sig: kp.Sign(sigBytes)})
	}
	return tx, nil
}
