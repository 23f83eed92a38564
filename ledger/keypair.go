package ledger

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/solvault/solvault-go/types"
)

// Keypair is an ed25519 signing key whose public key is the account
// address, the way client SDKs model wallets.
type Keypair struct {
	priv ed25519.PrivateKey
	addr types.Address
}

func NewKeypair() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating keypair: %w", err)
	}
	addr, err := types.BytesToAddress(pub)
	if err != nil {
		return nil, err
	}
	return &Keypair{priv: priv, addr: addr}, nil
}

func (k *Keypair) Address() types.Address {
	return k.addr
}

func (k *Keypair) Sign(msg []byte) []byte {
	return ed25519.Sign(k.priv, msg)
}
