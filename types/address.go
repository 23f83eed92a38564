package types

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/solvault/solvault-go/cbor"
)

const AddressLength = 32

type (
	// Address is the 32 byte identifier of an account, a program or a
	// derived storage location.
	Address [AddressLength]byte

	// AddressBytes is the variable length form used in wire structs where
	// the field may be absent.
	AddressBytes []byte
)

var ZeroAddress Address

func BytesToAddress(b []byte) (Address, error) {
	if len(b) != AddressLength {
		return ZeroAddress, fmt.Errorf("address length must be %d bytes, got %d bytes", AddressLength, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) Eq(b Address) bool {
	return a == b
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) String() string {
	return fmt.Sprintf("%X", a[:])
}

// MarshalCBOR encodes the address as a 32 byte string instead of the
// array-of-integers encoding reflection would produce.
func (a Address) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(a[:])
}

func (a *Address) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("decoding address: %w", err)
	}
	addr, err := BytesToAddress(b)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

func (a Address) MarshalText() ([]byte, error) {
	dst := make([]byte, hex.EncodedLen(len(a)))
	hex.Encode(dst, a[:])
	return bytes.ToUpper(dst), nil
}

func (a *Address) UnmarshalText(src []byte) error {
	if len(src) != hex.EncodedLen(AddressLength) {
		return fmt.Errorf("encoded address length must be %d characters, got %d", hex.EncodedLen(AddressLength), len(src))
	}
	_, err := hex.Decode(a[:], bytes.ToLower(src))
	return err
}
