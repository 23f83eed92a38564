package runtime

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/solvault/solvault-go/types"
)

// derivationMarker is the domain separator appended when hashing seeds
// into a derived address, so derived addresses can never collide with
// any other use of the hash.
const derivationMarker = "SolvaultDerivedAddress"

var ErrNoDerivedAddress = errors.New("no derived address found for the given seeds")

/*
DeriveAddress computes the address derived from the given seeds under the
given program. The address is the SHA-256 of the seeds, the program
identity and a fixed domain separator.

A derived address must stay outside the signer keyspace (no key pair may
ever sign for it); a candidate whose last byte has the high bit set is
treated as a potential signer key and rejected. Callers that need a
usable address search for a bump seed with FindDerivedAddress.
*/
func DeriveAddress(programID types.Address, seeds ...[]byte) (types.Address, error) {
	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(programID.Bytes())
	h.Write([]byte(derivationMarker))

	addr, err := types.BytesToAddress(h.Sum(nil))
	if err != nil {
		return types.ZeroAddress, fmt.Errorf("deriving address: %w", err)
	}
	if addr[types.AddressLength-1]&0x80 != 0 {
		return types.ZeroAddress, fmt.Errorf("%w: candidate lies in the signer keyspace", ErrNoDerivedAddress)
	}
	return addr, nil
}

/*
FindDerivedAddress searches bump values 255 down to 0 for the first one
that, appended to the seeds as a single byte seed, yields a valid derived
address. Returns the address and the bump that produced it. Clients pass
the bump along with their request so programs can re-derive without
searching.
*/
func FindDerivedAddress(programID types.Address, seeds ...[]byte) (types.Address, byte, error) {
	for bump := 255; bump >= 0; bump-- {
		bumped := append(append([][]byte{}, seeds...), []byte{byte(bump)})
		addr, err := DeriveAddress(programID, bumped...)
		if err != nil {
			continue
		}
		return addr, byte(bump), nil
	}
	return types.ZeroAddress, 0, ErrNoDerivedAddress
}

// VerifyDerivation reports whether the seeds derive the given address
// under the given program.
func VerifyDerivation(addr types.Address, programID types.Address, seeds ...[]byte) bool {
	derived, err := DeriveAddress(programID, seeds...)
	return err == nil && derived.Eq(addr)
}
