package vault

import (
	"encoding/binary"
	"fmt"

	"github.com/solvault/solvault-go/runtime"
	"github.com/solvault/solvault-go/types"
)

// VaultDiscriminator tags an account's data as a vault record,
// distinguishing it from any other data this program might be handed.
var VaultDiscriminator = [8]byte{0x56, 0x61, 0x75, 0x6C, 0x74, 0x21, 0x21, 0x21} // "Vault!!!"

/*
Vault account data layout:
  - [0..8)   discriminator (8 bytes)
  - [8..40)  authority (32 bytes)
  - [40..48) balance (8 bytes, u64 LE)
*/
const (
	VaultRecordLength = 48

	discriminatorOffset = 0
	authorityOffset     = 8
	balanceOffset       = 40
)

/*
VaultRecord is a non owning view over a vault account's data. The bytes
are not copied; accessors decode fields straight from the account's
storage and setBalance writes through to it.

ReadVaultRecord is the only validated constructor, handlers never build a
view any other way.
*/
type VaultRecord struct {
	data []byte
}

// ReadVaultRecord validates the account data as a vault record and
// returns a view over it.
func ReadVaultRecord(acc *runtime.Account) (VaultRecord, error) {
	if len(acc.Data) != VaultRecordLength {
		return VaultRecord{}, fmt.Errorf("%w: expected %d data bytes, got %d", ErrInvalidLayout, VaultRecordLength, len(acc.Data))
	}
	rec := VaultRecord{data: acc.Data}
	if rec.discriminator() != VaultDiscriminator {
		return VaultRecord{}, fmt.Errorf("%w: wrong discriminator", ErrInvalidLayout)
	}
	return rec, nil
}

// initVaultRecord writes a fresh record into a just allocated, zero
// filled account. The caller guarantees the allocation.
func initVaultRecord(acc *runtime.Account, authority types.Address) VaultRecord {
	rec := VaultRecord{data: acc.Data}
	copy(rec.data[discriminatorOffset:], VaultDiscriminator[:])
	copy(rec.data[authorityOffset:], authority.Bytes())
	rec.setBalance(0)
	return rec
}

func (r VaultRecord) discriminator() (d [8]byte) {
	copy(d[:], r.data[discriminatorOffset:])
	return d
}

// Authority returns the party allowed to deposit into and withdraw from
// this vault.
func (r VaultRecord) Authority() types.Address {
	var a types.Address
	copy(a[:], r.data[authorityOffset:])
	return a
}

// Balance returns the net value the vault tracks.
func (r VaultRecord) Balance() uint64 {
	return binary.LittleEndian.Uint64(r.data[balanceOffset:])
}

func (r VaultRecord) setBalance(v uint64) {
	binary.LittleEndian.PutUint64(r.data[balanceOffset:], v)
}
