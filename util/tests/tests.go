package tests

import (
	"encoding/binary"

	"github.com/Taraxa-project/taraxa-parallel/trx_types"
	"github.com/Taraxa-project/taraxa-parallel/util"

	"github.com/ethereum/go-ethereum/common"
)

// Addr derives a distinct non-zero address per index. Index zero is reserved
// so that no test fixture ever carries the zero (malformed) key.
func Addr(i uint64) (ret common.Address) {
	util.Assert(i > 0)
	binary.BigEndian.PutUint64(ret[:], i)
	return
}

func Slot(i uint64) (ret common.Hash) {
	binary.BigEndian.PutUint64(ret[:], i)
	return
}

// Key derives a distinct storage key per index: Key(i) == Key(j) iff i == j.
func Key(i uint64) trx_types.Key {
	return KeyAt(i, i)
}

func KeyAt(address, slot uint64) trx_types.Key {
	return trx_types.Key{Address: Addr(address), Slot: Slot(slot)}
}

func Keys(indexes ...uint64) []trx_types.Key {
	ret := make([]trx_types.Key, len(indexes))
	for i, index := range indexes {
		ret[i] = Key(index)
	}
	return ret
}
