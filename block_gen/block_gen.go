// Package block_gen produces synthetic block fixtures for the scheduler: a
// seeded, reproducible population of transactions whose declared key
// accesses are skewed between a hot key range (driving conflicts) and the
// rest of the key space.
package block_gen

import (
	"encoding/binary"
	"math/rand"

	"github.com/Taraxa-project/taraxa-parallel/trx_types"
	"github.com/Taraxa-project/taraxa-parallel/util"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

type Params struct {
	NTx           int     `json:"nTx"`
	KeySpace      int     `json:"keySpace"`
	ConflictRatio float64 `json:"conflictRatio"`
	ColdRatio     float64 `json:"coldRatio"`
	Seed          uint64  `json:"seed"`
}

// Block is the fixture format: a generation id, the parameters that produced
// it, and the transactions. Programs are not part of the fixture — they are
// re-derived from the declared sets on load.
type Block struct {
	Id           string                   `json:"id"`
	Params       Params                   `json:"params"`
	Transactions []*trx_types.Transaction `json:"transactions"`
}

const addressPoolSize = 10
const maxKeysPerSet = 20
const gasPerAccess = 10

// Generate builds a block deterministically from params.Seed. Only the
// fixture id differs between two runs with identical params.
func Generate(params Params) *Block {
	util.Assert(params.NTx >= 0 && params.KeySpace > 0)
	rng := rand.New(rand.NewSource(int64(params.Seed)))
	addressPool := make([]common.Address, addressPoolSize)
	for i := range addressPool {
		rng.Read(addressPool[i][:])
	}
	hotSize := util.Max(int(params.ConflictRatio*float64(params.KeySpace)), 1)
	pickKeyIndex := func() int {
		if rng.Float64() < params.ColdRatio {
			return rng.Intn(params.KeySpace)
		}
		if rng.Float64() < params.ConflictRatio {
			return rng.Intn(hotSize)
		}
		if hotSize < params.KeySpace {
			return hotSize + rng.Intn(params.KeySpace-hotSize)
		}
		return rng.Intn(params.KeySpace)
	}
	pickKeys := func() []trx_types.Key {
		keys := make([]trx_types.Key, 1+rng.Intn(maxKeysPerSet))
		for i := range keys {
			keys[i] = keyFromIndex(pickKeyIndex(), addressPool)
		}
		return keys
	}
	transactions := make([]*trx_types.Transaction, params.NTx)
	for i := range transactions {
		reads, writes := pickKeys(), pickKeys()
		transactions[i] = &trx_types.Transaction{
			Id:      trx_types.TxId(i),
			Reads:   reads,
			Writes:  writes,
			GasHint: uint64(len(reads)+len(writes)) * gasPerAccess,
		}
	}
	return &Block{
		Id:           uuid.New().String(),
		Params:       params,
		Transactions: transactions,
	}
}

// keyFromIndex maps a key-space index to a concrete storage key: the slot is
// the keccak of the index, the address cycles through the pool. The mapping
// is injective over the key space, so distinct indexes never collide.
func keyFromIndex(index int, addressPool []common.Address) trx_types.Key {
	var encoded [8]byte
	binary.BigEndian.PutUint64(encoded[:], uint64(index))
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(encoded[:])
	return trx_types.Key{
		Address: addressPool[index%len(addressPool)],
		Slot:    common.BytesToHash(hasher.Sum(nil)),
	}
}
