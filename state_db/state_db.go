// Package state_db provides the storage backends the micro-op interpreter
// runs against: a mapping from flattened storage keys to 64-bit words, with
// unset keys reading as zero. The stores have no conflict or transaction
// awareness; callers are responsible for sequencing access.
package state_db

import (
	"github.com/Taraxa-project/taraxa-parallel/trx_types"
)

type StateDB interface {
	// GetState returns the word stored under key, or zero if the key was
	// never written (a cold read).
	GetState(key trx_types.FlatKey) trx_types.Word
	SetState(key trx_types.FlatKey, value trx_types.Word)
}

type MapStateDB struct {
	state map[trx_types.FlatKey]trx_types.Word
}

func NewMapStateDB() *MapStateDB {
	return &MapStateDB{state: make(map[trx_types.FlatKey]trx_types.Word)}
}

func (this *MapStateDB) GetState(key trx_types.FlatKey) trx_types.Word {
	return this.state[key]
}

func (this *MapStateDB) SetState(key trx_types.FlatKey, value trx_types.Word) {
	this.state[key] = value
}

func (this *MapStateDB) Len() int {
	return len(this.state)
}
