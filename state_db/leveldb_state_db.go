package state_db

import (
	"encoding/binary"

	"github.com/Taraxa-project/taraxa-parallel/trx_types"
	"github.com/Taraxa-project/taraxa-parallel/util"

	lru "github.com/hashicorp/golang-lru"
	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDBStateDB persists the key/value mapping across runs. Keys and values
// are stored as big-endian uint64. Reads go through an LRU cache; a missing
// key reads as zero, same as MapStateDB.
//
// Storage errors other than not-found are programming or environment faults,
// not conditions the interpreter can act on, so they panic.
type LevelDBStateDB struct {
	db    *leveldb.DB
	cache *lru.Cache
}

func NewLevelDBStateDB(file string, cacheSize int) (*LevelDBStateDB, error) {
	db, err := leveldb.OpenFile(file, nil)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New(util.Max(cacheSize, 1))
	if err != nil {
		db.Close()
		return nil, err
	}
	return &LevelDBStateDB{db: db, cache: cache}, nil
}

func (this *LevelDBStateDB) GetState(key trx_types.FlatKey) trx_types.Word {
	if cached, found := this.cache.Get(key); found {
		return cached.(trx_types.Word)
	}
	encoded, err := this.db.Get(encodeU64(key), nil)
	if err == leveldb.ErrNotFound {
		return 0
	}
	util.PanicIfNotNil(err)
	value := binary.BigEndian.Uint64(encoded)
	this.cache.Add(key, value)
	return value
}

func (this *LevelDBStateDB) SetState(key trx_types.FlatKey, value trx_types.Word) {
	util.PanicIfNotNil(this.db.Put(encodeU64(key), encodeU64(value), nil))
	this.cache.Add(key, value)
}

func (this *LevelDBStateDB) Close() error {
	return this.db.Close()
}

func encodeU64(value uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], value)
	return buf[:]
}
