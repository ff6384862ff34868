package state_db

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/Taraxa-project/taraxa-parallel/util/tests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapStateDB(t *testing.T) {
	db := NewMapStateDB()
	key := tests.Key(1).Flatten()
	assert.Equal(t, uint64(0), db.GetState(key), "cold read")
	db.SetState(key, 42)
	assert.Equal(t, uint64(42), db.GetState(key))
	db.SetState(key, 7)
	assert.Equal(t, uint64(7), db.GetState(key))
	assert.Equal(t, 1, db.Len())
}

func TestLevelDBStateDB(t *testing.T) {
	dir, err := ioutil.TempDir("", "state_db_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	db, err := NewLevelDBStateDB(dir, 16)
	require.NoError(t, err)
	key := tests.Key(1).Flatten()
	assert.Equal(t, uint64(0), db.GetState(key), "cold read")
	db.SetState(key, 42)
	assert.Equal(t, uint64(42), db.GetState(key))
	require.NoError(t, db.Close())

	// values survive reopen, including reads that bypass a cold cache
	db, err = NewLevelDBStateDB(dir, 16)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, uint64(42), db.GetState(key))
	assert.Equal(t, uint64(0), db.GetState(tests.Key(2).Flatten()))
}
