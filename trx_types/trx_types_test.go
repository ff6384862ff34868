package trx_types_test

import (
	"encoding/json"
	"testing"

	"github.com/Taraxa-project/taraxa-parallel/trx_types"
	"github.com/Taraxa-project/taraxa-parallel/util/tests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyEqualityIsStructural(t *testing.T) {
	a := tests.KeyAt(1, 2)
	b := tests.KeyAt(1, 2)
	assert.Equal(t, a, b)
	assert.Equal(t, a.Flatten(), b.Flatten())
	assert.NotEqual(t, a.Flatten(), tests.KeyAt(1, 3).Flatten())
	assert.NotEqual(t, a.Flatten(), tests.KeyAt(2, 2).Flatten())
}

func TestKeyDecodeRejectsBadLengths(t *testing.T) {
	var key trx_types.Key
	// 19-byte address
	err := json.Unmarshal([]byte(`{
		"address": "0x00000000000000000000000000000000000001",
		"slot": "0x0000000000000000000000000000000000000000000000000000000000000001"
	}`), &key)
	assert.Error(t, err)
	// 31-byte slot
	err = json.Unmarshal([]byte(`{
		"address": "0x0000000000000000000000000000000000000001",
		"slot": "0x00000000000000000000000000000000000000000000000000000000000001"
	}`), &key)
	assert.Error(t, err)
}

func TestProgramDerivation(t *testing.T) {
	reads, writes := tests.Keys(1, 2), tests.Keys(3)
	program := trx_types.BuildProgram(5, reads, writes)
	expected := []trx_types.MicroOp{
		{Op: trx_types.SLOAD, Key: reads[0]},
		{Op: trx_types.ADD, Imm: 5},
		{Op: trx_types.SLOAD, Key: reads[1]},
		{Op: trx_types.ADD, Imm: 5},
		{Op: trx_types.ADD, Imm: 0},
		{Op: trx_types.SSTORE, Key: writes[0]},
		{Op: trx_types.SLOAD, Key: writes[0]},
		{Op: trx_types.NOOP},
	}
	assert.Equal(t, expected, program)
	assert.Equal(t, program, trx_types.BuildProgram(5, reads, writes), "derivation must be idempotent")
}

func TestProgramCachedOnTransaction(t *testing.T) {
	tx := &trx_types.Transaction{Id: 1, Reads: tests.Keys(1), Writes: tests.Keys(2)}
	first := tx.Program()
	second := tx.Program()
	assert.Equal(t, first, second)
	assert.Equal(t, trx_types.BuildProgram(tx.Id, tx.Reads, tx.Writes), first)
}

func TestTransactionJSONOmitsProgram(t *testing.T) {
	tx := &trx_types.Transaction{Id: 2, Reads: tests.Keys(1), Writes: tests.Keys(2), GasHint: 20}
	tx.Program() // populate the cache; it must not leak into the encoding
	encoded, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), "SLOAD")
	decoded := new(trx_types.Transaction)
	require.NoError(t, json.Unmarshal(encoded, decoded))
	assert.Equal(t, tx.Id, decoded.Id)
	assert.Equal(t, tx.Reads, decoded.Reads)
	assert.Equal(t, tx.Writes, decoded.Writes)
	assert.Equal(t, tx.Program(), decoded.Program(), "programs re-derive identically after a round trip")
}

func TestMicroOpJSON(t *testing.T) {
	ops := []trx_types.MicroOp{
		{Op: trx_types.SLOAD, Key: tests.Key(1)},
		{Op: trx_types.SSTORE, Key: tests.Key(2)},
		{Op: trx_types.ADD, Imm: 42},
		{Op: trx_types.NOOP},
	}
	encoded, err := json.Marshal(ops)
	require.NoError(t, err)
	var decoded []trx_types.MicroOp
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, ops, decoded)

	var op trx_types.MicroOp
	assert.Error(t, json.Unmarshal([]byte(`{"op":"SSTORE"}`), &op), "store without a key")
	assert.Error(t, json.Unmarshal([]byte(`{"op":"KECCAK"}`), &op), "unknown opcode")
}

func TestRWSetCollapsesDuplicates(t *testing.T) {
	tx := &trx_types.Transaction{Id: 0, Reads: tests.Keys(1, 1, 2), Writes: tests.Keys(2, 2)}
	rwSet := tx.NewRWSet()
	assert.Equal(t, 2, rwSet.Reads.Cardinality())
	assert.Equal(t, 1, rwSet.Writes.Cardinality())
	assert.Len(t, tx.Program(), 2*3+3*2+1, "the program keeps duplicate accesses")
}
