// Package trx_engine executes transaction micro-op programs against a state
// store. One program runs to completion, instruction by instruction, with no
// other transaction's operations interleaved — the atomicity contract that
// conflict detection makes safe to honor concurrently for an independent set.
package trx_engine

import (
	"fmt"

	"github.com/Taraxa-project/taraxa-parallel/state_db"
	"github.com/Taraxa-project/taraxa-parallel/trx_types"

	mapset "github.com/deckarep/golang-set"
)

// ExecutionResult records the final accumulator and the flattened key sets a
// program actually touched. The observed sets let callers cross-check the
// declared read/write sets the conflict detector relied on.
type ExecutionResult = struct {
	Id     trx_types.TxId
	Acc    trx_types.Word
	Reads  mapset.Set
	Writes mapset.Set
}

func ExecuteTransaction(tx *trx_types.Transaction, db state_db.StateDB) (*ExecutionResult, error) {
	acc, reads, writes, err := ExecuteProgram(tx.Program(), db)
	if err != nil {
		return nil, fmt.Errorf("tx %d: %v", tx.Id, err)
	}
	return &ExecutionResult{tx.Id, acc, reads, writes}, nil
}

// ExecuteProgram runs one program against a zero-initialized accumulator.
// All arithmetic is unsigned 64-bit with silent wraparound; overflow is
// defined behavior here, not an error.
func ExecuteProgram(program []trx_types.MicroOp, db state_db.StateDB) (
	acc trx_types.Word, reads, writes mapset.Set, err error) {
	reads, writes = mapset.NewThreadUnsafeSet(), mapset.NewThreadUnsafeSet()
	for position, op := range program {
		switch op.Op {
		case trx_types.SLOAD:
			flat := op.Key.Flatten()
			acc += db.GetState(flat)
			reads.Add(flat)
		case trx_types.SSTORE:
			flat := op.Key.Flatten()
			db.SetState(flat, acc)
			writes.Add(flat)
		case trx_types.ADD:
			acc += op.Imm
		case trx_types.NOOP:
		default:
			err = fmt.Errorf("corrupt program: opcode %d at position %d", op.Op, position)
			return
		}
	}
	return
}
