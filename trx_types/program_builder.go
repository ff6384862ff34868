package trx_types

// BuildProgram derives a transaction's micro-op program from its declared
// read/write key sequences. The derivation is pure and idempotent: the same
// (txid, reads, writes) always yields the same instruction sequence.
//
// Each declared read loads the key and then folds the transaction's own id
// into the accumulator, so two transactions reading identical keys still
// produce distinct accumulator trajectories. Each declared write bumps the
// accumulator by the write's position, stores, and immediately re-loads the
// stored key as a confirming read.
func BuildProgram(txid TxId, reads, writes []Key) []MicroOp {
	program := make([]MicroOp, 0, 2*len(reads)+3*len(writes)+1)
	for _, key := range reads {
		program = append(program,
			MicroOp{Op: SLOAD, Key: key},
			MicroOp{Op: ADD, Imm: txid})
	}
	for i, key := range writes {
		program = append(program,
			MicroOp{Op: ADD, Imm: Word(i)},
			MicroOp{Op: SSTORE, Key: key},
			MicroOp{Op: SLOAD, Key: key})
	}
	return append(program, MicroOp{Op: NOOP})
}
