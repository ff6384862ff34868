package scheduler

import (
	"testing"

	"github.com/Taraxa-project/taraxa-parallel/block_gen"
	"github.com/Taraxa-project/taraxa-parallel/conflict_detector"
	"github.com/Taraxa-project/taraxa-parallel/trx_types"
	"github.com/Taraxa-project/taraxa-parallel/util/tests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(id trx_types.TxId, reads, writes []trx_types.Key) *trx_types.Transaction {
	return &trx_types.Transaction{Id: id, Reads: reads, Writes: writes}
}

func mustGraph(t *testing.T, batch []*trx_types.Transaction) *conflict_detector.ConflictGraph {
	graph, err := conflict_detector.BuildGraph(batch)
	require.NoError(t, err)
	return graph
}

func TestWriteReadConflictAdmitsLowerId(t *testing.T) {
	// tx0 writes (A,0); tx1 reads (A,0), writes (A,1): one edge, and the
	// ascending greedy order admits the lower id.
	graph := mustGraph(t, []*trx_types.Transaction{
		tx(0, nil, []trx_types.Key{tests.KeyAt(1, 0)}),
		tx(1, []trx_types.Key{tests.KeyAt(1, 0)}, []trx_types.Key{tests.KeyAt(1, 1)}),
	})
	require.True(t, graph.Adjacent(0, 1))
	schedule := ComputeMIS(graph)
	assert.Equal(t, []Author{0}, schedule.Concurrent)
	assert.Equal(t, []Author{1}, schedule.Sequential)
}

func TestReadReadOverlapAdmitsBoth(t *testing.T) {
	graph := mustGraph(t, []*trx_types.Transaction{
		tx(0, []trx_types.Key{tests.KeyAt(1, 0)}, nil),
		tx(1, []trx_types.Key{tests.KeyAt(1, 0)}, nil),
	})
	require.Equal(t, 0, graph.EdgeCount())
	schedule := ComputeMIS(graph)
	assert.Equal(t, []Author{0, 1}, schedule.Concurrent)
	assert.Empty(t, schedule.Sequential)
}

func TestGreedyIsMaximalNotMaximum(t *testing.T) {
	// star graph centered on tx0: greedy admits the center and defers all
	// leaves, although the leaves alone would be the larger set
	batch := []*trx_types.Transaction{
		tx(0, nil, tests.Keys(1, 2, 3)),
		tx(1, tests.Keys(1), nil),
		tx(2, tests.Keys(2), nil),
		tx(3, tests.Keys(3), nil),
	}
	graph := mustGraph(t, batch)
	schedule := ComputeMIS(graph)
	assert.Equal(t, []Author{0}, schedule.Concurrent)
	assert.Equal(t, []Author{1, 2, 3}, schedule.Sequential)
	assert.NoError(t, Verify(schedule, graph))
}

func TestEmptyGraph(t *testing.T) {
	graph := mustGraph(t, nil)
	schedule := ComputeMIS(graph)
	assert.Empty(t, schedule.Concurrent)
	assert.Empty(t, schedule.Sequential)
	assert.NoError(t, Verify(schedule, graph))
}

func TestDeterminism(t *testing.T) {
	block := block_gen.Generate(block_gen.Params{
		NTx: 50, KeySpace: 100, ConflictRatio: 0.3, ColdRatio: 0.1, Seed: 7,
	})
	graph := mustGraph(t, block.Transactions)
	first, second := ComputeMIS(graph), ComputeMIS(graph)
	assert.Equal(t, first, second)
}

func TestMaximalityOnGeneratedBatches(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		block := block_gen.Generate(block_gen.Params{
			NTx: 80, KeySpace: 60, ConflictRatio: 0.4, ColdRatio: 0.2, Seed: seed,
		})
		graph := mustGraph(t, block.Transactions)
		schedule := ComputeMIS(graph)
		assert.NoError(t, Verify(schedule, graph), "seed %d", seed)
	}
}

func TestVerifyRejectsDependentSet(t *testing.T) {
	graph := mustGraph(t, []*trx_types.Transaction{
		tx(0, nil, tests.Keys(1)),
		tx(1, tests.Keys(1), nil),
	})
	bogus := &ConcurrentSchedule{Concurrent: []Author{0, 1}, Sequential: []Author{}}
	assert.Error(t, Verify(bogus, graph))
}

func TestVerifyRejectsNonMaximalSet(t *testing.T) {
	graph := mustGraph(t, []*trx_types.Transaction{
		tx(0, nil, tests.Keys(1)),
		tx(1, tests.Keys(1), nil),
		tx(2, tests.Keys(9), nil),
	})
	// tx2 is isolated: leaving it out breaks maximality
	bogus := &ConcurrentSchedule{Concurrent: []Author{0}, Sequential: []Author{1, 2}}
	assert.Error(t, Verify(bogus, graph))
}
