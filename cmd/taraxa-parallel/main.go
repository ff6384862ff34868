// taraxa-parallel generates synthetic block fixtures, computes conflict-free
// concurrent schedules for them, and drives round-based execution of the
// scheduled transactions. It is the external driver the core packages are
// written for.
package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/Taraxa-project/taraxa-parallel/block_gen"
	"github.com/Taraxa-project/taraxa-parallel/conflict_detector"
	"github.com/Taraxa-project/taraxa-parallel/scheduler"
	"github.com/Taraxa-project/taraxa-parallel/state_db"
	"github.com/Taraxa-project/taraxa-parallel/trx_engine"
	"github.com/Taraxa-project/taraxa-parallel/trx_types"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/urfave/cli.v1"
)

var (
	VerbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "log verbosity (0-5)",
		Value: 3,
	}
	InFileFlag = cli.StringFlag{
		Name:  "in",
		Usage: "block fixture to load",
		Value: "block.json",
	}
	OutFileFlag = cli.StringFlag{
		Name:  "out",
		Usage: "block fixture to write",
		Value: "block.json",
	}
	NTxFlag = cli.IntFlag{
		Name:  "n-tx",
		Usage: "number of transactions to generate",
		Value: 2,
	}
	KeySpaceFlag = cli.IntFlag{
		Name:  "key-space",
		Usage: "number of distinct storage keys",
		Value: 1000,
	}
	ConflictRatioFlag = cli.Float64Flag{
		Name:  "conflict-ratio",
		Usage: "fraction of the key space that is hot",
		Value: 0.2,
	}
	ColdRatioFlag = cli.Float64Flag{
		Name:  "cold-ratio",
		Usage: "probability of a uniform (cold) key pick",
		Value: 0.1,
	}
	SeedFlag = cli.Uint64Flag{
		Name:  "seed",
		Usage: "generator seed",
		Value: 42,
	}
	DBFileFlag = cli.StringFlag{
		Name:  "db",
		Usage: "leveldb directory for persistent state (in-memory if empty)",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "taraxa-parallel"
	app.Usage = "static conflict scheduling for parallel transaction execution"
	app.Flags = []cli.Flag{VerbosityFlag}
	app.Before = func(ctx *cli.Context) error {
		glogger := log.NewGlogHandler(log.StreamHandler(os.Stderr, log.TerminalFormat(false)))
		glogger.Verbosity(log.Lvl(ctx.GlobalInt(VerbosityFlag.Name)))
		log.Root().SetHandler(glogger)
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:   "generate",
			Usage:  "write a synthetic block fixture",
			Flags:  []cli.Flag{NTxFlag, KeySpaceFlag, ConflictRatioFlag, ColdRatioFlag, SeedFlag, OutFileFlag},
			Action: generate,
		},
		{
			Name:   "schedule",
			Usage:  "compute the concurrent schedule for a fixture",
			Flags:  []cli.Flag{InFileFlag},
			Action: schedule,
		},
		{
			Name:   "exec",
			Usage:  "execute a fixture in conflict-free rounds",
			Flags:  []cli.Flag{InFileFlag, DBFileFlag},
			Action: execute,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func generate(ctx *cli.Context) error {
	block := block_gen.Generate(block_gen.Params{
		NTx:           ctx.Int(NTxFlag.Name),
		KeySpace:      ctx.Int(KeySpaceFlag.Name),
		ConflictRatio: ctx.Float64(ConflictRatioFlag.Name),
		ColdRatio:     ctx.Float64(ColdRatioFlag.Name),
		Seed:          ctx.Uint64(SeedFlag.Name),
	})
	encoded, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return err
	}
	outFile := ctx.String(OutFileFlag.Name)
	if err := ioutil.WriteFile(outFile, encoded, 0644); err != nil {
		return err
	}
	log.Info("generated block fixture", "id", block.Id, "txs", len(block.Transactions), "file", outFile)
	return nil
}

func schedule(ctx *cli.Context) error {
	block, err := loadBlock(ctx.String(InFileFlag.Name))
	if err != nil {
		return err
	}
	graph, err := conflict_detector.BuildGraph(block.Transactions)
	if err != nil {
		return err
	}
	concurrentSchedule := scheduler.ComputeMIS(graph)
	log.Info("schedule computed",
		"txs", graph.VertexCount(), "conflicts", graph.EdgeCount(),
		"concurrent", len(concurrentSchedule.Concurrent), "deferred", len(concurrentSchedule.Sequential))
	log.Trace("conflict graph", "adjacency", spew.Sdump(graph.AdjacencyLists()))
	encoded, err := json.MarshalIndent(concurrentSchedule, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

// execute runs the round loop: schedule the batch, execute the independent
// set (serially here — a true parallel executor would be equally correct,
// the sets are disjoint), then re-batch the deferred remainder. Each round's
// independent set is non-empty for a non-empty batch, so the loop
// terminates. Excluded transactions are retried FIFO with no further
// prioritization.
func execute(ctx *cli.Context) error {
	block, err := loadBlock(ctx.String(InFileFlag.Name))
	if err != nil {
		return err
	}
	db, closeDB, err := openStateDB(ctx.String(DBFileFlag.Name))
	if err != nil {
		return err
	}
	defer closeDB()
	batch := block.Transactions
	byId := make(map[trx_types.TxId]*trx_types.Transaction, len(batch))
	for _, tx := range batch {
		byId[tx.Id] = tx
	}
	for round := 0; len(batch) > 0; round++ {
		graph, err := conflict_detector.BuildGraph(batch)
		if err != nil {
			return err
		}
		concurrentSchedule := scheduler.ComputeMIS(graph)
		for _, id := range concurrentSchedule.Concurrent {
			result, err := trx_engine.ExecuteTransaction(byId[id], db)
			if err != nil {
				return err
			}
			log.Debug("executed", "round", round, "tx", id, "acc", result.Acc,
				"reads", result.Reads.Cardinality(), "writes", result.Writes.Cardinality())
		}
		log.Info("round complete", "round", round,
			"executed", len(concurrentSchedule.Concurrent), "deferred", len(concurrentSchedule.Sequential))
		deferred := make([]*trx_types.Transaction, 0, len(concurrentSchedule.Sequential))
		for _, id := range concurrentSchedule.Sequential {
			deferred = append(deferred, byId[id])
		}
		batch = deferred
	}
	if mapDB, isMap := db.(*state_db.MapStateDB); isMap {
		log.Info("execution finished", "stateSize", mapDB.Len())
	} else {
		log.Info("execution finished")
	}
	return nil
}

func loadBlock(file string) (*block_gen.Block, error) {
	encoded, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}
	block := new(block_gen.Block)
	if err := json.Unmarshal(encoded, block); err != nil {
		return nil, err
	}
	log.Info("loaded block fixture", "id", block.Id, "txs", len(block.Transactions), "file", file)
	return block, nil
}

func openStateDB(file string) (db state_db.StateDB, closeDB func(), err error) {
	if file == "" {
		return state_db.NewMapStateDB(), func() {}, nil
	}
	levelDB, err := state_db.NewLevelDBStateDB(file, 1<<16)
	if err != nil {
		return nil, nil, err
	}
	return levelDB, func() { levelDB.Close() }, nil
}
