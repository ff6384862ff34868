// Package conflict_detector decides which transaction pairs of a batch are
// unsafe to execute in the same round. Conflicts are computed from the
// transactions' declared read/write key sets only — never from the derived
// programs — so detection stays independent of execution-model internals.
package conflict_detector

import (
	"github.com/Taraxa-project/taraxa-parallel/trx_types"
)

// GraphBuilder accumulates logged key operations into a ConflictGraph.
// Operations are indexed per key and per operation type; an incoming
// operation conflicts with every previously logged operation on the same key
// whose type is in its conflict relation (GET-SET, SET-SET — never GET-GET).
// Cost is proportional to the operations logged plus the edges produced,
// with no pairwise comparison of transactions.
type GraphBuilder struct {
	operationIndex OperationIndex
	graph          *ConflictGraph
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		operationIndex: make(OperationIndex),
		graph:          newConflictGraph(),
	}
}

// AddAuthor registers a vertex. Every author must be registered before its
// operations are processed; a duplicate id is a validation error.
func (this *GraphBuilder) AddAuthor(author Author) error {
	if !this.graph.addVertex(author) {
		return &ValidationError{author, "duplicate transaction id in batch"}
	}
	return nil
}

func (this *GraphBuilder) Process(op *Operation) {
	authorsByOp := this.operationIndex[op.Key]
	if authorsByOp == nil {
		authorsByOp = new(AuthorsByOperation)
		this.operationIndex[op.Key] = authorsByOp
	}
	for _, conflictingType := range conflictRelations[op.Type] {
		authors := authorsByOp[conflictingType]
		if authors == nil {
			continue
		}
		authors.Each(func(_ int, value interface{}) {
			if other := value.(Author); other != op.Author {
				this.graph.addEdge(op.Author, other)
			}
		})
	}
	if authors := authorsByOp[op.Type]; authors != nil {
		authors.Add(op.Author)
	} else {
		authorsByOp[op.Type] = newAuthors(op.Author)
	}
}

// NewLogger returns a logger that feeds one author's operations into the
// builder, skipping repeats of a key it has already logged for the same
// operation type. The returned logger is not thread safe.
func (this *GraphBuilder) NewLogger(author Author) OperationLogger {
	var cache [OperationType_count]Keys
	return func(opType OperationType, key Key) {
		cachedKeys := cache[opType]
		if cachedKeys == nil {
			cachedKeys = make(Keys)
			cache[opType] = cachedKeys
		} else if cachedKeys[key] {
			return
		}
		this.Process(&Operation{author, opType, key})
		cachedKeys[key] = true
	}
}

func (this *GraphBuilder) Graph() *ConflictGraph {
	return this.graph
}

// BuildGraph validates a batch and constructs its conflict graph. The whole
// batch is validated before any graph construction: a duplicate transaction
// id or a zero-valued declared key fails the batch as a unit. An empty batch
// yields an empty graph.
func BuildGraph(batch []*trx_types.Transaction) (*ConflictGraph, error) {
	builder := NewGraphBuilder()
	for _, tx := range batch {
		if err := builder.AddAuthor(tx.Id); err != nil {
			return nil, err
		}
		if err := validateKeys(tx); err != nil {
			return nil, err
		}
	}
	for _, tx := range batch {
		logOperation := builder.NewLogger(tx.Id)
		for _, key := range tx.Reads {
			logOperation(GET, key.Flatten())
		}
		for _, key := range tx.Writes {
			logOperation(SET, key.Flatten())
		}
	}
	return builder.Graph(), nil
}

func validateKeys(tx *trx_types.Transaction) error {
	for _, key := range tx.Reads {
		if key.IsZero() {
			return &ValidationError{tx.Id, "zero-valued read key"}
		}
	}
	for _, key := range tx.Writes {
		if key.IsZero() {
			return &ValidationError{tx.Id, "zero-valued write key"}
		}
	}
	return nil
}
