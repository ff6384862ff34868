package conflict_detector

import (
	"fmt"

	"github.com/Taraxa-project/taraxa-parallel/trx_types"

	"github.com/emirpasic/gods/sets/linkedhashset"
)

type OperationType byte

const (
	GET OperationType = iota
	SET
	OperationType_count
)

var conflictRelations = func() (ret [OperationType_count][]OperationType) {
	conflicting := func(left, right OperationType) {
		ret[left] = append(ret[left], right)
		if left != right {
			ret[right] = append(ret[right], left)
		}
	}
	conflicting(GET, SET)
	conflicting(SET, SET)
	return
}()

type Author = trx_types.TxId
type Key = trx_types.FlatKey
type Keys = map[Key]bool
type Authors = *linkedhashset.Set
type Operation = struct {
	Author Author
	Type   OperationType
	Key    Key
}
type AuthorsByOperation = [OperationType_count]Authors

func newAuthors(values ...interface{}) Authors {
	return linkedhashset.New(values...)
}

type OperationIndex = map[Key]*AuthorsByOperation
type OperationLogger = func(OperationType, Key)

// ValidationError marks a batch the graph builder refuses to process:
// transactions are never silently dropped or merged.
type ValidationError struct {
	TxId   Author
	Reason string
}

func (this *ValidationError) Error() string {
	return fmt.Sprintf("invalid transaction %d: %s", this.TxId, this.Reason)
}
