package trx_types

import (
	"encoding/json"

	"github.com/Taraxa-project/taraxa-parallel/util"

	"github.com/dchest/siphash"
	mapset "github.com/deckarep/golang-set"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type TxId = uint64
type Word = uint64

// FlatKey is the hashed, comparable form of a Key. The conflict detector and
// the state stores index by it; two structurally equal keys always flatten to
// the same FlatKey.
type FlatKey = uint64

// Key identifies one storage cell. Immutable once constructed.
type Key struct {
	Address common.Address `json:"address"`
	Slot    common.Hash    `json:"slot"`
}

// siphash keys are fixed so that flattening is stable across processes
const flatKeyK0 = 0x7461726178615f70
const flatKeyK1 = 0x6172616c6c656c00

func (this Key) Flatten() FlatKey {
	var buf [common.AddressLength + common.HashLength]byte
	copy(buf[:], this.Address[:])
	copy(buf[common.AddressLength:], this.Slot[:])
	return siphash.Hash(flatKeyK0, flatKeyK1, buf[:])
}

func (this Key) IsZero() bool {
	return this == Key{}
}

type OpCode byte

const (
	SLOAD OpCode = iota
	SSTORE
	ADD
	NOOP
	OpCode_count
)

var opCodeNames = [OpCode_count]string{"SLOAD", "SSTORE", "ADD", "NOOP"}

func (this OpCode) String() string {
	if this < OpCode_count {
		return opCodeNames[this]
	}
	return "INVALID"
}

// MicroOp is a closed tagged instruction. Key is meaningful for SLOAD/SSTORE,
// Imm for ADD; the other fields are zero.
type MicroOp struct {
	Op  OpCode
	Key Key
	Imm Word
}

type microOpJSON = struct {
	Op  string          `json:"op"`
	Key *Key            `json:"key,omitempty"`
	Imm *hexutil.Uint64 `json:"imm,omitempty"`
}

func (this MicroOp) MarshalJSON() ([]byte, error) {
	encoded := microOpJSON{Op: this.Op.String()}
	switch this.Op {
	case SLOAD, SSTORE:
		key := this.Key
		encoded.Key = &key
	case ADD:
		imm := hexutil.Uint64(this.Imm)
		encoded.Imm = &imm
	}
	return json.Marshal(&encoded)
}

func (this *MicroOp) UnmarshalJSON(b []byte) error {
	var decoded microOpJSON
	if err := json.Unmarshal(b, &decoded); err != nil {
		return err
	}
	*this = MicroOp{}
	switch decoded.Op {
	case "SLOAD", "SSTORE":
		if decoded.Key == nil {
			return util.ErrorString("micro-op " + decoded.Op + " is missing its key")
		}
		this.Op, this.Key = SLOAD, *decoded.Key
		if decoded.Op == "SSTORE" {
			this.Op = SSTORE
		}
	case "ADD":
		this.Op = ADD
		if decoded.Imm != nil {
			this.Imm = Word(*decoded.Imm)
		}
	case "NOOP":
		this.Op = NOOP
	default:
		return util.ErrorString("unknown micro-op: " + decoded.Op)
	}
	return nil
}

// Transaction owns its declared read/write key sequences and a derived
// micro-op program. The program is a cached, read-only view: it is a pure
// function of (Id, Reads, Writes) and is never serialized — a fixture that
// carried a program diverging from the declared sets would break the
// derivation invariant, so the wire format omits it.
type Transaction struct {
	Id       TxId   `json:"id"`
	Reads    []Key  `json:"reads"`
	Writes   []Key  `json:"writes"`
	GasHint  uint64 `json:"gasHint"`
	Metadata string `json:"metadata,omitempty"`
	program  []MicroOp
}

func (this *Transaction) Program() []MicroOp {
	if this.program == nil {
		this.program = BuildProgram(this.Id, this.Reads, this.Writes)
	}
	return this.program
}

// RWSet is a transaction's declared access sets flattened for conflict
// detection. Duplicate declared keys collapse here but remain distinct
// instructions in the program.
type RWSet = struct {
	Id     TxId
	Reads  mapset.Set
	Writes mapset.Set
}

func (this *Transaction) NewRWSet() *RWSet {
	reads, writes := mapset.NewThreadUnsafeSet(), mapset.NewThreadUnsafeSet()
	for _, key := range this.Reads {
		reads.Add(key.Flatten())
	}
	for _, key := range this.Writes {
		writes.Add(key.Flatten())
	}
	return &RWSet{this.Id, reads, writes}
}
