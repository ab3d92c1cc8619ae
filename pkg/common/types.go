package common

import "fmt"

// ValueType 是所有结构中存储的整数值
type ValueType = int64

// Kind identifies one of the four index structures. The numeric order is the
// fixed order the benchmark visits them in.
type Kind int

const (
	KindSequence Kind = iota
	KindHash
	KindTree
	KindSparse

	NumKinds = 4
)

// Kinds lists every structure kind in benchmark order.
var Kinds = [NumKinds]Kind{KindSequence, KindHash, KindTree, KindSparse}

func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "sequence"
	case KindHash:
		return "hash"
	case KindTree:
		return "tree"
	case KindSparse:
		return "sparse"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Label is the human-readable structure name used by reports.
func (k Kind) Label() string {
	switch k {
	case KindSequence:
		return "Linked list"
	case KindHash:
		return "Hash table"
	case KindTree:
		return "Red-black tree"
	case KindSparse:
		return "XArray"
	default:
		return k.String()
	}
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown structure kind %q", s)
}
