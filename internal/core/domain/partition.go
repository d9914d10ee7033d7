package domain

import "fmt"

// Partition names one of the logically identical relational stores.
type Partition string

const (
	PartitionAdmin     Partition = "admin"
	PartitionAuth      Partition = "auth"
	PartitionModerator Partition = "moderator"
	PartitionUser      Partition = "user"
)

// Partitions lists every store partition in a stable order.
var Partitions = []Partition{PartitionAdmin, PartitionAuth, PartitionModerator, PartitionUser}

// Route maps a caller's security level to the partition that serves it.
// It is the only place where role-to-store selection is defined.
func Route(lvl SecurityLevel) Partition {
	switch lvl {
	case LevelAdmin:
		return PartitionAdmin
	case LevelModerator:
		return PartitionModerator
	case LevelUser:
		return PartitionUser
	default:
		return PartitionAuth
	}
}

// ParsePartition converts a configured partition name into a Partition.
func ParsePartition(s string) (Partition, error) {
	p := Partition(s)
	for _, known := range Partitions {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPartition, s)
}
