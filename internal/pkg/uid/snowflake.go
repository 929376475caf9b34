package uid

import (
	"math/rand/v2"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates sortable numeric identifiers.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a Snowflake generator. The node number identifies
// this process instance; pass a negative value to pick one at random.
func NewSnowflake(nodes ...int64) (*Snowflake, error) {
	var n int64 = -1
	if len(nodes) > 0 {
		n = nodes[0]
	}
	if n < 0 {
		n = rand.Int64N(1024)
	}

	node, err := snowflake.NewNode(n)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns the next identifier.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
