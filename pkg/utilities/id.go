package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

var (
	eventNodeOnce sync.Once
	eventNode     *snowflake.Node
)

// NewEventID generates a snowflake ID string used to tag queue messages so
// the delivery consumer can correlate retries. The node is process-wide so
// the sequence counter survives across calls and IDs stay unique within a
// millisecond. The node ID comes from SNOWFLAKE_NODE (default 1); if the
// node cannot be initialized, KSUIDs are generated instead.
func NewEventID() string {
	eventNodeOnce.Do(func() {
		nodeID := int64(1)
		if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				nodeID = n
			}
		}
		node, err := snowflake.NewNode(nodeID)
		if err != nil {
			return
		}
		eventNode = node
	})
	if eventNode == nil {
		return NewKSUID()
	}
	return eventNode.Generate().String()
}
