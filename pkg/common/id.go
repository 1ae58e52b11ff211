package common

import (
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cast"
)

var node *snowflake.Node

func init() {
	nodeID := int64(1)
	if v := os.Getenv("CATALOG_NODE_ID"); v != "" {
		nodeID = cast.ToInt64(v) % 1024
	}
	var err error
	node, err = snowflake.NewNode(nodeID)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a new snowflake ID for system-assigned entity keys.
func UUIDint64() int64 {
	return node.Generate().Int64()
}
