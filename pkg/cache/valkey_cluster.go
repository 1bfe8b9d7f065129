package cache

import (
	"time"

	"github.com/go-redis/redis/v8"
)

// NewValkeyCluster connects to a Valkey cluster.
func NewValkeyCluster(nodes []string, password string, defaultTTL time.Duration) (Cache, error) {
	client := redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:        nodes,
		Password:     password,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
	return connect(client, defaultTTL, "cluster")
}
