package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// ErrInvalidCacheNode is returned for a Valkey address that is not a usable
// host:port pair.
var ErrInvalidCacheNode = errors.New("invalid cache node")

// ValidateCacheNode checks a Valkey host:port address.
func ValidateCacheNode(node string) error {
	host, port, err := net.SplitHostPort(node)
	switch {
	case node == "":
		return fmt.Errorf("%w: address is empty", ErrInvalidCacheNode)
	case err != nil:
		return fmt.Errorf("%w: %q is not host:port", ErrInvalidCacheNode, node)
	case host == "":
		return fmt.Errorf("%w: %q has no host", ErrInvalidCacheNode, node)
	}
	if p, err := strconv.Atoi(port); err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("%w: port %q out of range", ErrInvalidCacheNode, port)
	}
	return nil
}
