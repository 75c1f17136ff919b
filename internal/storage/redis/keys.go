package redis

import "fmt"

// Key prefix for all server data
const keyPrefix = "nightshift"

// documentKey returns the Redis key holding a JSON document
func documentKey(doc string) string {
	return fmt.Sprintf("%s:doc:%s", keyPrefix, doc)
}

// savedAtKey returns the Redis key recording the last save time
func savedAtKey() string {
	return fmt.Sprintf("%s:saved_at", keyPrefix)
}
