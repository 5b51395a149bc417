package session

import (
	"fmt"
	"time"
)

const (
	keyPrefix = "worker-directory"

	// LockTTL bounds how long a crashed request can keep a session locked.
	LockTTL = 2 * time.Minute
)

func snapshotKey(id string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

func lockKey(id string) string {
	return fmt.Sprintf("%s:session:%s:lock", keyPrefix, id)
}
