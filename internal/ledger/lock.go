package ledger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"timemachine/internal/services"
)

// PushLock is an exclusive file lock held for the duration of a push.
type PushLock struct {
	lock *flock.Flock
}

// AcquirePushLock takes the lock at path without blocking. It fails when
// another push holds it.
func AcquirePushLock(path string) (*PushLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire push lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "ledger", "lock",
			"another push is already running (lock "+path+")", nil)
	}
	return &PushLock{lock: lock}, nil
}

// Release drops the lock.
func (l *PushLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
