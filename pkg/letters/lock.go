package letters

import (
	"sync"

	"github.com/arthur-debert/windeploy/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// MsgBusy is reported when another deployment holds the letters
const MsgBusy = "another deployment is using the temporary drive letters"

// Lock is a single slot guarding the temporary letters
type Lock struct {
	sem *semaphore.Weighted
}

// NewLock returns an unheld lock
func NewLock() *Lock {
	return &Lock{sem: semaphore.NewWeighted(1)}
}

var process = NewLock()

// Process is the lock shared by every deployment in this process
func Process() *Lock { return process }

// TryAcquire takes the slot without waiting. The returned release function
// may be called more than once.
func (l *Lock) TryAcquire() (func(), error) {
	if !l.sem.TryAcquire(1) {
		return func() {}, errors.New(errors.ErrPrecondition, MsgBusy)
	}

	var once sync.Once
	return func() { once.Do(func() { l.sem.Release(1) }) }, nil
}
