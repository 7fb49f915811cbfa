package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/voidshard/conveyor/internal/utils"
	"github.com/voidshard/conveyor/pkg/structs"
)

// Direct hands updates straight to the handler in the caller's goroutine.
type Direct struct {
	lock    sync.RWMutex
	handler Handler

	done      chan struct{}
	closeOnce sync.Once
}

func NewDirectQueue() *Direct {
	return &Direct{done: make(chan struct{})}
}

func (d *Direct) Register(h Handler) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.handler = h
	return nil
}

// Run blocks until Close; there is nothing to process in the background.
func (d *Direct) Run() error {
	<-d.done
	return nil
}

func (d *Direct) Enqueue(ctx context.Context, jobID string, u *structs.Update) (string, error) {
	d.lock.RLock()
	h := d.handler
	d.lock.RUnlock()

	if h == nil {
		return "", fmt.Errorf("no handler registered")
	}
	select {
	case <-d.done:
		return "", fmt.Errorf("queue is closed")
	default:
	}

	return utils.NewRandomID(), h(ctx, jobID, u)
}

func (d *Direct) Close() error {
	d.closeOnce.Do(func() { close(d.done) })
	return nil
}
