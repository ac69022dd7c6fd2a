package auth

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrHasherClosed is returned by Hash once the hasher has been closed.
var ErrHasherClosed = errors.New("hasher closed")

// hashJob is one bcrypt computation handed to the worker pool.
type hashJob struct {
	run  func()
	done chan struct{}
}

// Hasher runs bcrypt on a fixed pool of workers so that bursts of logins
// cannot occupy every CPU at once.
type Hasher struct {
	jobs      chan hashJob
	done      chan struct{}
	cost      int
	closeOnce sync.Once
}

// NewHasher starts workers goroutines. cost of zero means bcrypt.DefaultCost.
func NewHasher(workers int, cost int) *Hasher {
	if workers < 1 {
		workers = 1
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	h := &Hasher{
		jobs: make(chan hashJob),
		done: make(chan struct{}),
		cost: cost,
	}
	for i := 0; i < workers; i++ {
		go h.worker()
	}
	return h
}

func (h *Hasher) worker() {
	for {
		select {
		case job := <-h.jobs:
			job.run()
			close(job.done)
		case <-h.done:
			return
		}
	}
}

// Close stops the workers. Later calls to Hash fail with ErrHasherClosed
// and Verify reports false.
func (h *Hasher) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// submit blocks until a worker has run fn. It gives up early when ctx is
// done or the hasher has been closed.
func (h *Hasher) submit(ctx context.Context, fn func()) error {
	select {
	case <-h.done:
		return ErrHasherClosed
	default:
	}

	job := hashJob{run: fn, done: make(chan struct{})}

	select {
	case h.jobs <- job:
	case <-h.done:
		return ErrHasherClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-job.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Hash returns a salted bcrypt hash of password.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	var (
		hash []byte
		err  error
	)
	if serr := h.submit(ctx, func() {
		hash, err = bcrypt.GenerateFromPassword([]byte(password), h.cost)
	}); serr != nil {
		return "", serr
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hashed. A malformed hash or a
// cancelled context yields false.
func (h *Hasher) Verify(ctx context.Context, password, hashed string) bool {
	var err error
	if serr := h.submit(ctx, func() {
		err = bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
	}); serr != nil {
		return false
	}
	return err == nil
}
