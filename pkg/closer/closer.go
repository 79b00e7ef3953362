package closer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

const allClosed = -1

// Closer shuts registered resources down in reverse order of registration.
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	entries       []entry
	forcedTimeout time.Duration
}

// Func releases one resource.
type Func func(ctx context.Context) error

type entry struct {
	name string
	fn   Func
}

// NewCloser returns a Closer. forcedTimeout bounds the parallel forced close
// of whatever is left when the context passed to Close ends; zero means 2s.
func NewCloser(forcedTimeout time.Duration) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = 2 * time.Second
	}
	return &Closer{forcedTimeout: forcedTimeout}
}

func (c *Closer) Add(f Func) {
	c.AddNamed("", f)
}

// AddNamed registers f; name prefixes the errors it returns.
func (c *Closer) AddNamed(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry{name: name, fn: f})
}

// Close runs every registered func once, last registered first. When ctx
// ends before all of them return, the rest are closed concurrently with a
// fresh forcedTimeout context.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		entries := c.entries
		c.mu.Unlock()

		stopIdx, errs := closeInOrder(ctx, entries)
		if stopIdx == allClosed {
			if len(errs) > 0 {
				err = fmt.Errorf("shutdown finished with error(s):\n%s", strings.Join(errs, "\n"))
			}
			return
		}

		errs = append(errs, c.forceClose(entries[:stopIdx+1])...)
		err = fmt.Errorf("shutdown interrupted after %d/%d funcs:\n%s",
			len(entries)-1-stopIdx, len(entries), strings.Join(errs, "\n"))
	})
	return err
}

// closeInOrder returns the index of the entry it was waiting on when ctx ended,
// or allClosed.
func closeInOrder(ctx context.Context, entries []entry) (int, []string) {
	var errs []string
	for i := len(entries) - 1; i >= 0; i-- {
		en := entries[i]
		done := make(chan error, 1)
		go func() { done <- en.fn(ctx) }()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, "[!] "+en.describe(err))
			}
		case <-ctx.Done():
			return i, errs
		}
	}
	return allClosed, errs
}

func (c *Closer) forceClose(entries []entry) []string {
	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []string
	)
	for _, en := range entries {
		en := en
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := en.fn(ctx); err != nil {
				mu.Lock()
				errs = append(errs, "[FORCED] "+en.describe(err))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return errs
}

func (en entry) describe(err error) string {
	if en.name == "" {
		return err.Error()
	}
	return en.name + ": " + err.Error()
}
