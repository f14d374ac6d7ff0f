package tablesplit

import (
	"context"
	"sync"
)

// ReadSplit is handed one Split at a time and is responsible for
// executing the generated predicate query and processing the results.
// Enumerate only calls it; it doesn't know how ReadSplit talks to the
// database.
type ReadSplit func(ctx context.Context, split Split) error

// Enumerate drives read across all splits produced by s, running up to n
// of them concurrently: a bounded set of goroutines pulling off a
// channel, the first error cancels the rest, all errors are collected.
func Enumerate(ctx context.Context, s *Splitter, n int, read ReadSplit) error {
	splits, err := s.Split(ctx)
	if err != nil {
		return err
	}
	if n < 1 {
		n = 1
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
		in   = make(chan Split)
	)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	recordError := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
		cancel()
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for split := range in {
				if err := read(ctx, split); err != nil {
					recordError(err)
					continue
				}
			}
		}()
	}

feed:
	for _, split := range splits {
		select {
		case <-ctx.Done():
			break feed
		case in <- split:
		}
	}
	close(in)
	wg.Wait()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
