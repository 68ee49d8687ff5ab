package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/dskvich/atlas-telegram-bot/pkg/logger"
)

type Worker interface {
	Name() string
	Start(ctx context.Context) error
}

// Group runs workers that are expected to live as long as the process.
// The first worker to return, with or without an error, stops the others.
type Group []Worker

func (g Group) Start(ctx context.Context) error {
	runCtx, stopAll := context.WithCancel(ctx)
	defer stopAll()

	var (
		mu     sync.Mutex
		result error
		wg     sync.WaitGroup
	)

	for _, w := range g {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			defer stopAll()

			err := w.Start(runCtx)
			if err == nil {
				if runCtx.Err() == nil {
					slog.Warn("Worker exited early, stopping group", "name", w.Name())
				}
				return
			}

			slog.Error("Worker failed", "name", w.Name(), logger.Err(err))

			mu.Lock()
			result = multierror.Append(result, fmt.Errorf("%s: %w", w.Name(), err))
			mu.Unlock()
		}(w)
	}

	wg.Wait()
	return result
}
