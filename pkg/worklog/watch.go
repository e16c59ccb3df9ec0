package worklog

import (
	"context"
	"time"

	"worklogd/internal/watcher"
)

// watchDebounce is how long a file must stay quiet before its write is
// recorded.
const watchDebounce = 2 * time.Second

// Watch runs the auto-record watcher over the working directory until
// ctx is done. Settled file writes are recorded as file operations
// with a content sample, the same path a manual RecordFileOp takes.
// Watcher errors drain into the error sink.
func (r *Recorder) Watch(ctx context.Context) error {
	w, err := watcher.New(r.workdir, watchDebounce, r.cfg.Intent.ContentSampleCap)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return err
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events():
			if !ok {
				return nil
			}
			r.RecordFileOp(event.Operation, event.Path, event.Sample)
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			r.sink.Report("watcher", err)
		}
	}
}
