package background

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"shipping/pkg/logger"
)

// Task периодическая задача обслуживания.
type Task interface {
	TTL() time.Duration
	Do(context.Context) error
	Info() string
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

// Worker крутит задачи по тикеру до отмены контекста.
type Worker struct {
	log   handlerLogger
	tasks []Task
	group *errgroup.Group
}

// New прогоняет каждую задачу один раз синхронно и, если прогон прошел без ошибок,
// запускает их периодическое выполнение. Ошибка или паника первого прогона
// возвращается вызывающему, периодические ошибки только логируются.
func New(ctx context.Context, log handlerLogger, tasks []Task) (*Worker, error) {
	worker := &Worker{
		log:   log,
		tasks: tasks,
		group: &errgroup.Group{},
	}
	if len(tasks) == 0 {
		return worker, nil
	}

	warmup, warmupCtx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		warmup.Go(func() error {
			log.Info("task warmup", logger.NewField("task", task.Info()))
			return worker.runOnce(warmupCtx, task)
		})
	}
	if err := warmup.Wait(); err != nil {
		return nil, fmt.Errorf("task warmup: %w", err)
	}

	for _, task := range tasks {
		worker.group.Go(func() error {
			worker.loop(ctx, task)
			return nil
		})
	}

	return worker, nil
}

// Wait блокируется, пока все задачи не остановятся.
func (w *Worker) Wait() {
	_ = w.group.Wait()
}

func (w *Worker) loop(ctx context.Context, task Task) {
	ttl := task.TTL()
	if ttl <= 0 {
		w.log.Warn("invalid TTL, periodic run disabled",
			logger.NewField("task", task.Info()),
			logger.NewField("ttl", ttl),
		)
		return
	}

	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("task stopped", logger.NewField("task", task.Info()))
			return
		case <-ticker.C:
			if err := w.runOnce(ctx, task); err != nil {
				w.log.Error("task failed",
					logger.NewField("task", task.Info()),
					logger.NewField("error", err),
				)
			}
		}
	}
}

func (w *Worker) runOnce(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			w.log.Error("task panic",
				logger.NewField("task", task.Info()),
				logger.NewField("recover", r),
				logger.NewField("stack", string(stack)),
			)
			err = fmt.Errorf("panic in %s: %v", task.Info(), r)
		}
	}()

	return task.Do(ctx)
}
