package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// StuckTaskAge defines how long a task can be in processing state
	// before it's considered stuck and reset
	StuckTaskAge time.Duration

	// MonitorInterval defines how often to scan the database for stuck
	// processing tasks and pending rows enqueued out of process.
	// If zero, defaults to 1 minute.
	MonitorInterval time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:     2,
		QueueSize:       100,
		StuckTaskAge:    30 * time.Minute,
		MonitorInterval: time.Minute,
	}
}

// TaskRunner manages background task processing. Tasks are persisted
// before they are queued, so a crash never loses work; the monitor also
// picks up pending rows written by other processes, such as the operator
// CLI. Delivery is at-least-once.
type TaskRunner struct {
	store      TaskStore
	taskChan   chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     TaskRunnerConfig
	logger     *slog.Logger
	hydrators  map[string]Hydrator

	// inflight tracks task IDs that are queued or executing so the
	// monitor does not requeue them.
	inflightMu sync.Mutex
	inflight   map[uuid.UUID]struct{}
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(store TaskStore, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if config.MonitorInterval == 0 {
		config.MonitorInterval = time.Minute
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultTaskRunnerConfig().WorkerCount
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultTaskRunnerConfig().QueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &TaskRunner{
		store:      store,
		taskChan:   make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With(slog.String("component", "task_runner")),
		hydrators:  make(map[string]Hydrator),
		inflight:   make(map[uuid.UUID]struct{}),
	}
}

// RegisterHydrator associates a task type with the hydrator used to
// rebuild executable tasks from persisted rows. Must be called before
// Start.
func (r *TaskRunner) RegisterHydrator(taskType string, h Hydrator) {
	r.hydrators[taskType] = h
}

// Submit persists the task and adds it to the in-memory queue.
// Returns an error if the task cannot be saved or the queue is full.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if !r.markInflight(task.ID()) {
		return nil
	}

	select {
	case r.taskChan <- task:
		return nil
	default:
		// The monitor will pick the persisted row up later.
		r.clearInflight(task.ID())
		return fmt.Errorf("task queue is full, try again later")
	}
}

// Start initializes the worker pool and begins processing tasks
func (r *TaskRunner) Start() error {
	if err := r.recover(); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.monitor()

	return nil
}

// Stop gracefully shuts down the task runner
func (r *TaskRunner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	close(r.taskChan)
}

// recover requeues tasks left unfinished by a previous run: pending rows
// that never reached a worker, and processing rows interrupted by a crash.
func (r *TaskRunner) recover() error {
	ctx := context.Background()

	pendingTasks, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending tasks: %w", err)
	}

	processingTasks, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		slog.Int("pending_count", len(pendingTasks)),
		slog.Int("processing_count", len(processingTasks)))

	for _, t := range pendingTasks {
		r.requeue(ctx, t)
	}

	for _, t := range processingTasks {
		if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusPending, "Reset after recovery"); err != nil {
			r.logger.Error("failed to reset processing task status",
				slog.String("task_id", t.ID().String()),
				slog.String("task_type", t.Type()),
				slog.String("error", err.Error()))
			continue
		}
		r.requeue(ctx, t)
	}

	return nil
}

// requeue hydrates a persisted task and puts it back on the queue,
// skipping tasks that are already queued or executing.
func (r *TaskRunner) requeue(ctx context.Context, t Task) {
	hydrator, ok := r.hydrators[t.Type()]
	if !ok {
		r.logger.Error("no hydrator registered for task type",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()))
		return
	}

	executable, err := hydrator.Hydrate(t.ID(), t.Payload())
	if err != nil {
		r.logger.Error("failed to hydrate task",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()),
			slog.String("error", err.Error()))
		if updateErr := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
			r.logger.Error("failed to mark unhydratable task as failed",
				slog.String("task_id", t.ID().String()),
				slog.String("error", updateErr.Error()))
		}
		return
	}

	if !r.markInflight(executable.ID()) {
		return
	}

	select {
	case r.taskChan <- executable:
	default:
		r.clearInflight(executable.ID())
		r.logger.Error("failed to requeue task, queue is full",
			slog.String("task_id", executable.ID().String()),
			slog.String("task_type", executable.Type()))
	}
}

// worker processes tasks from the queue
func (r *TaskRunner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", slog.Int("worker_id", id))

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", slog.Int("worker_id", id))
			return

		case t, ok := <-r.taskChan:
			if !ok {
				r.logger.Debug("task channel closed, stopping worker",
					slog.Int("worker_id", id))
				return
			}
			r.processTask(t, id)
		}
	}
}

// processTask handles execution of a single task
func (r *TaskRunner) processTask(t Task, workerID int) {
	defer r.clearInflight(t.ID())

	ctx := context.Background()
	log := r.logger.With(
		slog.String("task_id", t.ID().String()),
		slog.String("task_type", t.Type()),
		slog.Int("worker_id", workerID))

	if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusProcessing, ""); err != nil {
		log.Error("failed to update task status to processing",
			slog.String("error", err.Error()))
		return
	}

	log.Info("processing task")

	if err := t.Execute(ctx); err != nil {
		log.Error("task execution failed", slog.String("error", err.Error()))
		if updateErr := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to update task status to failed",
				slog.String("error", updateErr.Error()))
		}
		return
	}

	log.Info("task completed successfully")
	if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusCompleted, ""); err != nil {
		log.Error("failed to update task status to completed",
			slog.String("error", err.Error()))
	}
}

// monitor periodically requeues pending rows written by other processes
// and resets tasks stuck in processing state.
func (r *TaskRunner) monitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.MonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			ctx := context.Background()

			pendingTasks, err := r.store.GetPendingTasks(ctx)
			if err != nil {
				r.logger.Error("failed to check for pending tasks",
					slog.String("error", err.Error()))
			} else {
				for _, t := range pendingTasks {
					r.requeue(ctx, t)
				}
			}

			stuckTasks, err := r.store.GetProcessingTasks(ctx, r.config.StuckTaskAge)
			if err != nil {
				r.logger.Error("failed to check for stuck tasks",
					slog.String("error", err.Error()))
				continue
			}

			for _, t := range stuckTasks {
				if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusPending,
					"Reset after being stuck in processing state"); err != nil {
					r.logger.Error("failed to reset stuck task status",
						slog.String("task_id", t.ID().String()),
						slog.String("task_type", t.Type()),
						slog.String("error", err.Error()))
					continue
				}
				r.requeue(ctx, t)
			}
		}
	}
}

func (r *TaskRunner) markInflight(id uuid.UUID) bool {
	r.inflightMu.Lock()
	defer r.inflightMu.Unlock()
	if _, ok := r.inflight[id]; ok {
		return false
	}
	r.inflight[id] = struct{}{}
	return true
}

func (r *TaskRunner) clearInflight(id uuid.UUID) {
	r.inflightMu.Lock()
	defer r.inflightMu.Unlock()
	delete(r.inflight, id)
}
