package task

import (
	"sync"
	"tickq/src/logger"
	"tickq/src/scheduler"
	"tickq/src/work"

	"github.com/pkg/errors"
)

// ErrAlreadyRunning is returned by Run when another goroutine is running the
// same TaskScheduler.
var ErrAlreadyRunning = errors.New("task scheduler is already running")

// BacklogObserver is told how many posted closures are waiting to be handed
// to the context. metrics.Collector implements it.
type BacklogObserver interface {
	AddBacklog(delta int)
}

// TaskScheduler feeds a scheduler.Context from any goroutine and drives it
// on the goroutine that calls Run.
//
// Posted work is kept in an inbox guarded by a mutex. Before every tick the
// run loop moves the whole inbox into the context as one slot, so work
// posted by one goroutine runs in the order it was posted.
type TaskScheduler struct {
	ctx    *scheduler.Context
	inbox  work.Queue
	logger *logger.Logger

	backlog BacklogObserver

	mutex     *sync.Mutex
	cond      *sync.Cond
	isStopped bool
	isRunning bool
}

// Create a new task scheduler. observer and log may be nil.
func NewTaskScheduler(observer scheduler.Observer, log *logger.Logger) *TaskScheduler {
	if log == nil {
		log = logger.Global
	}

	ctx := scheduler.NewContext()
	ctx.SetObserver(observer)

	mutex := &sync.Mutex{}
	cond := sync.NewCond(mutex)

	ts := &TaskScheduler{
		ctx:    ctx,
		logger: log,

		mutex:     mutex,
		cond:      cond,
		isStopped: false,
	}
	if b, ok := observer.(BacklogObserver); ok {
		ts.backlog = b
	}
	return ts
}

// Context returns the context driven by Run.
//
// Only closures running on the Run goroutine may use it; everyone else must
// go through Post.
func (ts *TaskScheduler) Context() *scheduler.Context {
	return ts.ctx
}

// Post queues f to run once. Returns false if the scheduler was stopped.
func (ts *TaskScheduler) Post(f func()) bool {
	return ts.post(func(q *work.Queue) { q.PushFunc(f) })
}

// PostRepeat queues f to run until it returns work.Stop. Returns false if
// the scheduler was stopped.
func (ts *TaskScheduler) PostRepeat(f func() work.StopCondition) bool {
	return ts.post(func(q *work.Queue) { q.PushRepeat(f) })
}

// PostSet queues the members of s as one slot. s is left empty.
func (ts *TaskScheduler) PostSet(s *work.Set) bool {
	return ts.post(func(q *work.Queue) { q.PushSet(s) })
}

// PostQueue queues other as one slot, keeping its order. other is left
// empty.
func (ts *TaskScheduler) PostQueue(other *work.Queue) bool {
	return ts.post(func(q *work.Queue) { q.PushQueue(other) })
}

func (ts *TaskScheduler) post(push func(q *work.Queue)) bool {
	ts.mutex.Lock()

	if ts.isStopped {
		ts.mutex.Unlock()
		return false
	}

	before := ts.inbox.Pending()
	push(&ts.inbox)
	added := ts.inbox.Pending() - before

	ts.mutex.Unlock()
	ts.cond.Broadcast()

	if ts.backlog != nil && added > 0 {
		ts.backlog.AddBacklog(added)
	}
	return true
}

// Backlog returns the number of posted closures not yet handed to the
// context.
func (ts *TaskScheduler) Backlog() int {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	return ts.inbox.Pending()
}

// Stop makes Run return after the current tick. Work that has not run is
// dropped. Stop can be called more than once.
func (ts *TaskScheduler) Stop() {
	ts.mutex.Lock()

	ts.isStopped = true
	dropped := ts.inbox.Pending()
	ts.inbox = work.Queue{}

	ts.mutex.Unlock()
	ts.cond.Broadcast()

	if ts.backlog != nil && dropped > 0 {
		ts.backlog.AddBacklog(-dropped)
	}
}

// Run drives the context until Stop is called, one closure per tick, and
// sleeps while there is nothing to do.
//
// A closure that panics is logged and dropped; the loop goes on.
func (ts *TaskScheduler) Run() error {
	ts.mutex.Lock()
	if ts.isRunning {
		ts.mutex.Unlock()
		return ErrAlreadyRunning
	}
	ts.isRunning = true

	var bucket work.Bucket
	var batch work.Queue

	for !ts.isStopped {
		units := ts.inbox.Pending()
		batch.PushQueue(&ts.inbox)

		// Run outside mutex
		ts.mutex.Unlock()

		if units > 0 {
			ts.ctx.ScheduleQueue(&batch)
			if ts.backlog != nil {
				ts.backlog.AddBacklog(-units)
			}
		}
		ran := ts.tick(&bucket)

		ts.mutex.Lock()
		for !ran && !ts.isStopped && ts.inbox.IsEmpty() {
			ts.cond.Wait()
		}
	}

	ts.isRunning = false
	ts.mutex.Unlock()
	return nil
}

func (ts *TaskScheduler) tick(bucket *work.Bucket) (ran bool) {
	defer func() {
		if r := recover(); r != nil {
			ts.logger.Error("task panicked: %v", r)
			ran = true
		}
	}()
	return ts.ctx.Tick(bucket)
}
