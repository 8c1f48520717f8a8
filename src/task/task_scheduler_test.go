package task_test

import (
	"bytes"
	"sync"
	"testing"
	"tickq/src/logger"
	"tickq/src/scheduler"
	"tickq/src/task"
	"tickq/src/work"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func start(t *testing.T, ts *task.TaskScheduler) {
	done := make(chan error, 1)
	go func() { done <- ts.Run() }()
	t.Cleanup(func() {
		ts.Stop()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("Run did not return after Stop")
		}
	})
}

func wait(t *testing.T, wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for tasks")
	}
}

// Test if tasks posted by one goroutine run in order.
func TestTaskScheduler_Order(t *testing.T) {
	ts := task.NewTaskScheduler(nil, nil)
	start(t, ts)

	var wg sync.WaitGroup
	var got []int
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		assert.True(t, ts.Post(func() {
			got = append(got, i)
			wg.Done()
		}))
	}
	wait(t, &wg)

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

// Test if many producers can post concurrently.
func TestTaskScheduler_ConcurrentProducers(t *testing.T) {
	ts := task.NewTaskScheduler(nil, nil)
	start(t, ts)

	const producers, perProducer = 8, 200
	var wg sync.WaitGroup
	wg.Add(producers * perProducer)

	// Only touched by the run goroutine.
	count := map[int]int{}
	for p := 0; p < producers; p++ {
		p := p
		go func() {
			for i := 0; i < perProducer; i++ {
				ts.Post(func() {
					count[p]++
					wg.Done()
				})
			}
		}()
	}
	wait(t, &wg)

	for p := 0; p < producers; p++ {
		assert.Equal(t, perProducer, count[p])
	}
}

// Test if repeatable tasks take turns.
func TestTaskScheduler_RepeatInterleaves(t *testing.T) {
	ts := task.NewTaskScheduler(nil, nil)

	var trace []string
	var wg sync.WaitGroup
	var q work.Queue
	for _, name := range []string{"a", "b"} {
		name := name
		left := 3
		wg.Add(1)
		q.PushRepeat(func() work.StopCondition {
			trace = append(trace, name)
			left--
			if left > 0 {
				return work.KeepGoing
			}
			wg.Done()
			return work.Stop
		})
	}
	assert.True(t, ts.PostQueue(&q))
	assert.Equal(t, 2, ts.Backlog())

	start(t, ts)
	wait(t, &wg)

	assert.Equal(t, []string{"a", "b", "a", "b", "a", "b"}, trace)
}

// Test if a task can schedule follow-up work through the context.
func TestTaskScheduler_Context(t *testing.T) {
	ts := task.NewTaskScheduler(nil, nil)
	start(t, ts)

	var wg sync.WaitGroup
	wg.Add(1)
	var trace []string
	ts.Post(func() {
		trace = append(trace, "parent")
		ts.Context().Schedule(func() {
			trace = append(trace, "child")
			wg.Done()
		})
	})
	wait(t, &wg)

	assert.Equal(t, []string{"parent", "child"}, trace)
}

// Test if a panicking task is logged and does not stop the loop.
func TestTaskScheduler_Panic(t *testing.T) {
	buf := &bytes.Buffer{}
	var mu sync.Mutex
	log := logger.NewWithWriter("task", &lockedWriter{mu: &mu, w: buf})
	ts := task.NewTaskScheduler(nil, log)
	start(t, ts)

	var wg sync.WaitGroup
	wg.Add(1)
	var set work.Set
	set.Add(func() { panic("boom") })
	set.Add(func() { wg.Done() })
	ts.PostSet(&set)
	wait(t, &wg)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, buf.String(), "task panicked: boom")
}

// Test if Post fails after Stop and Run returns at once.
func TestTaskScheduler_Stop(t *testing.T) {
	ts := task.NewTaskScheduler(nil, nil)
	assert.True(t, ts.Post(func() {}))

	ts.Stop()
	ts.Stop()

	assert.False(t, ts.Post(func() {}))
	assert.False(t, ts.PostRepeat(func() work.StopCondition { return work.Stop }))
	assert.Equal(t, 0, ts.Backlog())
	assert.NoError(t, ts.Run())
}

// Test if a second Run is refused while the first one is active.
func TestTaskScheduler_RunTwice(t *testing.T) {
	ts := task.NewTaskScheduler(nil, nil)

	started := make(chan struct{})
	ts.Post(func() { close(started) })
	start(t, ts)
	<-started

	assert.Equal(t, task.ErrAlreadyRunning, ts.Run())
}

// Test if the backlog observer sees posted work handed over.
func TestTaskScheduler_Backlog(t *testing.T) {
	obs := &backlogCounter{}
	ts := task.NewTaskScheduler(obs, nil)

	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		ts.Post(wg.Done)
	}
	assert.Equal(t, 3, ts.Backlog())

	start(t, ts)
	wait(t, &wg)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 0, obs.value)
	assert.Equal(t, 3, obs.peak)
}

type backlogCounter struct {
	mu    sync.Mutex
	value int
	peak  int
}

func (b *backlogCounter) Scheduled(units int) {}

func (b *backlogCounter) Ticked(result scheduler.TickResult) {}

func (b *backlogCounter) AddBacklog(delta int) {
	b.mu.Lock()
	b.value += delta
	if b.value > b.peak {
		b.peak = b.value
	}
	b.mu.Unlock()
}

type lockedWriter struct {
	mu *sync.Mutex
	w  *bytes.Buffer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
