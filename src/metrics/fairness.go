package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// JainIndex returns Jain's fairness index of xs: 1 when every value is
// equal, 1/n when a single value takes everything. Empty or all-zero input
// gives 0.
func JainIndex[T constraints.Integer | constraints.Float](xs []T) float64 {
	var s, s2 float64
	for _, x := range xs {
		v := float64(x)
		s += v
		s2 += v * v
	}
	if s2 == 0 {
		return 0
	}
	return (s * s) / (float64(len(xs)) * s2)
}

// Sample is the state of a fairness window.
type Sample struct {
	Jobs        int
	Invocations int64
	Jain        float64
	// Per-job invocation counts, ordered by job key.
	Counts []int64
}

// Fairness counts how often each job was invoked during a window.
type Fairness struct {
	mu     sync.Mutex
	counts map[string]int64

	file   *os.File
	w      *csv.Writer
	ticker *time.Ticker
	stop   chan struct{}
	done   chan struct{}
}

// Create an in-memory fairness window.
func NewFairness() *Fairness {
	return &Fairness{
		counts: map[string]int64{},
	}
}

// Start a fairness window that appends a CSV row to csvPath every interval
// and then starts a new window.
func StartFairnessWriter(csvPath string, interval time.Duration) (*Fairness, error) {
	if err := os.MkdirAll(filepath.Dir(csvPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "create fairness csv dir")
	}
	f, err := os.OpenFile(csvPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open fairness csv")
	}
	w := csv.NewWriter(f)
	if st, _ := f.Stat(); st != nil && st.Size() == 0 {
		_ = w.Write([]string{"ts", "jobs", "invocations", "jain"})
		w.Flush()
	}

	fr := NewFairness()
	fr.file = f
	fr.w = w
	fr.ticker = time.NewTicker(interval)
	fr.stop = make(chan struct{})
	fr.done = make(chan struct{})
	go fr.loop()
	return fr, nil
}

// Record one invocation of job.
func (f *Fairness) Record(job string) {
	f.mu.Lock()
	f.counts[job]++
	f.mu.Unlock()
}

// Snapshot returns the current window without resetting it.
func (f *Fairness) Snapshot() Sample {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sampleLocked()
}

// Stop the CSV writer, flushing the current window. Safe to call on an
// in-memory window.
func (f *Fairness) Stop() error {
	if f.stop == nil {
		return nil
	}
	close(f.stop)
	<-f.done
	f.ticker.Stop()

	f.mu.Lock()
	f.writeLocked(time.Now())
	f.mu.Unlock()

	if err := f.file.Close(); err != nil {
		return errors.Wrap(err, "close fairness csv")
	}
	return nil
}

func (f *Fairness) loop() {
	defer close(f.done)
	for {
		select {
		case <-f.stop:
			return
		case now := <-f.ticker.C:
			f.mu.Lock()
			f.writeLocked(now)
			f.mu.Unlock()
		}
	}
}

// writeLocked appends the window to the CSV file and starts a new one.
func (f *Fairness) writeLocked(now time.Time) {
	s := f.sampleLocked()
	_ = f.w.Write([]string{
		now.Format(time.RFC3339Nano),
		strconv.Itoa(s.Jobs),
		strconv.FormatInt(s.Invocations, 10),
		strconv.FormatFloat(s.Jain, 'f', 6, 64),
	})
	f.w.Flush()
	f.counts = map[string]int64{}
}

func (f *Fairness) sampleLocked() Sample {
	keys := maps.Keys(f.counts)
	slices.Sort(keys)

	s := Sample{Jobs: len(keys), Counts: make([]int64, 0, len(keys))}
	for _, k := range keys {
		s.Counts = append(s.Counts, f.counts[k])
		s.Invocations += f.counts[k]
	}
	s.Jain = JainIndex(s.Counts)
	return s
}
