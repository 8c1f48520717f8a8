package stream_handler

import (
	"bufio"
	"tickq/src/logger"
	"tickq/src/metrics"
	"tickq/src/model"
	"tickq/src/task"
	"tickq/src/work"

	"github.com/quic-go/quic-go"
)

const (
	errorCodeBadRequest quic.StreamErrorCode = 1
	errorCodeRejected   quic.StreamErrorCode = 2
)

// Stream is the part of a QUIC stream a job needs.
type Stream interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	CancelRead(code quic.StreamErrorCode)
	CancelWrite(code quic.StreamErrorCode)
}

// This class is responsible for handling incoming streams
type StreamHandler struct {
	taskScheduler *task.TaskScheduler
	fairness      *metrics.Fairness
	logger        *logger.Logger
}

// Create a stream handler posting jobs to taskScheduler. fairness may be nil.
func NewStreamHandler(taskScheduler *task.TaskScheduler, fairness *metrics.Fairness, log *logger.Logger) *StreamHandler {
	if log == nil {
		log = logger.Global
	}
	return &StreamHandler{
		taskScheduler: taskScheduler,
		fairness:      fairness,
		logger:        log.Named("stream"),
	}
}

func (s *StreamHandler) Stop() {
	s.taskScheduler.Stop()
}

// HandleStream reads one job request from stream and posts the job. It
// blocks until the request is read, not until the job is done.
func (s *StreamHandler) HandleStream(stream Stream) {
	req, err := model.ReadJobRequest(bufio.NewReader(stream))
	if err != nil {
		s.logger.Warn("invalid request: %v", err)
		stream.CancelRead(errorCodeBadRequest)
		stream.CancelWrite(errorCodeBadRequest)
		return
	}
	s.logger.Debug("job %s (%q): %d steps", req.ID, req.Label, req.Steps)

	job := s.newJob(stream, req)

	var ok bool
	if req.Steps == 1 {
		ok = s.taskScheduler.Post(func() { job() })
	} else {
		ok = s.taskScheduler.PostRepeat(job)
	}
	if !ok {
		s.logger.Warn("job %s rejected: connection is closing", req.ID)
		stream.CancelWrite(errorCodeRejected)
	}
}

// newJob returns the closure running one step of req per call. It sends a
// progress frame after every step and closes the stream after the last one.
func (s *StreamHandler) newJob(stream Stream, req *model.JobRequest) func() work.StopCondition {
	step := 0
	return func() work.StopCondition {
		step++
		if s.fairness != nil {
			s.fairness.Record(req.ID.String())
		}

		progress := model.JobProgress{
			ID:    req.ID,
			Step:  step,
			Steps: req.Steps,
			Done:  step == req.Steps,
		}
		if err := progress.Write(stream); err != nil {
			s.logger.Warn("job %s: %v", req.ID, err)
			stream.CancelWrite(errorCodeRejected)
			return work.Stop
		}

		if progress.Done {
			stream.Close()
			return work.Stop
		}
		return work.KeepGoing
	}
}
