package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// JobRequest asks the server to run a job of Steps steps. A one-step job
// runs once; a longer job yields to other jobs after every step.
type JobRequest struct {
	ID    uuid.UUID
	Label string
	Steps int
}

// JobProgress is sent by the server after every step of a job.
type JobProgress struct {
	ID    uuid.UUID
	Step  int
	Steps int
	Done  bool
}

// Validate checks that the request can be scheduled.
func (r *JobRequest) Validate() error {
	if r.ID == uuid.Nil {
		return errors.New("job request without ID")
	}
	if r.Steps < 1 {
		return errors.Errorf("job %s: steps must be at least 1, got %d", r.ID, r.Steps)
	}
	if r.Steps > MaxSteps {
		return errors.Errorf("job %s: at most %d steps, got %d", r.ID, MaxSteps, r.Steps)
	}
	if strings.ContainsAny(r.Label, "\r\n") {
		return errors.Errorf("job %s: label must be a single line", r.ID)
	}
	return nil
}

// Write a JobRequest.
func (r *JobRequest) Write(writer io.Writer) (err error) {
	if err = r.Validate(); err != nil {
		return
	}
	// Format mimics HTTP:
	// Headers - "Key: Value" separated by \n
	// Followed by empty line
	_, err = fmt.Fprintf(writer,
		"ID: %s\nLabel: %s\nSteps: %d\n\n",
		r.ID, r.Label, r.Steps)
	return errors.Wrap(err, "write job request")
}

// Read a JobRequest.
func ReadJobRequest(reader *bufio.Reader) (*JobRequest, error) {
	headers, err := readHeaders(reader)
	if err != nil {
		return nil, errors.Wrap(err, "read job request")
	}

	request := &JobRequest{Label: headers["Label"]}
	if request.ID, err = uuid.Parse(headers["ID"]); err != nil {
		return nil, errors.Wrap(err, "job request ID")
	}
	if request.Steps, err = strconv.Atoi(headers["Steps"]); err != nil {
		return nil, errors.Wrap(err, "job request steps")
	}
	if err = request.Validate(); err != nil {
		return nil, err
	}
	return request, nil
}

// Write a JobProgress.
func (p *JobProgress) Write(writer io.Writer) error {
	_, err := fmt.Fprintf(writer,
		"ID: %s\nStep: %d\nSteps: %d\nDone: %t\n\n",
		p.ID, p.Step, p.Steps, p.Done)
	return errors.Wrap(err, "write job progress")
}

// Read a JobProgress.
func ReadJobProgress(reader *bufio.Reader) (*JobProgress, error) {
	headers, err := readHeaders(reader)
	if err != nil {
		return nil, errors.Wrap(err, "read job progress")
	}

	progress := &JobProgress{}
	if progress.ID, err = uuid.Parse(headers["ID"]); err != nil {
		return nil, errors.Wrap(err, "job progress ID")
	}
	if progress.Step, err = strconv.Atoi(headers["Step"]); err != nil {
		return nil, errors.Wrap(err, "job progress step")
	}
	if progress.Steps, err = strconv.Atoi(headers["Steps"]); err != nil {
		return nil, errors.Wrap(err, "job progress steps")
	}
	if progress.Done, err = strconv.ParseBool(headers["Done"]); err != nil {
		return nil, errors.Wrap(err, "job progress done")
	}
	return progress, nil
}

// readHeaders reads "Key: Value" lines up to and including the empty line
// ending the block. Unknown keys are kept; later duplicates win.
func readHeaders(reader *bufio.Reader) (map[string]string, error) {
	headers := map[string]string{}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimSuffix(line[:len(line)-1], "\r") // Removes the \n
		if len(line) == 0 {
			return headers, nil
		}

		kv := strings.SplitN(line, ":", 2)
		if len(kv) != 2 {
			return nil, errors.Errorf("not a key value pair: %q", line)
		}
		headers[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
}
