package client

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"tickq/src/logger"
	"tickq/src/model"
	"time"

	"github.com/google/uuid"
	"github.com/quic-go/quic-go"
	"github.com/pkg/errors"
)

// Job describes a job to send to the server.
type Job struct {
	Label string
	Steps int
}

// Result is what the client saw of one job.
type Result struct {
	ID    uuid.UUID
	Label string
	// Progress frames received.
	Frames int
	// 1 for the job that finished first, 2 for the next one, and so on.
	Order   int
	Elapsed time.Duration
}

type Client struct {
	serverURL  string
	serverPort int
	logger     *logger.Logger
}

// Create a new client. log may be nil.
func NewClient(serverURL string, serverPort int, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Global
	}
	return &Client{
		serverURL:  serverURL,
		serverPort: serverPort,
		logger:     log.Named("client"),
	}
}

// Run sends every job on its own stream of one connection and waits for all
// of them to finish. Results are in the order of jobs.
func (c *Client) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	url := fmt.Sprintf("%s:%d", c.serverURL, c.serverPort)

	tlsConf := &tls.Config{
		InsecureSkipVerify: true,
		NextProtos:         []string{model.Protocol},
	}
	config := &quic.Config{
		MaxIdleTimeout:       5 * time.Minute,
		HandshakeIdleTimeout: 10 * time.Second,
	}
	// Create new QUIC connection
	connection, err := quic.DialAddr(ctx, url, tlsConf, config)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", url)
	}
	defer connection.CloseWithError(0, "done")

	results := make([]Result, len(jobs))
	errs := make([]error, len(jobs))
	finished := 0
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()

			res, err := c.runJob(ctx, connection, job)
			if err != nil {
				errs[i] = errors.Wrapf(err, "job %q", job.Label)
				return
			}

			mu.Lock()
			finished++
			res.Order = finished
			mu.Unlock()

			results[i] = res
			c.logger.Debug("job %s (%q) done: %d frames in %s", res.ID, res.Label, res.Frames, res.Elapsed)
		}(i, job)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (c *Client) runJob(ctx context.Context, connection quic.Connection, job Job) (Result, error) {
	res := Result{ID: uuid.New(), Label: job.Label}
	start := time.Now()

	stream, err := connection.OpenStreamSync(ctx)
	if err != nil {
		return res, errors.Wrap(err, "open stream")
	}

	req := model.JobRequest{ID: res.ID, Label: job.Label, Steps: job.Steps}
	if err := req.Write(stream); err != nil {
		stream.CancelRead(0)
		return res, err
	}
	// Close the write direction: one request per stream
	stream.Close()

	reader := bufio.NewReader(stream)
	for {
		progress, err := model.ReadJobProgress(reader)
		if err != nil {
			return res, err
		}
		res.Frames++

		if progress.ID != req.ID {
			return res, errors.Errorf("progress for job %s on the stream of %s", progress.ID, req.ID)
		}
		if progress.Step != res.Frames {
			return res, errors.Errorf("got step %d, expected %d", progress.Step, res.Frames)
		}
		if progress.Done {
			break
		}
	}

	res.Elapsed = time.Since(start)
	return res, nil
}
