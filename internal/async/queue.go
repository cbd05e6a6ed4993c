package async

import (
	"context"
	"time"
)

// Job asks for one directory pass.
type Job struct {
	Dir         string
	Reason      string // "initial", "fs-event", ...
	SubmittedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
