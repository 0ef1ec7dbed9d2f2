// internal/actions/notification/send-receipt/async.go
package sendreceipt

import (
	"context"
	"sync"

	"claims-portal/internal/common/logger"
)

// StatusQueued is reported by Async: the send happens after the request.
const StatusQueued = "queued"

type Sender interface {
	Send(ctx context.Context, input *Input) *Output
}

// Async runs each Send on its own goroutine so a slow SES or SNS call never
// holds up the submit redirect. Wait drains in-flight sends on shutdown.
type Async struct {
	sender Sender
	logger logger.Logger
	wg     sync.WaitGroup
}

func NewAsync(sender Sender, log logger.Logger) *Async {
	return &Async{
		sender: sender,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (a *Async) Send(ctx context.Context, input *Input) *Output {
	ctx = context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		out := a.sender.Send(ctx, input)
		a.logger.Debug("queued receipt finished", map[string]interface{}{
			"notificationId": out.NotificationID,
			"status":         out.Status,
		})
	}()
	return &Output{Status: StatusQueued}
}

// Wait blocks until every queued send has finished or ctx ends.
func (a *Async) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
