package cmdlog

import (
	"time"

	"sqltweet/internal/logging"
	"sqltweet/internal/metrics"
	"sqltweet/internal/session"
)

// Run executes one menu operation for sess, counting and logging its outcome.
func Run(action string, sess *session.Session, f func() error) error {
	metrics.IncMenuAction(action)
	start := time.Now()
	err := f()
	fields := sess.Fields()
	if fields == nil {
		fields = map[string]any{}
	}
	fields["ms"] = time.Since(start).Milliseconds()
	if err != nil {
		metrics.IncMenuError(action)
		fields["error"] = err.Error()
		logging.Error(action+"_error", fields)
	} else {
		logging.Info(action+"_ok", fields)
	}
	return err
}
