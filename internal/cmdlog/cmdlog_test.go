package cmdlog

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"sqltweet/internal/logging"
	"sqltweet/internal/model"
	"sqltweet/internal/session"
)

func TestRunLogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf, "info")
	defer logging.SetOutput(&bytes.Buffer{}, "info")
	sess := session.New(model.User{ID: 3}, time.Now())
	boom := errors.New("boom")
	if err := Run("search_tweets", sess, func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected error passthrough, got %v", err)
	}
	if err := Run("compose", nil, func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"msg":"search_tweets_error"`) || !strings.Contains(out, sess.ID) {
		t.Fatalf("missing error line: %s", out)
	}
	if !strings.Contains(out, `"msg":"compose_ok"`) {
		t.Fatalf("missing ok line: %s", out)
	}
}
