package worker

import (
	"context"
	"testing"
	"time"

	"codearena/internal/platform/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type recordingEvaluator struct {
	received chan string
}

func (r *recordingEvaluator) EvaluateSubmission(ctx context.Context, submissionID string) error {
	r.received <- submissionID
	return nil
}

func TestWorkerConsumesQueuedSubmissions(t *testing.T) {
	mr := miniredis.RunT(t)
	config.Load()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	evaluator := &recordingEvaluator{received: make(chan string, 2)}
	w := NewEvaluationWorker(rdb, evaluator, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	queue := config.AppConfig.EvaluationQueueName
	if err := rdb.LPush(context.Background(), queue, "sub-1").Err(); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if err := rdb.LPush(context.Background(), queue, "sub-2").Err(); err != nil {
		t.Fatalf("push failed: %v", err)
	}

	for _, want := range []string{"sub-1", "sub-2"} {
		select {
		case got := <-evaluator.received:
			if got != want {
				t.Fatalf("expected %s, got %s", want, got)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("worker never picked up %s", want)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
