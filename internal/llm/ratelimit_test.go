package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"siteforge/internal/tester"
)

func TestLimiterNilIsDisabled(t *testing.T) {
	var l *rpsLimiter
	tester.NoErr(t, l.Acquire(context.Background()))
	l.Stop()
}

func TestLimiterBurstThenBlocks(t *testing.T) {
	l := newRPSLimiter(1, 2)
	defer l.Stop()

	ctx := context.Background()
	tester.NoErr(t, l.Acquire(ctx))
	tester.NoErr(t, l.Acquire(ctx))

	// Bucket drained; a short deadline must expire before the next refill.
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := l.Acquire(short)
	tester.True(t, errors.Is(err, context.DeadlineExceeded), "drained bucket blocks")
}

func TestLimiterStoppedRejects(t *testing.T) {
	l := newRPSLimiter(1000, 1)
	tester.NoErr(t, l.Acquire(context.Background()))
	l.Stop()

	// Drain whatever refill landed before Stop, then the stop signal must
	// win: a closed limiter rejects rather than admitting unthrottled calls.
	deadline := time.After(time.Second)
	for {
		err := l.Acquire(context.Background())
		if err != nil {
			tester.True(t, errors.Is(err, context.Canceled), "stopped limiter returns context.Canceled")
			return
		}
		select {
		case <-deadline:
			t.Fatal("stopped limiter kept handing out tokens")
		default:
		}
	}
}
