// Package scheduler runs periodic background jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job は定期実行される処理です。
type Job func(ctx context.Context) error

// Scheduler wraps a robfig cron runner. Overlapping runs of the same job are skipped.
type Scheduler struct {
	c       *cron.Cron
	timeout time.Duration
	// base は Run に渡されたコンテキストです。停止時に実行中のジョブへキャンセルを伝えます。
	base    context.Context
}

// New は標準5フィールドのcron式を解釈するスケジューラを作成します。
// timeout は各ジョブ実行ごとのコンテキスト期限です（0 なら無制限）。
func New(timeout time.Duration) *Scheduler {
	logger := slogLogger{l: slog.Default().With("component", "scheduler")}
	return &Scheduler{
		c: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		timeout: timeout,
		base:    context.Background(),
	}
}

// Add registers job under name at expr.
func (s *Scheduler) Add(expr, name string, job Job) error {
	_, err := s.c.AddFunc(expr, func() {
		ctx := s.base
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		start := time.Now()
		if err := job(ctx); err != nil {
			slog.Error("scheduled job failed", "job", name, "error", err, "elapsed", time.Since(start))
			return
		}
		slog.Info("scheduled job finished", "job", name, "elapsed", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

// Run はスケジューラを開始し、ctx が終了するまでブロックします。
// 終了時は実行中のジョブの完了を待ちます。
func (s *Scheduler) Run(ctx context.Context) error {
	s.base = ctx
	s.c.Start()
	<-ctx.Done()
	<-s.c.Stop().Done()
	return nil
}

// Entries は登録済みジョブ数を返します。
func (s *Scheduler) Entries() int {
	return len(s.c.Entries())
}

// slogLogger adapts slog to cron.Logger.
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Info(msg string, keysAndValues ...any) {
	s.l.Debug(msg, keysAndValues...)
}

func (s slogLogger) Error(err error, msg string, keysAndValues ...any) {
	s.l.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
