package cache

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// TimeUntilNextRun は cron 式で表される次回実行時刻までの期間を返します。
func TimeUntilNextRun(expr string, now time.Time) (time.Duration, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return 0, fmt.Errorf("parse cron expression %q: %w", expr, err)
	}
	return sched.Next(now).Sub(now), nil
}

// SyncAlignedTTL は次回の同期実行までを TTL とし、maxTTL で上限を設ける関数を返します。
// cron 式が不正な場合は常に maxTTL を返します。
func SyncAlignedTTL(expr string, maxTTL time.Duration) func() time.Duration {
	return func() time.Duration {
		d, err := TimeUntilNextRun(expr, time.Now())
		if err != nil || d <= 0 || d > maxTTL {
			return maxTTL
		}
		return d
	}
}
