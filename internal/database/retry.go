package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// 接続リトライの既定値。
const (
	defaultPingAttempts   = 10
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 10 * time.Second
)

// Pinger はデータベースの疎通確認インターフェース。*sql.DBが満たす。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RetryPolicy は起動時の接続リトライ方針。
type RetryPolicy struct {
	Attempts       int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy は既定のリトライ方針を返す。
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:       defaultPingAttempts,
		InitialBackoff: defaultInitialBackoff,
		MaxBackoff:     defaultMaxBackoff,
	}
}

// Backoff は失敗回数に基づく指数バックオフ遅延を返す。
// 初回InitialBackoff、2倍ずつ増加、最大MaxBackoff。
func (p RetryPolicy) Backoff(failures int) time.Duration {
	delay := p.InitialBackoff
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay > p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	return delay
}

// WaitForReady はデータベースが応答するまでPingを繰り返す。
// コンテナ起動直後などDBの準備が整っていない場合に使用する。
// Attempts回失敗するかctxがキャンセルされた場合はエラーを返す。
func WaitForReady(ctx context.Context, db Pinger, policy RetryPolicy) error {
	if policy.Attempts <= 0 {
		policy.Attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < policy.Attempts; attempt++ {
		if lastErr = db.PingContext(ctx); lastErr == nil {
			return nil
		}
		if attempt == policy.Attempts-1 {
			break
		}

		delay := policy.Backoff(attempt)
		slog.Warn("データベースに接続できません。再試行します",
			slog.Int("attempt", attempt+1),
			slog.Duration("retry_in", delay),
			slog.String("error", lastErr.Error()),
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("データベース接続の待機が中断されました: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("データベースに%d回接続を試みましたが失敗しました: %w", policy.Attempts, lastErr)
}
