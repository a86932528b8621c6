// Package expiry は掲載期間を超過した求人の自動募集終了ジョブを提供する。
// 掲載日時がMaxAgeより古い募集中の求人をclosedにする。closedの求人は新規応募を受け付けない。
package expiry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// JobCloser は期限切れ求人の一括クローズを抽象化するインターフェース。
// repository.JobRepositoryが満たす。
type JobCloser interface {
	CloseJobsPostedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// Recorder はクローズ件数をメトリクスに記録する。
type Recorder interface {
	RecordJobsExpired(count int)
}

// Job は掲載期間を超過した求人の自動募集終了ジョブ。
// 冪等: 対象がない場合でもエラーにならない。
type Job struct {
	closer   JobCloser
	recorder Recorder
	logger   *slog.Logger
	MaxAge   time.Duration // 掲載期間（0以下で無効）
	now      func() time.Time
}

// NewJob は新しいJobを生成する。
func NewJob(closer JobCloser, recorder Recorder, logger *slog.Logger, maxAge time.Duration) *Job {
	return &Job{
		closer:   closer,
		recorder: recorder,
		logger:   logger,
		MaxAge:   maxAge,
		now:      time.Now,
	}
}

// Run はposted_atが現在時刻からMaxAge以上前の募集中求人をクローズする。
func (j *Job) Run(ctx context.Context) error {
	if j.MaxAge <= 0 {
		return nil
	}
	start := time.Now()
	cutoff := j.now().Add(-j.MaxAge)

	closed, err := j.closer.CloseJobsPostedBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("求人の自動募集終了に失敗しました",
			slog.String("error", err.Error()),
			slog.Duration("max_age", j.MaxAge),
		)
		return fmt.Errorf("求人の自動募集終了に失敗: %w", err)
	}

	if closed > 0 {
		j.recorder.RecordJobsExpired(closed)
	}

	j.logger.Info("求人の自動募集終了ジョブが完了しました",
		slog.Int("closed_count", closed),
		slog.Time("cutoff", cutoff),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)
	return nil
}

// Start はintervalごとにRunを実行する。起動直後に1回実行する。
// ctxがキャンセルされるまでブロックする。
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	if j.MaxAge <= 0 {
		j.logger.Info("求人の自動募集終了は無効です")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("求人の自動募集終了ジョブを開始しました",
		slog.Duration("interval", interval),
		slog.Duration("max_age", j.MaxAge),
	)

	// 起動直後に1回実行
	_ = j.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("求人の自動募集終了ジョブを停止しました")
			return
		case <-ticker.C:
			_ = j.Run(ctx)
		}
	}
}
