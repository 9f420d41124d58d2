package ratelimiter

import (
	"context"
	"log"
	"time"
)

// RateLimiterInterface は、モデル呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded(ctx context.Context)
}

// RateLimiterは、モデル呼び出しなどの操作の頻度を固定ウィンドウで制限します。
type RateLimiter struct {
	limit     int           // ウィンドウあたりの上限
	interval  time.Duration // どの単位でリセットするか
	count     int
	lastReset time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
	}
}

// WaitIfNeededはレートリミットの上限に達しているかを確認し、必要であれば
// ウィンドウの境界まで待機します。コンテキストがキャンセルされた場合は
// 待機を中断して即座に戻ります（後続の呼び出しがctx.Err()を検知します）。
func (rl *RateLimiter) WaitIfNeeded(ctx context.Context) {
	now := time.Now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		sleep := rl.interval - now.Sub(rl.lastReset)
		if sleep > 0 {
			log.Printf("[RATE LIMIT] hit %d calls, sleeping for %v...", rl.limit, sleep)
			select {
			case <-time.After(sleep):
			case <-ctx.Done():
				return
			}
		}
		// リセット
		rl.count = 1
		rl.lastReset = time.Now()
	}
}
