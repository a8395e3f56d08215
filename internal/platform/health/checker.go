// Package health はプロセスと依存先の死活・準備状態を報告します。
package health

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const checkTimeout = 2 * time.Second

// Pinger は依存先に到達できることを確認する手段を抽象化します。
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc は関数をPingerとして使えるようにします。
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// CheckResult は1つの依存先の状態です。
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResult はヘルスチェックのレスポンス全体です。
type HealthResult struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// Up はすべてのチェックが成功したかを返します。
func (r HealthResult) Up() bool { return r.Status == "up" }

// Checker は登録されたすべての依存先に到達できるかを確認します。
type Checker struct {
	deps   map[string]Pinger
	logger *slog.Logger
	gauge  *prometheus.GaugeVec
}

// NewChecker はCheckerを生成し、Prometheusのゲージを登録します。
// depsは依存先の名前（"database"、"redis"）からPingerへのマップで、nilは無視します。
func NewChecker(deps map[string]Pinger, logger *slog.Logger, reg prometheus.Registerer) *Checker {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "erasmus",
		Name:      "health_check_up",
		Help:      "Whether a dependency is reachable. 1 = up, 0 = down.",
	}, []string{"dependency"})
	reg.MustRegister(gauge)

	clean := make(map[string]Pinger, len(deps))
	for name, p := range deps {
		if p != nil {
			clean[name] = p
		}
	}

	return &Checker{
		deps:   clean,
		logger: logger.With("component", "health"),
		gauge:  gauge,
	}
}

// Liveness はプロセスが動作していれば"up"を返します。
func (c *Checker) Liveness(_ context.Context) HealthResult {
	return HealthResult{Status: "up"}
}

// Readiness はすべての依存先を確認し、個別の結果を返します。
// エラーの詳細はログにのみ残し、レスポンスには"unreachable"とだけ返します。
func (c *Checker) Readiness(ctx context.Context) HealthResult {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	result := HealthResult{
		Status: "up",
		Checks: make(map[string]CheckResult, len(c.deps)),
	}

	names := make([]string, 0, len(c.deps))
	for name := range c.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := c.deps[name].Ping(checkCtx); err != nil {
			c.logger.Warn("health check failed", "dependency", name, "error", err)
			result.Status = "down"
			result.Checks[name] = CheckResult{Status: "down", Error: "unreachable"}
			c.gauge.WithLabelValues(name).Set(0)
			continue
		}
		result.Checks[name] = CheckResult{Status: "up"}
		c.gauge.WithLabelValues(name).Set(1)
	}

	return result
}
