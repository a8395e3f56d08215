package health_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erasmus_backend/internal/platform/health"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestChecker(deps map[string]health.Pinger) (*health.Checker, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return health.NewChecker(deps, slog.Default(), reg), reg
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, dep string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "erasmus_health_check_up" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "dependency" && l.GetValue() == dep {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("gauge for %s not found", dep)
	return 0
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c, _ := newTestChecker(map[string]health.Pinger{"database": &mockPinger{err: errors.New("db down")}})

	result := c.Liveness(context.Background())

	assert.True(t, result.Up())
	assert.Nil(t, result.Checks)
}

func TestReadiness_AllUp(t *testing.T) {
	c, reg := newTestChecker(map[string]health.Pinger{
		"database": &mockPinger{},
		"redis":    health.PingerFunc(func(context.Context) error { return nil }),
	})

	result := c.Readiness(context.Background())

	assert.True(t, result.Up())
	assert.Equal(t, "up", result.Checks["database"].Status)
	assert.Equal(t, "up", result.Checks["redis"].Status)
	assert.Equal(t, float64(1), gaugeValue(t, reg, "database"))
	count, err := testutil.GatherAndCount(reg, "erasmus_health_check_up")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestReadiness_DependencyDown(t *testing.T) {
	c, reg := newTestChecker(map[string]health.Pinger{
		"database": &mockPinger{},
		"redis":    &mockPinger{err: errors.New("dial tcp 10.0.0.3:6379: connection refused")},
	})

	result := c.Readiness(context.Background())

	assert.False(t, result.Up())
	assert.Equal(t, "down", result.Checks["redis"].Status)
	assert.Equal(t, "unreachable", result.Checks["redis"].Error)
	assert.Equal(t, float64(0), gaugeValue(t, reg, "redis"))
	assert.Equal(t, float64(1), gaugeValue(t, reg, "database"))
}

func TestReadiness_NilPingerSkipped(t *testing.T) {
	c, _ := newTestChecker(map[string]health.Pinger{"database": &mockPinger{}, "redis": nil})

	result := c.Readiness(context.Background())

	assert.True(t, result.Up())
	assert.NotContains(t, result.Checks, "redis")
}
