package board

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimulatedPolicy_LatencyRange(t *testing.T) {
	p := NewSimulatedPolicy(PolicyConfig{MinLatency: 200 * time.Millisecond, MaxLatency: 1200 * time.Millisecond, Seed: 1})
	for i := 0; i < 1000; i++ {
		d := p.Latency()
		assert.GreaterOrEqual(t, d, 200*time.Millisecond)
		assert.Less(t, d, 1200*time.Millisecond)
	}
}

func TestSimulatedPolicy_Deterministic(t *testing.T) {
	cfg := DefaultPolicyConfig()
	cfg.Seed = 42
	a, b := NewSimulatedPolicy(cfg), NewSimulatedPolicy(cfg)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Latency(), b.Latency())
		assert.Equal(t, a.Fail(OpWrite), b.Fail(OpWrite))
	}
}

func TestSimulatedPolicy_FailureRate(t *testing.T) {
	p := NewSimulatedPolicy(PolicyConfig{FailureRate: 0.08, Seed: 7})

	const n = 20000
	failed := 0
	for i := 0; i < n; i++ {
		if p.Fail(OpWrite) {
			failed++
		}
	}
	assert.InDelta(t, 0.08, float64(failed)/n, 0.01)

	for i := 0; i < 100; i++ {
		assert.False(t, p.Fail(OpRead), "reads never fail")
	}
}

func TestSimulatedPolicy_Clamps(t *testing.T) {
	p := NewSimulatedPolicy(PolicyConfig{MinLatency: -time.Second, MaxLatency: -time.Second, FailureRate: 3})
	assert.Equal(t, time.Duration(0), p.Latency())
	assert.Equal(t, 1.0, p.Config().FailureRate)
	assert.True(t, p.Fail(OpWrite))

	fixed := NewSimulatedPolicy(PolicyConfig{MinLatency: time.Second, MaxLatency: 0})
	assert.Equal(t, time.Second, fixed.Latency())
}

func TestSimulatedPolicy_ConcurrentUse(t *testing.T) {
	p := NewSimulatedPolicy(DefaultPolicyConfig())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = p.Latency()
				_ = p.Fail(OpWrite)
			}
		}()
	}
	wg.Wait()
}

func TestStaticPolicies(t *testing.T) {
	assert.Zero(t, NoLatency{}.Latency())
	assert.False(t, NoLatency{}.Fail(OpWrite))

	assert.Zero(t, FailWrites{}.Latency())
	assert.True(t, FailWrites{}.Fail(OpWrite))
	assert.False(t, FailWrites{}.Fail(OpRead))

	assert.Equal(t, "write", OpWrite.String())
	assert.Equal(t, "read", OpRead.String())
}
