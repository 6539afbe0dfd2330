package board

import (
	"math/rand/v2"
	"sync"
	"time"
)

// OpKind classifies an engine operation for the fault policy
type OpKind int

const (
	OpRead OpKind = iota
	OpWrite
)

func (k OpKind) String() string {
	if k == OpWrite {
		return "write"
	}
	return "read"
}

// Policy decides how long each call waits and whether a write fails
type Policy interface {
	Latency() time.Duration
	Fail(kind OpKind) bool
}

// PolicyConfig configures a SimulatedPolicy
type PolicyConfig struct {
	MinLatency  time.Duration
	MaxLatency  time.Duration
	FailureRate float64 // probability in [0, 1] that a write fails
	Seed        uint64  // 0 picks a random seed
}

// DefaultPolicyConfig returns the board's default fault profile
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		MinLatency:  200 * time.Millisecond,
		MaxLatency:  1200 * time.Millisecond,
		FailureRate: 0.08,
	}
}

// SimulatedPolicy draws latency uniformly from [MinLatency, MaxLatency) and fails
// writes with probability FailureRate. It is safe for concurrent use.
type SimulatedPolicy struct {
	cfg PolicyConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedPolicy builds a policy from cfg. Negative values are clamped to zero
// and MaxLatency is raised to MinLatency when lower.
func NewSimulatedPolicy(cfg PolicyConfig) *SimulatedPolicy {
	cfg.MinLatency = max(cfg.MinLatency, 0)
	cfg.MaxLatency = max(cfg.MaxLatency, cfg.MinLatency)
	cfg.FailureRate = min(max(cfg.FailureRate, 0), 1)

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &SimulatedPolicy{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Config returns the effective configuration
func (p *SimulatedPolicy) Config() PolicyConfig {
	return p.cfg
}

func (p *SimulatedPolicy) Latency() time.Duration {
	span := p.cfg.MaxLatency - p.cfg.MinLatency
	if span <= 0 {
		return p.cfg.MinLatency
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.MinLatency + time.Duration(p.rng.Int64N(int64(span)))
}

func (p *SimulatedPolicy) Fail(kind OpKind) bool {
	if kind != OpWrite || p.cfg.FailureRate == 0 {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64() < p.cfg.FailureRate
}

// NoLatency never waits and never fails
type NoLatency struct{}

func (NoLatency) Latency() time.Duration { return 0 }
func (NoLatency) Fail(OpKind) bool       { return false }

// FailWrites never waits and fails every write
type FailWrites struct{}

func (FailWrites) Latency() time.Duration { return 0 }
func (FailWrites) Fail(kind OpKind) bool  { return kind == OpWrite }
