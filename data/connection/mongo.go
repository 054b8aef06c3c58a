package connection

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ncobase/classroom/data/config"
	"github.com/ncobase/classroom/logging/logger"
	"github.com/ncobase/classroom/logging/observes"
	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/description"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel/attribute"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Client is the part of *mongo.Client the manager relies on
type Client interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
	Disconnect(ctx context.Context) error
	Database(name string, opts ...*options.DatabaseOptions) *mongo.Database
}

// DialFunc opens a client with the given options
type DialFunc func(ctx context.Context, opts *options.ClientOptions) (Client, error)

// Scheduler runs fn once after d
type Scheduler func(d time.Duration, fn func())

// HealthStatus is a point in time view of the link
type HealthStatus struct {
	Status string `json:"status"`
	State  string `json:"state"`
	Error  string `json:"error,omitempty"`
}

// Option configures a MongoManager
type Option func(*MongoManager)

// WithDialer replaces mongo.Connect
func WithDialer(d DialFunc) Option {
	return func(m *MongoManager) { m.dial = d }
}

// WithScheduler replaces time.AfterFunc for reconnect scheduling
func WithScheduler(s Scheduler) Option {
	return func(m *MongoManager) { m.schedule = s }
}

// MongoManager owns the single MongoDB client of the process.
type MongoManager struct {
	conf     *config.MongoDB
	log      *logger.Logger
	dial     DialFunc
	schedule Scheduler
	breaker  *gobreaker.CircuitBreaker

	state            atomic.Int32
	reconnectPending atomic.Bool
	closed           atomic.Bool

	mu      sync.RWMutex
	client  Client
	lastErr error
}

// NewMongoManager creates a manager. Nothing is dialed until Connect.
func NewMongoManager(conf *config.MongoDB, log *logger.Logger, opts ...Option) *MongoManager {
	if log == nil {
		log = logger.Discard()
	}

	m := &MongoManager{
		conf:     conf,
		log:      log,
		dial:     dialMongo,
		schedule: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
	for _, opt := range opts {
		opt(m)
	}

	maxFailures := uint32(5)
	timeout := 30 * time.Second
	if conf.Breaker != nil {
		if conf.Breaker.MaxFailures > 0 {
			maxFailures = uint32(conf.Breaker.MaxFailures)
		}
		if conf.Breaker.Timeout > 0 {
			timeout = conf.Breaker.Timeout
		}
	}

	m.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "mongodb",
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !IsUnavailable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			m.log.Warn(context.Background(), "circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return m
}

func dialMongo(ctx context.Context, opts *options.ClientOptions) (Client, error) {
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// State returns the current link state
func (m *MongoManager) State() State {
	return State(m.state.Load())
}

// Connect dials MongoDB, retrying with capped exponential backoff. Once
// every attempt has failed the last dial error is returned.
func (m *MongoManager) Connect(ctx context.Context) (err error) {
	if m.closed.Load() {
		return ErrClosed
	}
	if !m.state.CompareAndSwap(int32(StateDisconnected), int32(StateConnecting)) {
		if m.State() == StateConnected {
			return nil
		}
		return ErrConnecting
	}

	ctx, span := observes.StartSpan(ctx, "mongodb.connect", attribute.String("db.name", m.conf.Database))
	defer func() { observes.EndSpan(span, err) }()

	backoff, maxAttempts := m.backoff()
	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		client, err := m.open(ctx)
		if err != nil {
			m.log.Warn(ctx, "mongodb connect attempt failed",
				"attempt", attempt, "max_attempts", maxAttempts, "error", err)
			return retry.RetryableError(err)
		}
		m.setClient(client, nil)
		return nil
	})
	if err != nil {
		m.setClient(nil, err)
		m.state.Store(int32(StateDisconnected))
		return fmt.Errorf("mongodb connect failed after %d attempts: %w", attempt, err)
	}

	if m.closed.Load() {
		m.disconnect(ctx)
		return ErrClosed
	}

	m.state.Store(int32(StateConnected))
	m.log.Info(ctx, "mongodb connected", "database", m.conf.Database, "attempts", attempt)
	return nil
}

func (m *MongoManager) backoff() (retry.Backoff, int) {
	base, capped, attempts := time.Second, 30*time.Second, 5
	if r := m.conf.Retry; r != nil {
		if r.Base > 0 {
			base = r.Base
		}
		if r.Cap > 0 {
			capped = r.Cap
		}
		if r.MaxAttempts > 0 {
			attempts = r.MaxAttempts
		}
	}

	b := retry.NewExponential(base)
	b = retry.WithCappedDuration(capped, b)
	b = retry.WithMaxRetries(uint64(attempts-1), b)
	return b, attempts
}

// open dials and pings once, releasing the client on failure.
func (m *MongoManager) open(ctx context.Context) (Client, error) {
	client, err := m.dial(ctx, m.clientOptions())
	if err != nil {
		return nil, err
	}

	pingCtx := ctx
	if m.conf.ServerSelectionTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, m.conf.ServerSelectionTimeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

func (m *MongoManager) clientOptions() *options.ClientOptions {
	c := m.conf
	opts := options.Client().
		ApplyURI(c.URI).
		SetRetryWrites(true).
		SetServerMonitor(&event.ServerMonitor{
			TopologyDescriptionChanged: func(e *event.TopologyDescriptionChangedEvent) {
				m.onTopologyChanged(e.NewDescription)
			},
		})

	if c.ConnectTimeout > 0 {
		opts.SetConnectTimeout(c.ConnectTimeout)
	}
	if c.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(c.ServerSelectionTimeout)
	}
	if c.SocketTimeout > 0 {
		opts.SetSocketTimeout(c.SocketTimeout)
	}
	if c.MinPoolSize > 0 {
		opts.SetMinPoolSize(c.MinPoolSize)
	}
	if c.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(c.MaxPoolSize)
	}
	if c.TLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	return opts
}

// onTopologyChanged treats the link as lost only when no member of the
// deployment can take writes. A single member going away is not a drop.
func (m *MongoManager) onTopologyChanged(desc description.Topology) {
	if hasWritable(desc) {
		m.onLinkRestored()
		return
	}
	m.onLinkLost(topologyError(desc))
}

func hasWritable(desc description.Topology) bool {
	for _, s := range desc.Servers {
		switch s.Kind {
		case description.Standalone, description.RSPrimary, description.Mongos, description.LoadBalancer:
			return true
		}
	}
	return false
}

func topologyError(desc description.Topology) error {
	for _, s := range desc.Servers {
		if s.LastError != nil {
			return fmt.Errorf("%w: %s: %v", ErrNoWritableServer, s.Addr, s.LastError)
		}
	}
	return ErrNoWritableServer
}

// onLinkLost marks a live link as dropped and schedules recovery
func (m *MongoManager) onLinkLost(cause error) {
	if m.state.CompareAndSwap(int32(StateConnected), int32(StateDisconnected)) {
		m.setError(cause)
		m.log.Warn(context.Background(), "mongodb disconnected", "error", cause)
	}
	m.scheduleReconnect()
}

func (m *MongoManager) onLinkRestored() {
	if m.closed.Load() {
		return
	}
	if m.state.CompareAndSwap(int32(StateDisconnected), int32(StateConnected)) {
		m.setError(nil)
		m.log.Info(context.Background(), "mongodb connection restored")
	}
}

// scheduleReconnect arms at most one pending reconnect, and only for a
// link that dropped on its own.
func (m *MongoManager) scheduleReconnect() {
	if m.closed.Load() || m.State() != StateDisconnected || m.getClient() == nil {
		return
	}
	if !m.reconnectPending.CompareAndSwap(false, true) {
		return
	}

	delay := m.conf.ReconnectDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}
	m.log.Info(context.Background(), "mongodb reconnect scheduled", "delay", delay.String())

	m.schedule(delay, func() {
		m.reconnectPending.Store(false)
		m.reconnect()
	})
}

func (m *MongoManager) reconnect() {
	if m.closed.Load() {
		return
	}
	if !m.state.CompareAndSwap(int32(StateDisconnected), int32(StateConnecting)) {
		return
	}

	client := m.getClient()
	if client == nil {
		m.state.Store(int32(StateDisconnected))
		return
	}

	ctx := context.Background()
	if m.conf.ServerSelectionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.conf.ServerSelectionTimeout)
		defer cancel()
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		m.setError(err)
		m.state.CompareAndSwap(int32(StateConnecting), int32(StateDisconnected))
		m.log.Error(ctx, "mongodb reconnect failed", "error", err)
		return
	}

	if m.state.CompareAndSwap(int32(StateConnecting), int32(StateConnected)) {
		m.setError(nil)
		m.log.Info(ctx, "mongodb reconnected")
	}
}

// Health pings the server. It never panics and never returns an error;
// failures are reported inside the status.
func (m *MongoManager) Health(ctx context.Context) (hs HealthStatus) {
	defer func() {
		if r := recover(); r != nil {
			hs = HealthStatus{
				Status: StatusUnhealthy,
				State:  m.State().String(),
				Error:  fmt.Sprintf("health check panicked: %v", r),
			}
		}
	}()

	state := m.State()
	hs = HealthStatus{Status: StatusUnhealthy, State: state.String()}

	client := m.getClient()
	if client == nil || state != StateConnected {
		if err := m.getError(); err != nil {
			hs.Error = err.Error()
		} else {
			hs.Error = ErrNotConnected.Error()
		}
		return hs
	}

	if m.conf.ServerSelectionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.conf.ServerSelectionTimeout)
		defer cancel()
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		hs.Error = err.Error()
		return hs
	}

	hs.Status = StatusHealthy
	return hs
}

// Database returns the configured database handle
func (m *MongoManager) Database() (*mongo.Database, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	client := m.getClient()
	if client == nil || m.State() != StateConnected {
		return nil, ErrNotConnected
	}
	return client.Database(m.conf.Database), nil
}

// Collection returns a collection of the configured database
func (m *MongoManager) Collection(name string) (*mongo.Collection, error) {
	db, err := m.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Execute runs fn through the circuit breaker. Only connection failures
// count against the breaker; an open breaker fails fast with
// gobreaker.ErrOpenState.
func (m *MongoManager) Execute(fn func() error) error {
	_, err := m.breaker.Execute(func() (any, error) {
		return nil, fn()
	})
	return err
}

// Close tears the link down and suppresses any further reconnect.
func (m *MongoManager) Close(ctx context.Context) error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	return m.disconnect(ctx)
}

func (m *MongoManager) disconnect(ctx context.Context) error {
	m.state.Store(int32(StateDisconnecting))
	defer m.state.Store(int32(StateDisconnected))

	m.mu.Lock()
	client := m.client
	m.client = nil
	m.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		m.log.Error(ctx, "mongodb disconnect failed", "error", err)
		return fmt.Errorf("mongodb disconnect error: %w", err)
	}
	m.log.Info(ctx, "mongodb disconnected")
	return nil
}

func (m *MongoManager) getClient() Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

func (m *MongoManager) setClient(c Client, err error) {
	m.mu.Lock()
	m.client = c
	m.lastErr = err
	m.mu.Unlock()
}

func (m *MongoManager) getError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

func (m *MongoManager) setError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}
