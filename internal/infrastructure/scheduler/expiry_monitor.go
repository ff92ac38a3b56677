// Package scheduler runs periodic background checks against the stock
// ledger. The only scheduled job today is the expiry monitor.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	stockapp "github.com/resto/backend/internal/application/stock"
	"github.com/resto/backend/internal/domain/shared"
)

// ExpiringLister is the read side the monitor polls. Satisfied by the
// ledger service.
type ExpiringLister interface {
	ExpiringEntries(ctx context.Context, cutoff time.Time, filter shared.Filter) ([]stockapp.StockEntryResponse, error)
}

// ExpiryMonitorConfig holds the monitor's polling settings
type ExpiryMonitorConfig struct {
	// CheckInterval is how often the ledger is polled
	CheckInterval time.Duration
	// WarningWindow is how far ahead of the expiry date an entry is
	// reported
	WarningWindow time.Duration
}

// DefaultExpiryMonitorConfig returns the default polling settings
func DefaultExpiryMonitorConfig() ExpiryMonitorConfig {
	return ExpiryMonitorConfig{
		CheckInterval: time.Hour,
		WarningWindow: 72 * time.Hour,
	}
}

// ExpiryMonitor periodically reports stock entries approaching their expiry
// date. It only observes and logs; write-offs stay an explicit operator
// action through the movement endpoint.
type ExpiryMonitor struct {
	config ExpiryMonitorConfig
	ledger ExpiringLister
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewExpiryMonitor creates a new ExpiryMonitor
func NewExpiryMonitor(config ExpiryMonitorConfig, ledger ExpiringLister, logger *zap.Logger) *ExpiryMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpiryMonitor{
		config: config,
		ledger: ledger,
		logger: logger,
	}
}

// Start launches the polling loop. Calling Start on a running monitor is a
// no-op.
func (m *ExpiryMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isRunning {
		return
	}

	ctx, m.cancel = context.WithCancel(ctx)
	m.isRunning = true

	m.wg.Add(1)
	go m.run(ctx)

	m.logger.Info("expiry monitor started",
		zap.Duration("check_interval", m.config.CheckInterval),
		zap.Duration("warning_window", m.config.WarningWindow),
	)
}

// Stop cancels the polling loop and waits for it to exit
func (m *ExpiryMonitor) Stop() {
	m.mu.Lock()
	if !m.isRunning {
		m.mu.Unlock()
		return
	}
	m.isRunning = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.logger.Info("expiry monitor stopped")
}

// IsRunning reports whether the polling loop is active
func (m *ExpiryMonitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isRunning
}

func (m *ExpiryMonitor) run(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.CheckInterval)
	defer ticker.Stop()

	// First check immediately so a restart does not wait a full interval.
	m.checkOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.checkOnce(ctx)
		}
	}
}

// checkOnce polls the ledger for entries expiring within the warning window
// and logs each one.
func (m *ExpiryMonitor) checkOnce(ctx context.Context) {
	cutoff := time.Now().Add(m.config.WarningWindow)
	entries, err := m.ledger.ExpiringEntries(ctx, cutoff, shared.DefaultFilter())
	if err != nil {
		m.logger.Error("expiry check failed", zap.Error(err))
		return
	}
	if len(entries) == 0 {
		return
	}

	m.logger.Warn("stock entries approaching expiry", zap.Int("count", len(entries)))
	for i := range entries {
		m.logger.Warn("entry expiring",
			zap.String("entry_id", entries[i].ID.String()),
			zap.String("material_id", entries[i].RawMaterialID.String()),
			zap.String("quantity", entries[i].Quantity.String()),
			zap.Timep("expiry_date", entries[i].ExpiryDate),
		)
	}
}
