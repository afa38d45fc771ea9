package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/framebind/internal/attach"
	"github.com/1broseidon/framebind/internal/platform"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval        time.Duration
	CleanupOrphaned bool
	Logger          *slog.Logger
}

// Reconciler periodically checks for drift between the frames the daemon
// tracks and the windows the window system still knows, and corrects it.
// DestroyNotify events normally keep the two in sync; the reconciler catches
// events lost across window manager restarts or connection hiccups.
type Reconciler struct {
	interval        time.Duration
	cleanupOrphaned bool
	backend         platform.Backend
	registry        *attach.Registry
	logger          *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, backend platform.Backend, registry *attach.Registry) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval:        interval,
		cleanupOrphaned: cfg.CleanupOrphaned,
		backend:         backend,
		registry:        registry,
		logger:          logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	// Find orphaned frames: tracked by the daemon but gone from the window
	// system. Their windows go back to waiting.
	var orphaned []platform.FrameID
	for _, id := range r.backend.TrackedFrames() {
		if !r.backend.FrameExists(id) {
			orphaned = append(orphaned, id)
		}
	}

	for _, id := range orphaned {
		r.logger.Info("reconciler: orphaned frame detected", "frame", id)
		if r.cleanupOrphaned {
			r.backend.DropFrame(id)
		}
	}

	// Report windows stuck without a consumer. A spawn request that never
	// completed leaves the window waiting; this is a degraded state the
	// platform surfaces, not one the daemon retries.
	waiting := 0
	for _, w := range r.registry.CopyWindows() {
		if w.State() != attach.StateAttached {
			waiting++
		}
	}
	if waiting > 0 {
		r.logger.Debug("reconciler: windows without a frame", "count", waiting)
	}
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
