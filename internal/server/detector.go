package server

import (
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DetectorConfig bounds per-client traffic within one window
type DetectorConfig struct {
	Window          time.Duration
	MaxRequests     int
	FailedAuthAlert int
	MaxClients      int
}

// DefaultDetectorConfig allows 1000 requests per client every 5 minutes
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		Window:          5 * time.Minute,
		MaxRequests:     1000,
		FailedAuthAlert: 5,
		MaxClients:      DefaultTrackedClients,
	}
}

type clientWindow struct {
	start      time.Time
	requests   int
	failedAuth int
}

// ActivityDetector counts requests and failed logins per client in fixed windows. Each client's
// window starts with its first request. Only the MaxClients most recent clients are tracked.
type ActivityDetector struct {
	cfg     DetectorConfig
	mu      sync.Mutex
	clients *lru.Cache[string, *clientWindow]
	now     func() time.Time
}

// NewActivityDetector creates a detector; zero fields in cfg fall back to the defaults
func NewActivityDetector(cfg DetectorConfig) *ActivityDetector {
	def := DefaultDetectorConfig()
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.FailedAuthAlert <= 0 {
		cfg.FailedAuthAlert = def.FailedAuthAlert
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = def.MaxClients
	}
	clients, _ := lru.New[string, *clientWindow](cfg.MaxClients)
	return &ActivityDetector{cfg: cfg, clients: clients, now: time.Now}
}

// current returns ip's window, starting a fresh one when the old one has run out.
// Caller holds mu.
func (d *ActivityDetector) current(ip string) *clientWindow {
	now := d.now()
	w, ok := d.clients.Get(ip)
	if !ok || now.Sub(w.start) >= d.cfg.Window {
		w = &clientWindow{start: now}
		d.clients.Add(ip, w)
	}
	return w
}

// RecordFailedAuth counts a rejected credential and alerts once ip reaches the threshold
func (d *ActivityDetector) RecordFailedAuth(ip string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w := d.current(ip)
	w.failedAuth++
	if w.failedAuth >= d.cfg.FailedAuthAlert {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", w.failedAuth)
	}
}

// RecordRequest counts a request and reports whether ip is still within its budget
func (d *ActivityDetector) RecordRequest(ip string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	w := d.current(ip)
	w.requests++
	if w.requests <= d.cfg.MaxRequests {
		return true
	}
	if over := w.requests - d.cfg.MaxRequests; over == 1 || over%100 == 0 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", w.requests)
	}
	return false
}

// counts reports ip's figures in its current window without starting a new one
func (d *ActivityDetector) counts(ip string) (requests, failedAuth int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.clients.Peek(ip)
	if !ok || d.now().Sub(w.start) >= d.cfg.Window {
		return 0, 0
	}
	return w.requests, w.failedAuth
}
