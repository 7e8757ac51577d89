// Package http exposes the transaction store as a JSON API consumed by the
// web client.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"carteira/internal/cache"
	"carteira/internal/core"
	"carteira/internal/middleware/ratelimit"
	"carteira/internal/middleware/security"
	"carteira/internal/middleware/trace"
	"carteira/internal/store"
)

// Options tunes the server; zero values get defaults.
type Options struct {
	UploadDir   string
	ChartMonths int
	TrendPoints int
	CacheTTL    time.Duration
}

type Server struct {
	httpSrv   *http.Server
	store     *store.Store
	uploadDir string

	limiter *ratelimit.Limiter

	chartMonths int
	trendPoints int

	// chart data caches, purged whenever the store changes
	flowCache  *cache.LRUCache[[]core.MonthFlow]
	catCache   *cache.LRUCache[[]core.CategoryAmount]
	trendCache *cache.LRUCache[[]core.BalancePoint]
	cacheMgr   *cache.Manager

	changes      <-chan struct{}
	stopWatch    chan struct{}
	watchDone    chan struct{}
	shutdownOnce sync.Once
}

// NewServer wires routes, middleware and chart caches around the store.
func NewServer(addr string, st *store.Store, opts Options) *Server {
	if opts.ChartMonths <= 0 {
		opts.ChartMonths = 6
	}
	if opts.TrendPoints < 0 {
		opts.TrendPoints = 30
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	mux := http.NewServeMux()
	s := &Server{
		store:       st,
		uploadDir:   opts.UploadDir,
		limiter:     ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		chartMonths: opts.ChartMonths,
		trendPoints: opts.TrendPoints,
		flowCache:   cache.NewLRUCache[[]core.MonthFlow](16, opts.CacheTTL),
		catCache:    cache.NewLRUCache[[]core.CategoryAmount](16, opts.CacheTTL),
		trendCache:  cache.NewLRUCache[[]core.BalancePoint](16, opts.CacheTTL),
		cacheMgr:    cache.NewManager(),
		changes:     st.Subscribe(),
		stopWatch:   make(chan struct{}),
		watchDone:   make(chan struct{}),
	}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.buildHandler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.cacheMgr.Register(s.flowCache)
	s.cacheMgr.Register(s.catCache)
	s.cacheMgr.Register(s.trendCache)
	s.cacheMgr.StartCleanup(10 * time.Minute)

	// Any store change invalidates derived chart data.
	go s.watchChanges()

	mux.HandleFunc("GET /api/account", s.handleAccount)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PATCH /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("POST /api/transactions/{id}/attachments", s.handleUploadAttachment)
	mux.HandleFunc("POST /api/filters/reset", s.handleResetFilters)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /api/charts/monthly-balance", s.handleMonthlyBalance)
	mux.HandleFunc("GET /api/charts/expenses-by-category", s.handleExpensesByCategory)
	mux.HandleFunc("GET /api/charts/balance-trend", s.handleBalanceTrend)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	if s.uploadDir != "" {
		files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadDir)))
		mux.Handle("GET /uploads/", security.StaticAssetMiddleware(3600)(files))
	}

	return s
}

func (s *Server) buildHandler(mux *http.ServeMux) http.Handler {
	var h http.Handler = mux
	h = s.withRateLimit(h)
	h = security.Middleware(security.DefaultHeadersConfig())(h)
	h = trace.Middleware(h)
	return h
}

// withRateLimit throttles mutating methods per client IP.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPatch, http.MethodDelete:
			if !s.limiter.Allow(trace.ClientIP(r)) {
				w.Header().Set("Retry-After", "60")
				writeJSONError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests, slow down")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) watchChanges() {
	defer close(s.watchDone)
	for {
		select {
		case <-s.changes:
			s.flowCache.Purge()
			s.catCache.Purge()
			s.trendCache.Purge()
		case <-s.stopWatch:
			return
		}
	}
}

// ListenAndServe starts serving on the configured address; it blocks until
// the server stops.
func (s *Server) ListenAndServe() error {
	return s.httpSrv.ListenAndServe()
}

// Handler exposes the fully wired handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Shutdown stops the watcher, sweeper and rate limiter, then drains the HTTP
// server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.stopWatch)
		<-s.watchDone
		s.store.Unsubscribe(s.changes)
		s.cacheMgr.Stop()
		s.limiter.Stop()
		err = s.httpSrv.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
