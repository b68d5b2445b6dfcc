package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ecomart/ecomart/internal/auth"
	"github.com/ecomart/ecomart/internal/catalog"
	"github.com/ecomart/ecomart/internal/engine"
	"github.com/ecomart/ecomart/internal/expiry"
	"github.com/ecomart/ecomart/internal/handler"
	"github.com/ecomart/ecomart/internal/middleware"
	"github.com/ecomart/ecomart/internal/store"
	ws "github.com/ecomart/ecomart/internal/websocket"
)

// Config carries the server's tunables.
type Config struct {
	DemoOTPCode   string
	SecureCookies bool
}

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	engine       *engine.Engine
	watcher      *expiry.Watcher
	sessionStore *store.SessionStore
	otpStore     *store.OTPStore
	rateLimiter  *middleware.RateLimiter

	catalogH      *handler.CatalogHandler
	cartH         *handler.CartHandler
	checkoutH     *handler.CheckoutHandler
	tradeInH      *handler.TradeInHandler
	authH         *handler.AuthHandler
	notificationH *handler.NotificationHandler
	rewardH       *handler.RewardHandler

	logger *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	otpStore := store.NewOTPStore(db)
	orderStore := store.NewOrderStore(db)
	tradeInStore := store.NewTradeInStore(db)

	otpService := auth.NewOTPService(cfg.DemoOTPCode, logger.With("component", "otp"))

	eng := engine.New(engine.Config{
		Users:       userStore,
		Sessions:    sessionStore,
		OTPs:        otpStore,
		Orders:      orderStore,
		TradeIns:    tradeInStore,
		OTP:         otpService,
		Broadcaster: hub,
		Logger:      logger.With("component", "engine"),
	})

	sampler := expiry.NewRandSampler(time.Now().UnixNano())
	watcher := expiry.NewWatcher(eng.Center(), eng.ExpiringItems, sampler, logger.With("component", "expiry"))
	classifier := catalog.NewClassifier(sampler, logger.With("component", "classifier"))

	return &Server{
		db:            db,
		hub:           hub,
		engine:        eng,
		watcher:       watcher,
		sessionStore:  sessionStore,
		otpStore:      otpStore,
		rateLimiter:   middleware.NewRateLimiter(),
		catalogH:      handler.NewCatalogHandler(eng, classifier, logger.With("component", "catalog")),
		cartH:         handler.NewCartHandler(eng, logger.With("component", "cart")),
		checkoutH:     handler.NewCheckoutHandler(eng, orderStore, logger.With("component", "checkout")),
		tradeInH:      handler.NewTradeInHandler(eng, tradeInStore, logger.With("component", "tradein")),
		authH:         handler.NewAuthHandler(eng, userStore, cfg.SecureCookies, logger.With("component", "auth")),
		notificationH: handler.NewNotificationHandler(eng, logger.With("component", "notification")),
		rewardH:       handler.NewRewardHandler(eng, logger.With("component", "reward")),
		logger:        logger,
	}
}

// Start launches the expiry watcher.
func (s *Server) Start(ctx context.Context) {
	s.watcher.Start(ctx)
}

// Stop shuts the watcher down and waits for its loop to exit.
func (s *Server) Stop() {
	s.watcher.Stop()
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// OTPStore returns the OTP store for cleanup tasks.
func (s *Server) OTPStore() *store.OTPStore {
	return s.otpStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no session required)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	outerMux.HandleFunc("GET /api/products", s.catalogH.Products)
	outerMux.HandleFunc("GET /api/expiring", s.catalogH.ExpiringItems)
	outerMux.HandleFunc("GET /api/recycling/categories", s.catalogH.RecyclingCategories)
	outerMux.HandleFunc("POST /api/recycling/classify", s.catalogH.Classify)
	outerMux.HandleFunc("POST /api/recycling/confirm", s.catalogH.ConfirmRecycling)

	// The cart, the feed, and trade-ins work without a login, as in the
	// storefront.
	outerMux.HandleFunc("GET /api/cart", s.cartH.Get)
	outerMux.HandleFunc("POST /api/cart/items", s.cartH.AddItem)
	outerMux.HandleFunc("PUT /api/cart/items/{id}", s.cartH.UpdateItem)
	outerMux.HandleFunc("DELETE /api/cart/items/{id}", s.cartH.RemoveItem)
	outerMux.HandleFunc("POST /api/cart/eco-delivery", s.cartH.ChooseEcoDelivery)

	outerMux.HandleFunc("GET /api/notifications", s.notificationH.List)
	outerMux.HandleFunc("POST /api/notifications/{id}/read", s.notificationH.MarkRead)
	outerMux.HandleFunc("POST /api/notifications/{id}/dispatch", s.notificationH.Dispatch)
	outerMux.HandleFunc("GET /api/toast", s.notificationH.Toast)
	outerMux.HandleFunc("DELETE /api/toast", s.notificationH.DismissToast)

	outerMux.HandleFunc("GET /api/rewards", s.rewardH.State)

	outerMux.HandleFunc("GET /api/trade-in/catalog", s.tradeInH.Catalog)
	outerMux.HandleFunc("POST /api/trade-in", s.tradeInH.Begin)
	outerMux.HandleFunc("GET /api/trade-in", s.tradeInH.State)
	outerMux.HandleFunc("POST /api/trade-in/next", s.tradeInH.Next)
	outerMux.HandleFunc("POST /api/trade-in/back", s.tradeInH.Back)
	outerMux.HandleFunc("PUT /api/trade-in/details", s.tradeInH.SetDetails)
	outerMux.HandleFunc("POST /api/trade-in/complete", s.tradeInH.Complete)

	// Login flow; OTP dispatch is rate-limited per client IP.
	outerMux.HandleFunc("POST /api/auth/phone", s.rateLimitedHandler(s.authH.SubmitPhone))
	outerMux.HandleFunc("POST /api/auth/otp", s.authH.SubmitOTP)
	outerMux.HandleFunc("POST /api/auth/back", s.authH.Back)
	outerMux.HandleFunc("POST /api/auth/profile", s.authH.CompleteProfile)

	// Session-protected routes
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /api/auth/me", s.authH.Me)
	protectedMux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	protectedMux.HandleFunc("POST /api/checkout", s.checkoutH.Begin)
	protectedMux.HandleFunc("GET /api/checkout", s.checkoutH.State)
	protectedMux.HandleFunc("POST /api/checkout/next", s.checkoutH.Next)
	protectedMux.HandleFunc("POST /api/checkout/back", s.checkoutH.Back)
	protectedMux.HandleFunc("PUT /api/checkout/delivery", s.checkoutH.SetDelivery)
	protectedMux.HandleFunc("PUT /api/checkout/customer", s.checkoutH.SetCustomerInfo)
	protectedMux.HandleFunc("PUT /api/checkout/payment", s.checkoutH.SetPaymentInfo)
	protectedMux.HandleFunc("POST /api/checkout/submit", s.checkoutH.Submit)
	protectedMux.HandleFunc("GET /api/orders", s.checkoutH.ListOrders)
	protectedMux.HandleFunc("GET /api/trade-ins", s.tradeInH.List)

	sessionMiddleware := middleware.RequireSession(s.sessionStore)
	outerMux.Handle("/", sessionMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
