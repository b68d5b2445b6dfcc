// Package engine composes the storefront state machine: cart, reward
// ledger, notification center, and the active checkout, trade-in, and
// login sessions. Every mutation runs to completion under one mutex, so
// the core packages stay free of their own locking.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ecomart/ecomart/internal/auth"
	"github.com/ecomart/ecomart/internal/cart"
	"github.com/ecomart/ecomart/internal/catalog"
	"github.com/ecomart/ecomart/internal/checkout"
	"github.com/ecomart/ecomart/internal/model"
	"github.com/ecomart/ecomart/internal/notify"
	"github.com/ecomart/ecomart/internal/reward"
	"github.com/ecomart/ecomart/internal/store"
	"github.com/ecomart/ecomart/internal/tradein"
	"github.com/ecomart/ecomart/internal/websocket"
)

const (
	// InitialBalance is the green points balance a fresh session starts with.
	InitialBalance = 150

	// EcoDeliveryPromoPoints is the incentive for opting into grouped
	// eco delivery from the cart, before any checkout begins.
	EcoDeliveryPromoPoints = 25

	coinEventDuration  = 3 * time.Second
	badgeModalDuration = 4 * time.Second
	ecoFollowupDelay   = 2 * time.Second
)

var (
	ErrUnknownProduct = errors.New("engine: unknown product")
	ErrEmptyCart      = errors.New("engine: cart is empty")
	ErrNoCheckout     = errors.New("engine: no checkout in progress")
	ErrNoTradeIn      = errors.New("engine: no trade-in in progress")
)

// Broadcaster publishes events to connected storefront clients. The
// WebSocket hub implements it; tests substitute a recorder.
type Broadcaster interface {
	Broadcast(event websocket.Event)
}

// Config carries the engine's collaborators.
type Config struct {
	Users       *store.UserStore
	Sessions    *store.SessionStore
	OTPs        *store.OTPStore
	Orders      *store.OrderStore
	TradeIns    *store.TradeInStore
	OTP         *auth.OTPService
	Broadcaster Broadcaster
	Timer       notify.TimerFunc
	Logger      *slog.Logger
}

// Engine is the storefront session and reward state machine.
type Engine struct {
	mu     sync.Mutex
	logger *slog.Logger

	cart   *cart.Store
	ledger *reward.Ledger
	center *notify.Center

	checkout *checkout.Wizard
	tradeIn  *tradein.Wizard
	login    *auth.Flow

	users    *store.UserStore
	sessions *store.SessionStore
	otps     *store.OTPStore
	orders   *store.OrderStore
	tradeIns *store.TradeInStore
	otp      *auth.OTPService

	broadcaster Broadcaster
	timer       notify.TimerFunc
	now         func() time.Time

	cancelCoin  func()
	cancelBadge func()
}

// New builds an engine with the default catalogs and starting balance.
func New(cfg Config) *Engine {
	timer := cfg.Timer
	if timer == nil {
		timer = notify.RealTimer
	}
	e := &Engine{
		logger:      cfg.Logger,
		cart:        cart.NewStore(),
		users:       cfg.Users,
		sessions:    cfg.Sessions,
		otps:        cfg.OTPs,
		orders:      cfg.Orders,
		tradeIns:    cfg.TradeIns,
		otp:         cfg.OTP,
		broadcaster: cfg.Broadcaster,
		timer:       timer,
		now:         time.Now,
	}
	e.ledger = reward.NewLedger(InitialBalance, reward.DefaultBadges(), reward.DefaultGoals(), reward.DefaultGoalBadges(), reward.Hooks{
		OnCoin:          e.onCoin,
		OnBadge:         e.onBadge,
		OnGoalCompleted: e.onGoalCompleted,
	})
	e.center = notify.NewCenter(timer, notify.Hooks{
		OnPush:  e.onNotification,
		OnToast: e.onToast,
	})
	e.center.Seed(notify.DefaultFeed())
	return e
}

// Center exposes the notification center, used by the expiry watcher.
func (e *Engine) Center() *notify.Center {
	return e.center
}

// ExpiringItems feeds the expiry watcher.
func (e *Engine) ExpiringItems() []model.ExpiringItem {
	return catalog.DefaultExpiringItems()
}

func (e *Engine) broadcast(event websocket.Event) {
	if e.broadcaster != nil {
		e.broadcaster.Broadcast(event)
	}
}

// Ledger hooks. These fire while the engine mutex is held; they only
// schedule timers and publish events.

func (e *Engine) onCoin(points int) {
	if e.cancelCoin != nil {
		e.cancelCoin()
	}
	e.broadcast(websocket.NewEvent(websocket.EventCoinEvent, map[string]any{"points": points}))
	e.cancelCoin = e.timer(coinEventDuration, func() {
		e.broadcast(websocket.NewEvent(websocket.EventCoinEvent, nil))
	})
}

func (e *Engine) onBadge(badge model.Badge) {
	if e.cancelBadge != nil {
		e.cancelBadge()
	}
	e.broadcast(websocket.NewEvent(websocket.EventBadgeModal, badge))
	e.cancelBadge = e.timer(badgeModalDuration, func() {
		e.broadcast(websocket.NewEvent(websocket.EventBadgeModal, nil))
	})
}

func (e *Engine) onGoalCompleted(goal model.Goal) {
	e.center.ShowToast(model.Toast{
		Type:    model.ToastSuccess,
		Title:   "Goal Completed! 🎉",
		Message: fmt.Sprintf("You've completed the %s goal!", goal.Title),
	})
}

func (e *Engine) onNotification(n model.Notification) {
	e.broadcast(websocket.NewEvent(websocket.EventNotification, n))
}

func (e *Engine) onToast(t *model.Toast) {
	if t == nil {
		e.broadcast(websocket.NewEvent(websocket.EventToast, nil))
		return
	}
	e.broadcast(websocket.NewEvent(websocket.EventToast, *t))
}

func (e *Engine) broadcastCart() {
	e.broadcast(websocket.NewEvent(websocket.EventCart, map[string]any{
		"lines":  e.cart.Lines(),
		"totals": e.cart.Totals(),
	}))
}

func (e *Engine) broadcastRewards() {
	e.broadcast(websocket.NewEvent(websocket.EventRewards, e.ledger.State()))
}

// Cart operations.

// AddToCart adds one unit of a catalog product to the cart.
func (e *Engine) AddToCart(productID int64, sustainable bool) (model.CartLine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := catalog.ProductByID(productID, sustainable)
	if p == nil {
		return model.CartLine{}, ErrUnknownProduct
	}
	line := e.cart.Add(*p)
	e.center.ShowToast(model.Toast{
		Type:    model.ToastSuccess,
		Title:   "Added to Cart! 🛒",
		Message: fmt.Sprintf("%s has been added to your cart", p.Name),
	})
	e.broadcastCart()
	return line, nil
}

// UpdateCartQuantity sets a line's quantity; zero removes the line.
func (e *Engine) UpdateCartQuantity(productID int64, quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity == 0 {
		e.removeLocked(productID)
		return nil
	}
	if err := e.cart.UpdateQuantity(productID, quantity); err != nil {
		return err
	}
	e.broadcastCart()
	return nil
}

// RemoveFromCart deletes a line. Removing an absent line is a no-op but
// still raises the removal toast, matching the storefront behavior.
func (e *Engine) RemoveFromCart(productID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(productID)
}

func (e *Engine) removeLocked(productID int64) {
	e.cart.Remove(productID)
	e.center.ShowToast(model.Toast{
		Type:    model.ToastInfo,
		Title:   "Item Removed",
		Message: "Item has been removed from your cart",
	})
	e.broadcastCart()
}

// Cart returns the current lines and derived totals.
func (e *Engine) Cart() ([]model.CartLine, model.CartTotals) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Lines(), e.cart.Totals()
}

// Checkout operations.

// BeginCheckout opens a checkout wizard. An empty cart is rejected here;
// the wizard itself never sees one.
func (e *Engine) BeginCheckout() (checkout.Step, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cart.Len() == 0 {
		e.center.ShowToast(model.Toast{
			Type:    model.ToastWarning,
			Title:   "Cart is Empty",
			Message: "Add some items to your cart before checking out",
		})
		return "", ErrEmptyCart
	}
	e.checkout = checkout.NewWizard()
	return e.checkout.Step(), nil
}

// CheckoutStep reports the active wizard's step.
func (e *Engine) CheckoutStep() (checkout.Step, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.checkout == nil {
		return "", ErrNoCheckout
	}
	return e.checkout.Step(), nil
}

// CheckoutNext advances the wizard one step.
func (e *Engine) CheckoutNext() (checkout.Step, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.checkout == nil {
		return "", ErrNoCheckout
	}
	if err := e.checkout.Next(); err != nil {
		return "", err
	}
	return e.checkout.Step(), nil
}

// CheckoutBack steps the wizard back.
func (e *Engine) CheckoutBack() (checkout.Step, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.checkout == nil {
		return "", ErrNoCheckout
	}
	if err := e.checkout.Back(); err != nil {
		return "", err
	}
	return e.checkout.Step(), nil
}

// SetDelivery selects the delivery option for the active checkout.
func (e *Engine) SetDelivery(option string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.checkout == nil {
		return ErrNoCheckout
	}
	return e.checkout.SetDelivery(option)
}

// SetCustomerInfo records the shipping contact.
func (e *Engine) SetCustomerInfo(info model.CustomerInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.checkout == nil {
		return ErrNoCheckout
	}
	e.checkout.SetCustomerInfo(info)
	return nil
}

// SetPaymentInfo records the payment method for the active checkout.
func (e *Engine) SetPaymentInfo(info model.PaymentInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.checkout == nil {
		return ErrNoCheckout
	}
	e.checkout.SetPaymentInfo(info)
	return nil
}

// CheckoutTotals prices the cart under the active checkout's delivery
// option.
func (e *Engine) CheckoutTotals() (checkout.Totals, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.checkout == nil {
		return checkout.Totals{}, ErrNoCheckout
	}
	return e.checkout.Price(e.cart.Totals().Subtotal), nil
}

// SubmitCheckout finalizes the order for userID: persists it, awards any
// delivery and sustainability points, clears the cart, and closes the
// wizard. Eco delivery schedules a delayed follow-up toast.
func (e *Engine) SubmitCheckout(userID string) (*model.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.checkout == nil {
		return nil, ErrNoCheckout
	}

	order, points, err := e.checkout.Submit(e.cart.Lines(), e.cart.Totals(), e.now())
	if err != nil {
		return nil, err
	}

	saved, err := e.orders.Create(userID, &order)
	if err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if points > 0 {
		if err := e.ledger.Award(points); err != nil {
			return nil, fmt.Errorf("award checkout points: %w", err)
		}
	}

	e.cart.Clear()
	e.checkout = nil

	e.center.ShowToast(model.Toast{
		Type:    model.ToastSuccess,
		Title:   "Order Placed Successfully! 🎉",
		Message: "Your order has been confirmed. You'll receive updates via email.",
	})
	if saved.Delivery == model.DeliveryEco {
		e.timer(ecoFollowupDelay, func() {
			e.center.ShowToast(model.Toast{
				Type:    model.ToastSuccess,
				Title:   "Thank you for choosing eco-delivery! 🌱",
				Message: "You've helped reduce carbon emissions and earned bonus points!",
			})
		})
	}

	e.broadcastCart()
	e.broadcastRewards()
	e.logger.Info("order placed", "order", saved.Number, "total", saved.Total, "points", points)
	return saved, nil
}

// Trade-in operations.

// BeginTradeIn opens a trade-in wizard. Trade-ins do not require a login.
func (e *Engine) BeginTradeIn() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tradeIn = tradein.NewWizard()
	return e.tradeIn.Step()
}

// TradeInStep reports the active wizard's step.
func (e *Engine) TradeInStep() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tradeIn == nil {
		return 0, ErrNoTradeIn
	}
	return e.tradeIn.Step(), nil
}

// TradeInNext advances the wizard past its current step's required fields.
func (e *Engine) TradeInNext() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tradeIn == nil {
		return 0, ErrNoTradeIn
	}
	if err := e.tradeIn.Next(); err != nil {
		return 0, err
	}
	return e.tradeIn.Step(), nil
}

// TradeInBack steps the wizard back.
func (e *Engine) TradeInBack() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tradeIn == nil {
		return 0, ErrNoTradeIn
	}
	if err := e.tradeIn.Back(); err != nil {
		return 0, err
	}
	return e.tradeIn.Step(), nil
}

// SetTradeInDetails applies whichever fields of the active trade-in the
// caller supplies. Empty fields are left untouched.
func (e *Engine) SetTradeInDetails(category, item, reason, condition, description string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tradeIn == nil {
		return ErrNoTradeIn
	}
	if category != "" {
		if err := e.tradeIn.SetCategory(category); err != nil {
			return err
		}
	}
	if item != "" {
		if err := e.tradeIn.SetItem(item); err != nil {
			return err
		}
	}
	if reason != "" {
		if err := e.tradeIn.SetReason(reason); err != nil {
			return err
		}
	}
	if condition != "" {
		if err := e.tradeIn.SetCondition(condition); err != nil {
			return err
		}
	}
	if description != "" {
		e.tradeIn.SetDescription(description)
	}
	return nil
}

// TradeInEstimate returns the current estimated value.
func (e *Engine) TradeInEstimate() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tradeIn == nil {
		return 0, ErrNoTradeIn
	}
	return e.tradeIn.EstimatedValue(), nil
}

// CompleteTradeIn finalizes the trade-in: persists the record (userID may
// be nil for anonymous sessions), awards the points, and advances the
// Trade-in Champion goal.
func (e *Engine) CompleteTradeIn(userID *string) (*model.TradeIn, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tradeIn == nil {
		return nil, ErrNoTradeIn
	}

	record, points, err := e.tradeIn.Complete(e.now())
	if err != nil {
		return nil, err
	}
	record.UserID = userID

	saved, err := e.tradeIns.Create(&record)
	if err != nil {
		return nil, fmt.Errorf("persist trade-in: %w", err)
	}

	if err := e.ledger.Award(points); err != nil {
		return nil, fmt.Errorf("award trade-in points: %w", err)
	}
	e.ledger.AdvanceGoal(reward.GoalTradeInChampion, 1)
	e.tradeIn = nil

	e.center.ShowToast(model.Toast{
		Type:    model.ToastSuccess,
		Title:   "Trade-In Complete! ♻️",
		Message: fmt.Sprintf("Your %s earned you %d Green Points", saved.Item, saved.PointsAwarded),
	})
	e.broadcastRewards()
	e.logger.Info("trade-in completed", "item", saved.Item, "points", saved.PointsAwarded)
	return saved, nil
}

// Login operations. The phases live in an auth.Flow; the engine adds OTP
// dispatch, persistence, and the session cookie record.

// StartLogin opens a fresh login flow, replacing any in-progress one.
func (e *Engine) StartLogin() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.login = auth.NewFlow()
}

// SubmitPhone validates the number and dispatches a verification code.
// The simulated provider delay runs outside the engine lock.
func (e *Engine) SubmitPhone(ctx context.Context, phone string) error {
	e.mu.Lock()
	if e.login == nil {
		e.login = auth.NewFlow()
	}
	flow := e.login
	if err := flow.SubmitPhone(phone); err != nil {
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()

	code, err := e.otp.Send(ctx, flow.Phone())
	if err != nil {
		return err
	}
	if _, err := e.otps.Create(flow.Phone(), code); err != nil {
		return fmt.Errorf("store otp code: %w", err)
	}
	return nil
}

// SubmitOTP verifies the code after the simulated provider latency. A
// wrong code leaves the flow in the OTP phase so it can be retried.
func (e *Engine) SubmitOTP(ctx context.Context, code string) error {
	e.mu.Lock()
	if e.login == nil {
		e.mu.Unlock()
		return auth.ErrWrongPhase
	}
	flow := e.login
	phone := flow.Phone()
	e.mu.Unlock()

	if !auth.ValidOTPFormat(code) {
		return auth.ErrInvalidOTP
	}
	if !e.otp.Verify(ctx, code) {
		return e.finishOTP(flow, code, false)
	}
	verified, err := e.otps.Verify(phone, code)
	if err != nil {
		return fmt.Errorf("verify otp code: %w", err)
	}
	return e.finishOTP(flow, code, verified)
}

func (e *Engine) finishOTP(flow *auth.Flow, code string, verified bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return flow.SubmitOTP(code, verified)
}

// BackToPhone returns an OTP-phase login to the phone phase.
func (e *Engine) BackToPhone() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.login == nil {
		return auth.ErrWrongPhase
	}
	return e.login.BackToPhone()
}

// LoginPhase reports the current login flow phase, or empty when no flow
// is open.
func (e *Engine) LoginPhase() auth.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.login == nil {
		return ""
	}
	return e.login.Phase()
}

// CompleteProfile finishes the login: persists the user, opens a session,
// and raises the welcome toast. The returned session token becomes the
// cookie value.
func (e *Engine) CompleteProfile(name string) (*model.User, *model.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.login == nil {
		return nil, nil, auth.ErrWrongPhase
	}

	user, err := e.login.CompleteProfile(name, e.now())
	if err != nil {
		return nil, nil, err
	}
	saved, err := e.users.Create(user)
	if err != nil {
		return nil, nil, fmt.Errorf("persist user: %w", err)
	}
	session, err := e.sessions.Create(saved.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}
	e.login = nil

	e.center.ShowToast(model.Toast{
		Type:    model.ToastSuccess,
		Title:   "Welcome! 👋",
		Message: fmt.Sprintf("Hello %s, you're now logged in", saved.Name),
	})
	e.logger.Info("user logged in", "user", saved.ID)
	return saved, session, nil
}

// Logout deletes the session and raises the logout toast.
func (e *Engine) Logout(token string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.sessions.DeleteByToken(token); err != nil {
		return err
	}
	e.center.ShowToast(model.Toast{
		Type:    model.ToastInfo,
		Title:   "Logged Out",
		Message: "You have been successfully logged out",
	})
	return nil
}

// Notification operations.

// Notifications returns the feed, newest first.
func (e *Engine) Notifications() []model.Notification {
	return e.center.Feed()
}

// UnreadCount returns the number of unread feed entries.
func (e *Engine) UnreadCount() int {
	return e.center.UnreadCount()
}

// MarkNotificationRead marks a feed entry read.
func (e *Engine) MarkNotificationRead(id string) bool {
	return e.center.MarkRead(id)
}

// DispatchNotification runs a notification's action and publishes the
// resulting view command to connected clients.
func (e *Engine) DispatchNotification(id string) (notify.Command, bool) {
	cmd, ok := e.center.Dispatch(id)
	if ok && cmd != notify.CommandNone {
		e.broadcast(websocket.NewEvent(websocket.EventCommand, map[string]any{"command": cmd.String()}))
	}
	return cmd, ok
}

// ActiveToast returns the live toast, or nil.
func (e *Engine) ActiveToast() *model.Toast {
	return e.center.Toast()
}

// DismissToast clears the live toast immediately.
func (e *Engine) DismissToast() {
	e.center.Dismiss()
}

// Reward operations.

// Rewards returns the green points balance with the badge and goal
// catalogs.
func (e *Engine) Rewards() model.RewardState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.State()
}

// ConfirmRecycling awards the points for a confirmed recycling category
// after classification.
func (e *Engine) ConfirmRecycling(categoryID string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	category := catalog.RecyclingCategoryByID(categoryID)
	if category == nil {
		return 0, fmt.Errorf("engine: unknown recycling category %q", categoryID)
	}
	if err := e.ledger.Award(category.Points); err != nil {
		return 0, err
	}
	e.center.ShowToast(model.Toast{
		Type:    model.ToastSuccess,
		Title:   "Recycling Confirmed! ♻️",
		Message: fmt.Sprintf("You earned %d Green Points for recycling %s", category.Points, category.Name),
	})
	e.broadcastRewards()
	return category.Points, nil
}

// ChooseEcoDelivery awards the cart-stage incentive for picking grouped
// eco delivery over standard shipping.
func (e *Engine) ChooseEcoDelivery() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ledger.Award(EcoDeliveryPromoPoints); err != nil {
		return 0, err
	}
	e.center.ShowToast(model.Toast{
		Type:    model.ToastSuccess,
		Title:   "Eco-Delivery Selected! 🌱",
		Message: fmt.Sprintf("You earned %d Green Points for choosing eco-friendly delivery", EcoDeliveryPromoPoints),
	})
	e.broadcastRewards()
	return EcoDeliveryPromoPoints, nil
}
