package service

import (
	"context"
	"fmt"
	"time"

	"github.com/zhaxal/ringi-task/internal/models"
	"github.com/zhaxal/ringi-task/internal/push"
	"github.com/zhaxal/ringi-task/internal/redisclient"
	"github.com/zhaxal/ringi-task/internal/store"
	"github.com/zhaxal/ringi-task/internal/util"

	"go.uber.org/zap"
)

// NotificationService fans a committed order out to every registered seller
// device. It runs after the order transaction and outside of it; nothing here
// can change an order's outcome.
type NotificationService struct {
	store      *store.Store
	redis      *redisclient.Client
	pushClient *push.Client
	logger     *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(st *store.Store, redis *redisclient.Client, pushClient *push.Client) *NotificationService {
	return &NotificationService{
		store:      st,
		redis:      redis,
		pushClient: pushClient,
		logger:     util.GetLogger(),
	}
}

// HandleOrderPlaced processes one OrderPlaced event. The returned error only
// covers the dedup bookkeeping, so the broker redelivers a message whose
// processing state is unknown; dispatch failures themselves are swallowed.
func (ns *NotificationService) HandleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	ctx, span := util.StartSpan(ctx, "NotificationService.HandleOrderPlaced")
	defer span.End()

	processed, err := ns.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		ns.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	ns.DispatchNewOrder(ctx, event.OrderID, event.TotalPrice.String())

	if err := ns.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}

// DispatchNewOrder delivers a "new order" notification to every seller
// device, each independently. It never reports failure to the caller.
func (ns *NotificationService) DispatchNewOrder(ctx context.Context, orderID int64, totalPrice string) {
	accessToken, err := ns.credential(ctx)
	if err != nil {
		util.NotificationsFailedTotal.WithLabelValues("credential").Inc()
		ns.logger.Error("Failed to acquire push credential, skipping dispatch",
			zap.Int64("order_id", orderID),
			zap.Error(err))
		return
	}

	tokens, err := ns.store.GetSellerPushTokens(ctx)
	if err != nil {
		util.NotificationsFailedTotal.WithLabelValues("recipients").Inc()
		ns.logger.Error("Failed to load seller push tokens",
			zap.Int64("order_id", orderID),
			zap.Error(err))
		return
	}

	notif := push.Notification{
		Title: "New order",
		Body:  fmt.Sprintf("Order #%d placed, total %s", orderID, totalPrice),
	}

	for _, token := range tokens {
		if err := ns.pushClient.Send(ctx, accessToken, token, notif); err != nil {
			util.NotificationsFailedTotal.WithLabelValues("delivery").Inc()
			ns.logger.Warn("Failed to deliver push notification",
				zap.Int64("order_id", orderID),
				zap.Error(err))
			continue
		}
		util.NotificationsSentTotal.Inc()
	}

	ns.logger.Info("Order notification dispatch finished",
		zap.Int64("order_id", orderID),
		zap.Int("recipients", len(tokens)))
}

// credential returns the cached gateway access token, exchanging a fresh one
// when the cache is empty or unavailable
func (ns *NotificationService) credential(ctx context.Context) (string, error) {
	cached, err := ns.redis.GetPushCredential(ctx)
	if err != nil {
		ns.logger.Warn("Push credential cache unavailable", zap.Error(err))
	}
	if cached != "" {
		return cached, nil
	}

	token, expiresIn, err := ns.pushClient.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	// Expire the cache entry ahead of the token itself so a cached credential
	// is never already dead when used.
	ttl := expiresIn - time.Minute
	if ttl > 0 {
		if err := ns.redis.SetPushCredential(ctx, token, ttl); err != nil {
			ns.logger.Warn("Failed to cache push credential", zap.Error(err))
		}
	}

	return token, nil
}
