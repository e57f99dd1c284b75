package telegram

import (
	"context"
	"strings"

	"github.com/wolfman30/callbridge/internal/observability/metrics"
	"github.com/wolfman30/callbridge/pkg/logging"
)

type messageSender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// Notifier delivers operator notifications to one configured chat. Delivery is best-effort:
// Notify never reports failure and never retries.
type Notifier struct {
	sender  messageSender
	chatID  string
	metrics *metrics.BridgeMetrics
	logger  *logging.Logger
}

func NewNotifier(sender messageSender, chatID string, m *metrics.BridgeMetrics, logger *logging.Logger) *Notifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &Notifier{
		sender:  sender,
		chatID:  strings.TrimSpace(chatID),
		metrics: m,
		logger:  logger,
	}
}

// Notify sends text to the destination chat and discards any transport error.
func (n *Notifier) Notify(ctx context.Context, text string) {
	if n == nil || n.sender == nil {
		return
	}
	if err := n.sender.SendMessage(ctx, n.chatID, text); err != nil {
		n.logger.Warn("telegram notification dropped", "error", err)
		n.metrics.ObserveNotification(false)
		return
	}
	n.metrics.ObserveNotification(true)
}
