package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		telegramUpdatesTotal,
		telegramCommandsReceivedTotal,
		telegramNotificationsTotal,
	)
}

var (
	telegramUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_updates_total",
			Help: "Webhook deliveries by outcome (handled, ignored, unauthorized, duplicate, failed).",
		},
		[]string{"outcome"},
	)

	telegramCommandsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_commands_received_total",
			Help: "Admin bot commands by name.",
		},
		[]string{"command"},
	)

	telegramNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_notifications_total",
			Help: "Outbound notifications by delivery status (sent, skipped, failed).",
		},
		[]string{"status"},
	)
)

func IncTelegramUpdate(outcome string) {
	telegramUpdatesTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncTelegramCommand(command string) {
	telegramCommandsReceivedTotal.WithLabelValues(norm(command)).Inc()
}

func IncNotification(status string) {
	telegramNotificationsTotal.WithLabelValues(norm(status)).Inc()
}
