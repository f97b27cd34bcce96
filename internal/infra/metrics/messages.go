package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(messagesAppendedTotal, validationRejectedTotal) }

var (
	messagesAppendedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_messages_appended_total",
			Help: "Messages written to the support log, by sender role.",
		},
		[]string{"sender"},
	)

	validationRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "support_validation_rejected_total",
			Help: "Append attempts rejected because the text was empty.",
		},
	)
)

func IncMessageAppended(sender string) {
	messagesAppendedTotal.WithLabelValues(norm(sender)).Inc()
}

func IncValidationRejected() {
	validationRejectedTotal.Inc()
}
