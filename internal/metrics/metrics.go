// Package metrics counts chat session activity in Prometheus form. A
// Collector is fed session events through the session's listener hook and can
// be served over HTTP by the repl.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chatsim/internal/session"
)

const namespace = "chatsim"

// Collector turns session events into metrics. It is not safe for concurrent
// Observe calls; feed it from the goroutine that owns the session.
type Collector struct {
	messages     *prometheus.CounterVec
	reactions    *prometheus.CounterVec
	pickerOpens  prometheus.Counter
	typing       prometheus.Gauge
	keyboard     prometheus.Gauge
	replyLatency prometheus.Histogram

	// Send times of user messages still waiting for a reply, oldest first.
	awaiting []time.Time
}

// New creates a collector and registers it with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Messages appended to the chat, by sender.",
		}, []string{"sender"}),
		reactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reactions_total",
			Help:      "Reactions applied, by symbol.",
		}, []string{"symbol"}),
		pickerOpens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picker_opens_total",
			Help:      "Times the reaction picker was opened.",
		}),
		typing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bot_typing",
			Help:      "1 while the bot typing indicator is shown.",
		}),
		keyboard: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "keyboard_height",
			Help:      "Reported keyboard height, 0 when hidden.",
		}),
		replyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reply_latency_seconds",
			Help:      "Time from a user message to the bot reply that answers it.",
			Buckets:   []float64{0.25, 0.5, 1, 1.3, 2, 5, 10},
		}),
	}
	reg.MustRegister(c.messages, c.reactions, c.pickerOpens, c.typing, c.keyboard, c.replyLatency)
	return c
}

// Observe records one session event.
func (c *Collector) Observe(ev session.Event) {
	switch ev.Kind {
	case session.EventMessageAppended:
		c.messages.WithLabelValues(string(ev.Message.Sender)).Inc()
		if ev.Message.Sender == session.SenderUser {
			c.awaiting = append(c.awaiting, ev.Message.SentAt)
		} else if len(c.awaiting) > 0 {
			// Replies land in submission order.
			c.replyLatency.Observe(ev.Message.SentAt.Sub(c.awaiting[0]).Seconds())
			c.awaiting = c.awaiting[1:]
		}
	case session.EventReactionApplied:
		c.reactions.WithLabelValues(string(ev.Reaction)).Inc()
	case session.EventPickerChanged:
		if ev.Picker.IsOpen() && !ev.Picker.Closing {
			c.pickerOpens.Inc()
		}
	case session.EventTypingChanged:
		if ev.Typing {
			c.typing.Set(1)
		} else {
			c.typing.Set(0)
		}
	case session.EventKeyboardChanged:
		c.keyboard.Set(float64(ev.Keyboard.Height))
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
