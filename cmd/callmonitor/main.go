// Command callmonitor shows conversation turns and appointment events live
// in a browser. It consumes the agent's Kafka topics and pushes every event
// to connected WebSocket clients.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"hospital-voice-agent/internal/observability/logging"
)

type options struct {
	Port           string        `short:"p" long:"port" default:"8081" description:"HTTP server port"`
	Brokers        string        `short:"b" long:"brokers" default:"localhost:9092" description:"Kafka brokers (comma-separated)"`
	TopicTurns     string        `long:"topic-turns" default:"appointment.conversation.turn" description:"conversation turn topic"`
	TopicLifecycle string        `long:"topic-lifecycle" default:"appointment.lifecycle" description:"appointment lifecycle topic"`
	Since          time.Duration `long:"since" default:"1h" description:"replay events newer than this"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}
	logcfg := logging.DefaultConfig()
	logcfg.Format = "console"
	logging.Init(logcfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := newHub()
	go hub.run(ctx)

	brokers := strings.Split(opts.Brokers, ",")
	go consume(ctx, hub, brokers, opts.TopicTurns, opts.Since)
	go consume(ctx, hub, brokers, opts.TopicLifecycle, opts.Since)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	})
	mux.HandleFunc("/ws", wsHandler(hub))

	srv := &http.Server{Addr: ":" + opts.Port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", "http://localhost:"+opts.Port).
		Strs("brokers", brokers).
		Strs("topics", []string{opts.TopicTurns, opts.TopicLifecycle}).
		Msg("Call monitor starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server error")
	}
}

// consume reads one topic and broadcasts every message. Partition 0 only,
// without a consumer group, so it works through a port-forward.
func consume(ctx context.Context, hub *Hub, brokers []string, topic string, since time.Duration) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer reader.Close()

	if err := reader.SetOffsetAt(ctx, time.Now().Add(-since)); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("Failed to seek, reading from the start")
	}
	log.Info().Str("topic", topic).Msg("Consuming")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Str("topic", topic).Msg("Kafka read error")
			time.Sleep(time.Second)
			continue
		}
		ev, err := decodeEvent(topic, msg.Value)
		if err != nil {
			log.Warn().Err(err).Str("topic", topic).Msg("Skipping malformed event")
			continue
		}
		log.Debug().Str("type", ev.EventType).Str("sessionId", ev.SessionID).Msg("Event received")
		hub.Broadcast(ev)
	}
}

// Event is what the browser receives: the original payload plus routing fields.
type Event struct {
	Topic     string          `json:"topic"`
	EventType string          `json:"eventType"`
	SessionID string          `json:"sessionId"`
	Payload   json.RawMessage `json:"payload"`
}

func decodeEvent(topic string, raw []byte) (Event, error) {
	var head struct {
		EventType string `json:"eventType"`
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return Event{}, err
	}
	return Event{Topic: topic, EventType: head.EventType, SessionID: head.SessionID, Payload: raw}, nil
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev
	},
}

func wsHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("WebSocket upgrade error")
			return
		}
		hub.register <- conn

		// Keep connection alive, handle disconnects
		go func() {
			defer func() { hub.unregister <- conn }()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
