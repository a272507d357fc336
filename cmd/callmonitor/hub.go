package main

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Hub fans events out to WebSocket connections. Only run touches clients.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan Event
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan Event, 100),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

// Broadcast queues ev for every client.
func (h *Hub) Broadcast(ev Event) {
	h.broadcast <- ev
}

func (h *Hub) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for conn := range h.clients {
				conn.Close()
			}
			return

		case conn := <-h.register:
			h.clients[conn] = true
			log.Info().Int("clients", len(h.clients)).Msg("Client connected")

		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			log.Info().Int("clients", len(h.clients)).Msg("Client disconnected")

		case ev := <-h.broadcast:
			for conn := range h.clients {
				if err := conn.WriteJSON(ev); err != nil {
					log.Warn().Err(err).Msg("Write error")
					conn.Close()
					delete(h.clients, conn)
				}
			}
		}
	}
}
