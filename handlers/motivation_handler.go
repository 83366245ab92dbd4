package handlers

import (
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var motivationalQuotes = []string{
	"The best way to predict the future is to create it.",
	"Success is not the key to happiness. Happiness is the key to success.",
	"The only limit to our realization of tomorrow is our doubts of today.",
	"Don't watch the clock; do what it does. Keep going.",
	"Success usually comes to those who are too busy to be looking for it.",
	"The future belongs to those who believe in the beauty of their dreams.",
	"It always seems impossible until it's done.",
	"The harder the conflict, the greater the triumph.",
	"Do something today that your future self will thank you for.",
	"It does not matter how slowly you go as long as you do not stop.",
	"Dream big and dare to fail.",
	"Act as if what you do makes a difference. It does.",
	"Believe you can and you're halfway there.",
	"Your time is limited, don't waste it living someone else's life.",
	"You are never too old to set another goal or to dream a new dream.",
	"Strive not to be a success, but rather to be of value.",
	"Hardships often prepare ordinary people for an extraordinary destiny.",
}

const quoteInterval = 5 * time.Minute

type MotivationHandler struct {
	upgrader websocket.Upgrader
}

func NewMotivationHandler() *MotivationHandler {
	return &MotivationHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeMotivation streams a random motivational quote to the client every
// five minutes until the connection drops.
func (h *MotivationHandler) ServeMotivation(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade motivation websocket: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(quoteInterval)
	defer ticker.Stop()

	for {
		quote := motivationalQuotes[rand.Intn(len(motivationalQuotes))]
		if err := conn.WriteMessage(websocket.TextMessage, []byte(quote)); err != nil {
			log.Printf("Motivation websocket closed: %v", err)
			return
		}

		select {
		case <-ticker.C:
		case <-r.Context().Done():
			return
		}
	}
}
