package kds

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/foodiehub/models"
	"github.com/yeremiapane/foodiehub/utils"
)

// Event types
const (
	EventOrderCreated  = "order_created"
	EventOrderUpdate   = "order_update"
	EventOrderDeleted  = "order_deleted"
	EventCheckoutPlace = "checkout_placed"
	EventMenuUpdate    = "menu_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// KDSHub holds the admin/staff dashboards listening for live order events.
type KDSHub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var kdsHub = KDSHub{
	clients: make(map[*websocket.Conn]string),
}

func RegisterClient(conn *websocket.Conn, role string) {
	kdsHub.mutex.Lock()
	defer kdsHub.mutex.Unlock()
	kdsHub.clients[conn] = role
}

func UnregisterClient(conn *websocket.Conn) {
	kdsHub.mutex.Lock()
	defer kdsHub.mutex.Unlock()
	delete(kdsHub.clients, conn)
	conn.Close()
}

// ClientCount is the number of connected dashboards.
func ClientCount() int {
	kdsHub.mutex.Lock()
	defer kdsHub.mutex.Unlock()
	return len(kdsHub.clients)
}

func BroadcastOrderCreated(order models.Order) {
	broadcast(Message{Event: EventOrderCreated, Data: order})
}

func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{Event: EventOrderUpdate, Data: order})
}

func BroadcastOrderDeleted(id uint) {
	broadcast(Message{Event: EventOrderDeleted, Data: map[string]uint{"id": id}})
}

// BroadcastCheckout announces a whole storefront checkout (all of its lines).
func BroadcastCheckout(data interface{}) {
	broadcast(Message{Event: EventCheckoutPlace, Data: data})
}

func BroadcastMenuUpdate(item models.MenuItem) {
	broadcast(Message{Event: EventMenuUpdate, Data: item})
}

func broadcast(msg Message) {
	kdsHub.mutex.Lock()
	defer kdsHub.mutex.Unlock()

	if len(kdsHub.clients) == 0 {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("kds: marshal %s: %v", msg.Event, err)
		return
	}

	for conn, role := range kdsHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("kds: send %s to %s client: %v", msg.Event, role, err)
			continue
		}
	}
	utils.InfoLogger.Printf("kds: %s sent to %d clients", msg.Event, len(kdsHub.clients))
}
