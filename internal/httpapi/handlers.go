package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/saverioc/quaranta-backend/internal/hub"
	"github.com/saverioc/quaranta-backend/internal/types"
)

// ListRooms snapshots the registry for the room-list UI. The same data
// rides the roomListUpdate event over the socket.
func ListRooms(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []types.RoomInfo, 1)
		h.Inbox() <- hub.ListRooms{Reply: reply}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Rooms []types.RoomInfo `json:"rooms"`
		}{Rooms: <-reply})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
