package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
)

type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]*PresencePayload // userID -> presence
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]*PresencePayload),
	}
}

func (pm *PresenceManager) Update(userID string, p *PresencePayload) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.presences[userID] = p
}

func (pm *PresenceManager) Remove(userID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.presences, userID)
}

// StateMessage packages the room's current presences for a client that
// just joined. It returns nil when nobody has reported presence yet.
func (pm *PresenceManager) StateMessage() *Message {
	pm.mu.RLock()
	if len(pm.presences) == 0 {
		pm.mu.RUnlock()
		return nil
	}
	all := make(map[string]*PresencePayload, len(pm.presences))
	for k, v := range pm.presences {
		all[k] = v
	}
	pm.mu.RUnlock()

	payload, err := json.Marshal(PresenceStatePayload{Presences: all})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
