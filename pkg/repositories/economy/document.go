package economy

import (
	"encoding/json"
	"fmt"

	"github.com/fadedpez/coinpurse/pkg/entities"
)

// decode unmarshals a stored document on top of a default one so fields
// missing from older documents keep their defaults
func decode(userID string, data []byte) (*entities.PlayerEconomy, error) {
	player := entities.NewPlayerEconomy(userID)
	if err := json.Unmarshal(data, player); err != nil {
		return nil, fmt.Errorf("error decoding player %s: %w", userID, err)
	}
	if player.Games == nil {
		player.Games = make(map[string]entities.GameStats)
	}
	return player, nil
}

func encode(player *entities.PlayerEconomy) ([]byte, error) {
	data, err := json.Marshal(player)
	if err != nil {
		return nil, fmt.Errorf("error encoding player %s: %w", player.UserID, err)
	}
	return data, nil
}
