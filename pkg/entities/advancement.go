package entities

// Advancement ids tracked by the game loop
const (
	AdvancementGamesPlayed = "games_played"
	AdvancementCoinsWon    = "coins_won"
)

// Advancement goals
const (
	GamesPlayedGoal int64 = 1_000
	CoinsWonGoal    int64 = 10_000_000
)

type Advancement struct {
	ID       string `json:"id"`
	Value    int64  `json:"value"`
	Unlocked bool   `json:"unlocked"`
}

// Advancements is an ordered list keyed by id
type Advancements []Advancement

func (a Advancements) Find(id string) (Advancement, bool) {
	for _, adv := range a {
		if adv.ID == id {
			return adv, true
		}
	}
	return Advancement{}, false
}

// Progress adds delta to the advancement and unlocks it once goal is reached.
// It reports whether this call unlocked it.
func (a *Advancements) Progress(id string, delta, goal int64) bool {
	for i := range *a {
		adv := &(*a)[i]
		if adv.ID != id {
			continue
		}
		adv.Value += delta
		if !adv.Unlocked && adv.Value >= goal {
			adv.Unlocked = true
			return true
		}
		return false
	}
	adv := Advancement{ID: id, Value: delta, Unlocked: delta >= goal}
	*a = append(*a, adv)
	return adv.Unlocked
}
