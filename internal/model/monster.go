package model

// Sentinel values used when a field cannot be resolved.
const (
	OwnerNotFound = "no owner found"
	OwnerUnknown  = "unknown owner"
	UnknownName   = "Unknown"
)

// MonsterDetails is the merged view of one monster, built fresh per request.
type MonsterDetails struct {
	Owner    string      `json:"owner"`
	MetaData MonsterMeta `json:"meta_data"`
	Alive    bool        `json:"alive"`
}

// MonsterMeta holds the monsters map entry. ID always comes from the caller.
type MonsterMeta struct {
	ID          uint64 `json:"id"`
	Image       int64  `json:"image"`
	LastMeal    int64  `json:"last_meal"`
	Name        string `json:"name"`
	DateOfBirth int64  `json:"date_of_birth"`
}

// DefaultMonsterMeta is the metadata used when the map entry is absent or malformed.
func DefaultMonsterMeta(id uint64) MonsterMeta {
	return MonsterMeta{
		ID:   id,
		Name: UnknownName,
	}
}
