package monster

import (
	"fmt"

	"monsterScope/internal/clarity"
	"monsterScope/internal/model"
)

// ExtractOwnedIDs returns the distinct encoded ids of the non-fungible events for assetID.
// The result keeps first-seen order.
func ExtractOwnedIDs(events []model.AssetEvent, assetID string) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, event := range events {
		if event.EventType != model.EventTypeNonFungible || event.Asset.AssetID != assetID {
			continue
		}
		hex := event.Asset.Value.Hex
		if _, ok := seen[hex]; ok {
			continue
		}
		seen[hex] = struct{}{}
		ids = append(ids, hex)
	}
	return ids
}

// DecodeIDs converts encoded uint ids into numbers, dropping duplicates that
// differ only in their hex spelling.
func DecodeIDs(hexes []string) ([]uint64, error) {
	seen := make(map[uint64]struct{}, len(hexes))
	ids := make([]uint64, 0, len(hexes))
	for _, hex := range hexes {
		value, err := clarity.DecodeHex(hex)
		if err != nil {
			return nil, fmt.Errorf("decode id %s: %w", hex, err)
		}
		u, err := clarity.AsUInt(value)
		if err != nil {
			return nil, fmt.Errorf("decode id %s: %w", hex, err)
		}
		id, ok := u.Uint64()
		if !ok {
			return nil, fmt.Errorf("id %s does not fit in uint64", u.Big())
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
