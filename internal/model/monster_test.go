package model

import (
	"encoding/json"
	"testing"
)

func TestMonsterDetailsJSONFieldNames(t *testing.T) {
	details := MonsterDetails{
		Owner: "ST000000000000000000002AMW42H",
		MetaData: MonsterMeta{
			ID:          3,
			Image:       42,
			LastMeal:    1700000000,
			Name:        "Goo",
			DateOfBirth: 1690000000,
		},
		Alive: true,
	}

	data, err := json.Marshal(details)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	meta, ok := decoded["meta_data"].(map[string]interface{})
	if !ok {
		t.Fatalf("meta_data should be an object")
	}
	for _, key := range []string{"id", "image", "last_meal", "name", "date_of_birth"} {
		if _, ok := meta[key]; !ok {
			t.Fatalf("meta_data missing %s", key)
		}
	}
	if decoded["owner"] != details.Owner {
		t.Fatalf("owner mismatch: %v", decoded["owner"])
	}
	if decoded["alive"] != true {
		t.Fatalf("alive mismatch: %v", decoded["alive"])
	}
}

func TestDefaultMonsterMeta(t *testing.T) {
	meta := DefaultMonsterMeta(17)
	if meta.ID != 17 || meta.Name != UnknownName {
		t.Fatalf("default meta mismatch: %+v", meta)
	}
	if meta.Image != 0 || meta.LastMeal != 0 || meta.DateOfBirth != 0 {
		t.Fatalf("default meta should be zeroed: %+v", meta)
	}
}
