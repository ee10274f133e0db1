package monster

import (
	"errors"
	"math"

	"monsterScope/internal/clarity"
	"monsterScope/internal/model"
)

// Metadata map fields.
const (
	fieldImage       = "image"
	fieldLastMeal    = "last-meal"
	fieldName        = "name"
	fieldDateOfBirth = "date-of-birth"
)

// ErrNotFound is returned by DecodeMetadata when the map has no entry for the id.
var ErrNotFound = errors.New("map entry not found")

// DecodeOwner maps the result of get-owner. (ok (some p)) yields the principal,
// (ok none) yields OwnerNotFound and every other shape yields OwnerUnknown with an error.
func DecodeOwner(v clarity.Value) (string, error) {
	inner, err := clarity.UnwrapOk(v)
	if err != nil {
		return model.OwnerUnknown, err
	}
	some, found, err := clarity.UnwrapSome(inner)
	if err != nil {
		return model.OwnerUnknown, err
	}
	if !found {
		return model.OwnerNotFound, nil
	}
	principal, err := clarity.AsPrincipal(some)
	if err != nil {
		return model.OwnerUnknown, err
	}
	return principal.String(), nil
}

// DecodeMetadata maps a monsters map entry. The id is never read from the entry.
// On failure the default metadata is returned together with the error.
func DecodeMetadata(v clarity.Value, id uint64) (model.MonsterMeta, error) {
	fallback := model.DefaultMonsterMeta(id)

	inner, found, err := clarity.UnwrapSome(v)
	if err != nil {
		return fallback, err
	}
	if !found {
		return fallback, ErrNotFound
	}
	tuple, err := clarity.AsTuple(inner)
	if err != nil {
		return fallback, err
	}

	image, err := tuple.UIntField(fieldImage)
	if err != nil {
		return fallback, err
	}
	lastMeal, err := tuple.UIntField(fieldLastMeal)
	if err != nil {
		return fallback, err
	}
	name, err := tuple.StringASCIIField(fieldName)
	if err != nil {
		return fallback, err
	}
	dateOfBirth, err := tuple.UIntField(fieldDateOfBirth)
	if err != nil {
		return fallback, err
	}

	return model.MonsterMeta{
		ID:          id,
		Image:       toInt64(image),
		LastMeal:    toInt64(lastMeal),
		Name:        name,
		DateOfBirth: toInt64(dateOfBirth),
	}, nil
}

// DecodeAlive maps the result of is-alive. Only (ok true) is alive.
func DecodeAlive(v clarity.Value) (bool, error) {
	inner, err := clarity.UnwrapOk(v)
	if err != nil {
		return false, err
	}
	return clarity.AsBool(inner)
}

// toInt64 saturates at math.MaxInt64.
func toInt64(u clarity.UInt) int64 {
	n, ok := u.Uint64()
	if !ok || n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}
