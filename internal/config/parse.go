package config

import (
	"fmt"
	"strconv"
	"strings"

	"monsterScope/internal/clarity"
)

// ParseIDs converts monster ids such as "7" or "u7" into numbers.
func ParseIDs(inputs []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimPrefix(input, "u"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid monster id: %s", input)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParsePrincipal validates a standard or contract principal.
func ParsePrincipal(input string) (string, error) {
	input = strings.TrimSpace(input)
	p, err := clarity.ParsePrincipal(input)
	if err != nil {
		return "", fmt.Errorf("invalid principal %s: %w", input, err)
	}
	return p.String(), nil
}
