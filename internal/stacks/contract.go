package stacks

import (
	"fmt"
	"strings"

	"monsterScope/internal/clarity"
)

// Contract identifies a deployed Clarity contract.
type Contract struct {
	Address string
	Name    string
}

// ParseContract parses "ADDRESS.name".
func ParseContract(input string) (Contract, error) {
	p, err := clarity.ParsePrincipal(input)
	if err != nil {
		return Contract{}, err
	}
	if p.ContractName == "" {
		return Contract{}, fmt.Errorf("not a contract identifier: %s", input)
	}
	return Contract{Address: p.Address(), Name: p.ContractName}, nil
}

// String returns the fully-qualified contract identifier.
func (c Contract) String() string {
	return c.Address + "." + c.Name
}

// AssetIdentifier returns the identifier of an asset declared by the contract,
// e.g. "ADDR.monsters::nft-monsters".
func (c Contract) AssetIdentifier(asset string) string {
	return c.String() + "::" + asset
}

// Validate checks the address checksum and the contract name.
func (c Contract) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("contract name is required")
	}
	if _, _, err := clarity.ParseAddress(c.Address); err != nil {
		return fmt.Errorf("contract address: %w", err)
	}
	return nil
}
