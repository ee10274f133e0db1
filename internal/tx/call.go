package tx

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"monsterScope/internal/clarity"
	"monsterScope/internal/stacks"
)

// Contract functions that change state.
const (
	FunctionCreateMonster = "create-monster"
	FunctionFeedMonster   = "feed-monster"
	FunctionUse           = "use"
)

const (
	// MaxNameLength is the longest monster name the contract accepts.
	MaxNameLength = 20
	// ImageCount is the number of monster images; valid images are below it.
	ImageCount = 109
	// RandomImage asks CreateMonster to pick an image.
	RandomImage = -1
)

// PostConditionMode controls whether transfers not covered by post conditions abort the transaction.
type PostConditionMode string

const (
	PostConditionModeAllow PostConditionMode = "allow"
	PostConditionModeDeny  PostConditionMode = "deny"
)

// AnchorMode controls which kind of block may include the transaction.
type AnchorMode string

const (
	AnchorModeAny      AnchorMode = "any"
	AnchorModeOnChain  AnchorMode = "on_chain"
	AnchorModeOffChain AnchorMode = "off_chain"
)

// ErrCancelled is returned when a submission is abandoned before a transaction id exists.
var ErrCancelled = errors.New("transaction cancelled")

// ContractCall is an unsigned call of a public contract function.
type ContractCall struct {
	Contract          stacks.Contract
	Function          string
	Args              []clarity.Value
	PostConditionMode PostConditionMode
	AnchorMode        AnchorMode
}

func newCall(contract stacks.Contract, function string, args ...clarity.Value) ContractCall {
	return ContractCall{
		Contract:          contract,
		Function:          function,
		Args:              args,
		PostConditionMode: PostConditionModeDeny,
		AnchorMode:        AnchorModeAny,
	}
}

// CreateMonster builds a create-monster call. Pass RandomImage to pick an image at random.
func CreateMonster(contract stacks.Contract, name string, image int) (ContractCall, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return ContractCall{}, err
	}
	if image == RandomImage {
		image = rand.Intn(ImageCount)
	}
	if image < 0 || image >= ImageCount {
		return ContractCall{}, fmt.Errorf("image must be between 0 and %d: %d", ImageCount-1, image)
	}
	return newCall(contract, FunctionCreateMonster, clarity.StringASCII(name), clarity.NewUInt(uint64(image))), nil
}

// FeedMonster builds a feed-monster call.
func FeedMonster(contract stacks.Contract, id uint64) ContractCall {
	return newCall(contract, FunctionFeedMonster, clarity.NewUInt(id))
}

// UseMonster builds a use call that enters the monster into the current competition.
func UseMonster(contract stacks.Contract, id uint64) ContractCall {
	return newCall(contract, FunctionUse, clarity.NewUInt(id), clarity.None{})
}

// ValidateName checks a monster name. The name must already be trimmed.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("monster name is required")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("monster name is longer than %d characters", MaxNameLength)
	}
	for i := 0; i < len(name); i++ {
		if name[i] < 0x20 || name[i] > 0x7e {
			return fmt.Errorf("monster name must be printable ascii: %q", name)
		}
	}
	return nil
}

// ParsePostConditionMode parses "allow" or "deny".
func ParsePostConditionMode(input string) (PostConditionMode, error) {
	switch mode := PostConditionMode(strings.ToLower(strings.TrimSpace(input))); mode {
	case PostConditionModeAllow, PostConditionModeDeny:
		return mode, nil
	case "":
		return PostConditionModeDeny, nil
	default:
		return "", fmt.Errorf("invalid post condition mode: %s", input)
	}
}

// ParseAnchorMode parses "any", "on_chain" or "off_chain".
func ParseAnchorMode(input string) (AnchorMode, error) {
	switch mode := AnchorMode(strings.ToLower(strings.TrimSpace(input))); mode {
	case AnchorModeAny, AnchorModeOnChain, AnchorModeOffChain:
		return mode, nil
	case "":
		return AnchorModeAny, nil
	default:
		return "", fmt.Errorf("invalid anchor mode: %s", input)
	}
}
