package clarity

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DecodeHex parses a hex-encoded serialized value. The 0x prefix is optional.
func DecodeHex(input string) (Value, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "0x") && !strings.HasPrefix(input, "0X") {
		input = "0x" + input
	}
	data, err := hexutil.Decode(input)
	if err != nil {
		return nil, &DecodeError{Reason: fmt.Sprintf("invalid hex: %v", err)}
	}
	return Deserialize(data)
}

// EncodeHex serializes a value to 0x-prefixed hex.
func EncodeHex(v Value) (string, error) {
	data, err := Serialize(v)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(data), nil
}
