package clarity

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"strings"
)

const c32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// Address versions used by Stacks.
const (
	VersionMainnetSingleSig byte = 22 // SP
	VersionMainnetMultiSig  byte = 20 // SM
	VersionTestnetSingleSig byte = 26 // ST
	VersionTestnetMultiSig  byte = 21 // SN
)

// EncodeAddress renders a version and hash160 as a c32check address ("S" + version + data).
func EncodeAddress(version byte, hash160 [20]byte) string {
	return "S" + c32CheckEncode(version, hash160[:])
}

// ParseAddress decodes a c32check address and verifies its checksum.
func ParseAddress(addr string) (version byte, hash160 [20]byte, err error) {
	addr = strings.TrimSpace(addr)
	if len(addr) < 2 || addr[0] != 'S' {
		return 0, hash160, fmt.Errorf("invalid address %q: missing S prefix", addr)
	}
	version, data, err := c32CheckDecode(addr[1:])
	if err != nil {
		return 0, hash160, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if len(data) != 20 {
		return 0, hash160, fmt.Errorf("invalid address %q: hash160 is %d bytes", addr, len(data))
	}
	copy(hash160[:], data)
	return version, hash160, nil
}

// ParsePrincipal parses "ADDR" or "ADDR.contract-name".
func ParsePrincipal(input string) (Principal, error) {
	input = strings.TrimSpace(input)
	addr, name, _ := strings.Cut(input, ".")
	version, hash, err := ParseAddress(addr)
	if err != nil {
		return Principal{}, err
	}
	if strings.Contains(input, ".") && (name == "" || len(name) > maxNameLength) {
		return Principal{}, fmt.Errorf("invalid contract name in %q", input)
	}
	return Principal{Version: version, Hash160: hash, ContractName: name}, nil
}

func c32CheckEncode(version byte, data []byte) string {
	sum := c32Checksum(version, data)
	payload := make([]byte, 0, len(data)+4)
	payload = append(payload, data...)
	payload = append(payload, sum[:]...)
	return string(c32Alphabet[version&0x1f]) + c32Encode(payload)
}

func c32CheckDecode(input string) (byte, []byte, error) {
	if len(input) < 2 {
		return 0, nil, fmt.Errorf("c32check string too short")
	}
	input = normalizeC32(input)
	version := strings.IndexByte(c32Alphabet, input[0])
	if version < 0 {
		return 0, nil, fmt.Errorf("invalid c32 version character %q", input[0])
	}
	payload, err := c32Decode(input[1:])
	if err != nil {
		return 0, nil, err
	}
	if len(payload) < 4 {
		return 0, nil, fmt.Errorf("c32check payload too short")
	}
	data := payload[:len(payload)-4]
	sum := c32Checksum(byte(version), data)
	if !bytes.Equal(sum[:], payload[len(payload)-4:]) {
		return 0, nil, fmt.Errorf("c32check checksum mismatch")
	}
	return byte(version), data, nil
}

func c32Checksum(version byte, data []byte) [4]byte {
	first := sha256.Sum256(append([]byte{version}, data...))
	second := sha256.Sum256(first[:])
	var out [4]byte
	copy(out[:], second[:4])
	return out
}

func normalizeC32(input string) string {
	input = strings.ToUpper(input)
	return strings.NewReplacer("O", "0", "L", "1", "I", "1").Replace(input)
}

// c32Encode emits 5-bit groups from the least significant end and keeps one
// '0' per leading zero byte.
func c32Encode(data []byte) string {
	out := make([]byte, 0, len(data)*8/5+1)
	var carry, carryBits uint
	for i := len(data) - 1; i >= 0; i-- {
		cur := uint(data[i])
		lowBitsToTake := 5 - carryBits
		lowBits := cur & ((1 << lowBitsToTake) - 1)
		out = append(out, c32Alphabet[(lowBits<<carryBits)+carry])
		carryBits = 8 + carryBits - 5
		carry = cur >> (8 - carryBits)
		if carryBits >= 5 {
			out = append(out, c32Alphabet[carry&0x1f])
			carryBits -= 5
			carry >>= 5
		}
	}
	if carryBits > 0 {
		out = append(out, c32Alphabet[carry])
	}
	for len(out) > 0 && out[len(out)-1] == c32Alphabet[0] {
		out = out[:len(out)-1]
	}
	for _, b := range data {
		if b != 0 {
			break
		}
		out = append(out, c32Alphabet[0])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

func c32Decode(input string) ([]byte, error) {
	out := make([]byte, 0, len(input)*5/8+1)
	var carry uint16
	var carryBits uint
	for i := len(input) - 1; i >= 0; i-- {
		digit := strings.IndexByte(c32Alphabet, input[i])
		if digit < 0 {
			return nil, fmt.Errorf("invalid c32 character %q", input[i])
		}
		carry += uint16(digit) << carryBits
		carryBits += 5
		if carryBits >= 8 {
			out = append(out, byte(carry&0xff))
			carryBits -= 8
			carry >>= 8
		}
	}
	if carryBits > 0 {
		out = append(out, byte(carry))
	}
	for len(out) > 0 && out[len(out)-1] == 0 {
		out = out[:len(out)-1]
	}
	for i := 0; i < len(input) && input[i] == c32Alphabet[0]; i++ {
		out = append(out, 0)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
