package clarity

import (
	"testing"
)

func TestEncodeAddressZeroHash(t *testing.T) {
	var zero [20]byte
	if got := EncodeAddress(VersionMainnetSingleSig, zero); got != "SP000000000000000000002Q6VF78" {
		t.Fatalf("mainnet address mismatch: %s", got)
	}
	if got := EncodeAddress(VersionTestnetSingleSig, zero); got != "ST000000000000000000002AMW42H" {
		t.Fatalf("testnet address mismatch: %s", got)
	}
}

func TestParseAddressRoundTrip(t *testing.T) {
	hash := [20]byte{0xa4, 0x6f, 0xf8, 0x88, 0x86, 0xc2, 0xef, 0x97, 0x62, 0xd9, 0x70, 0xb4, 0xd2, 0xc6, 0x3a, 0x42, 0x3e, 0x7b, 0x1f, 0x3c}
	for _, version := range []byte{VersionMainnetSingleSig, VersionMainnetMultiSig, VersionTestnetSingleSig, VersionTestnetMultiSig} {
		addr := EncodeAddress(version, hash)
		gotVersion, gotHash, err := ParseAddress(addr)
		if err != nil {
			t.Fatalf("parse %s: %v", addr, err)
		}
		if gotVersion != version || gotHash != hash {
			t.Fatalf("round-trip mismatch for %s: %d %x", addr, gotVersion, gotHash)
		}
	}
}

func TestParseAddressLeadingZeroBytes(t *testing.T) {
	hash := [20]byte{0, 0, 7}
	addr := EncodeAddress(VersionTestnetSingleSig, hash)
	_, got, err := ParseAddress(addr)
	if err != nil {
		t.Fatalf("parse %s: %v", addr, err)
	}
	if got != hash {
		t.Fatalf("hash mismatch: %x", got)
	}
}

func TestParseAddressRejectsBadChecksum(t *testing.T) {
	if _, _, err := ParseAddress("SP000000000000000000002Q6VF79"); err == nil {
		t.Fatalf("expected checksum error")
	}
	if _, _, err := ParseAddress("XP000000000000000000002Q6VF78"); err == nil {
		t.Fatalf("expected prefix error")
	}
	if _, _, err := ParseAddress("SP00000000000000000000!Q6VF78"); err == nil {
		t.Fatalf("expected alphabet error")
	}
}

func TestParsePrincipal(t *testing.T) {
	p, err := ParsePrincipal("ST000000000000000000002AMW42H.monsters")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.ContractName != "monsters" || p.Version != VersionTestnetSingleSig {
		t.Fatalf("principal mismatch: %+v", p)
	}
	if p.String() != "ST000000000000000000002AMW42H.monsters" {
		t.Fatalf("string mismatch: %s", p.String())
	}
	if _, err := ParsePrincipal("ST000000000000000000002AMW42H."); err == nil {
		t.Fatalf("expected error for empty contract name")
	}
}
