package artifact

import (
	"strings"
	"testing"
)

func TestPayload_CanonicalBytesFixed(t *testing.T) {
	p := positionPayload()
	want := `{"kind":"position","lockedStakeMicro":"1500000","marketId":"m1",` +
		`"moment":{"beat":3,"pulse":12,"stepIndex":0},"side":"YES","version":"1"}`
	if got := string(p.CanonicalBytes()); got != want {
		t.Fatalf("canonical bytes drifted:\n got %s\nwant %s", got, want)
	}
}

func TestPayload_OptionalFieldsOmittedWhenEmpty(t *testing.T) {
	p := Payload{Version: "1", Kind: KindResolution, MarketID: "m9", Outcome: "NO"}
	enc := string(p.CanonicalBytes())
	for _, absent := range []string{"side", "ownerKey", "lockedStakeMicro", "payoutMicro", "attrs"} {
		if strings.Contains(enc, `"`+absent+`"`) {
			t.Fatalf("empty field %q must be omitted: %s", absent, enc)
		}
	}
	if !strings.Contains(enc, `"outcome":"NO"`) {
		t.Fatalf("outcome missing: %s", enc)
	}
}

func TestPayload_MicroAmountValidation(t *testing.T) {
	valid := []string{"0", "1", "1500000", "123456789012345678901234567890"}
	for _, v := range valid {
		p := positionPayload()
		p.LockedStakeMicro = v
		if err := p.Validate(); err != nil {
			t.Fatalf("Validate(%q): %v", v, err)
		}
	}
	invalid := []string{"-1", "1.5", "1e6", " 1", "1 ", "0x10", "NaN"}
	for _, v := range invalid {
		p := positionPayload()
		p.PayoutMicro = v
		if err := p.Validate(); err == nil {
			t.Fatalf("Validate should reject payout %q", v)
		}
	}
}

func TestPayload_LargeAmountsExact(t *testing.T) {
	const huge = "999999999999999999999999999999999999"
	p := positionPayload()
	p.LockedStakeMicro = huge
	if !strings.Contains(string(p.CanonicalBytes()), `"lockedStakeMicro":"`+huge+`"`) {
		t.Fatalf("large decimal quantity lost precision in canonical form")
	}
}
