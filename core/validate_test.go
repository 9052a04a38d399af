// core/validate_test.go
package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/netfabrik/topology-engine/model"
)

func TestValidatePortIP_Matching(t *testing.T) {
	snap := chainTopology()

	res := snap.ValidatePortIP("192.168.1.50/24", "pc1", 1)
	if !res.Valid {
		t.Fatalf("192.168.1.50/24 should be valid against the 192.168.1.0/24 gateway: %q", res.Warning)
	}
	if res.GatewaySubnet != "192.168.1.0/24" {
		t.Errorf("GatewaySubnet = %q, want the matched subnet", res.GatewaySubnet)
	}
}

func TestValidatePortIP_Mismatch(t *testing.T) {
	snap := chainTopology()

	res := snap.ValidatePortIP("10.0.0.5/24", "pc1", 1)
	if res.Valid {
		t.Fatalf("10.0.0.5/24 must not validate against 192.168.1.0/24")
	}
	if !strings.Contains(res.Warning, "192.168.1.0/24") {
		t.Errorf("warning should name the gateway subnet, got %q", res.Warning)
	}
	if !strings.Contains(res.Warning, "r1") {
		t.Errorf("warning should name the gateway device, got %q", res.Warning)
	}
}

func TestValidatePortIP_MalformedInput(t *testing.T) {
	snap := chainTopology()
	for _, bad := range []string{"", "10.0.0.5", "10.0.0.999/24", "10.0.0.5/40"} {
		res := snap.ValidatePortIP(bad, "pc1", 1)
		if res.Valid {
			t.Errorf("ValidatePortIP(%q) should be invalid", bad)
		}
		if !errors.Is(res.Err, ErrInvalidCIDR) {
			t.Errorf("ValidatePortIP(%q) Err = %v, want ErrInvalidCIDR", bad, res.Err)
		}
	}
}

func TestValidatePortIP_NoGatewayMeansNothingToCheck(t *testing.T) {
	snap := NewSnapshot(
		[]*model.Device{
			dev("pc1", model.DeviceTypePC, 1),
			dev("sw1", model.DeviceTypeSwitch, 4),
		},
		nil,
		[]*model.Connection{wired("c1", "pc1", 1, "sw1", 1)},
	)
	res := snap.ValidatePortIP("203.0.113.9/24", "pc1", 1)
	if !res.Valid {
		t.Fatalf("without a gateway any well-formed IP passes, got warning %q", res.Warning)
	}
	if res.Warning != "" || res.GatewaySubnet != "" {
		t.Errorf("no-gateway result should carry no warning or subnet, got %+v", res)
	}
}

// The validator is advisory: the result never stops a caller from
// persisting the address, it only describes the mismatch.
func TestValidatePortIP_IsPure(t *testing.T) {
	snap := chainTopology()
	before := snap.InterfaceAt(PortRef{"pc1", 1})
	_ = snap.ValidatePortIP("10.9.9.9/24", "pc1", 1)
	if snap.InterfaceAt(PortRef{"pc1", 1}) != before {
		t.Errorf("validation must not touch the snapshot")
	}
}
