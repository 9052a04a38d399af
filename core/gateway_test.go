// core/gateway_test.go
package core

import (
	"testing"

	"github.com/netfabrik/topology-engine/model"
)

func TestResolveGateway_AcrossSwitch(t *testing.T) {
	snap := chainTopology()

	gw := snap.ResolveGateway("pc1", 1)
	if gw == nil {
		t.Fatalf("pc1 should resolve a gateway through sw1")
	}
	if gw.Subnet != "192.168.1.0/24" {
		t.Errorf("subnet = %q, want 192.168.1.0/24", gw.Subnet)
	}
	if gw.IP != "192.168.1.1" {
		t.Errorf("gateway ip = %q, want 192.168.1.1", gw.IP)
	}
	if gw.DeviceID != "r1" || gw.Port != 1 {
		t.Errorf("gateway endpoint = %s:%d, want r1:1", gw.DeviceID, gw.Port)
	}

	// The other side of the router resolves the other subnet.
	gw2 := snap.ResolveGateway("pc2", 1)
	if gw2 == nil {
		t.Fatalf("pc2 should resolve a gateway through sw2")
	}
	if gw2.Subnet != "10.0.0.0/24" {
		t.Errorf("pc2 gateway subnet = %q, want 10.0.0.0/24", gw2.Subnet)
	}
}

func TestResolveGateway_RouterSeesItsOwnInterfaces(t *testing.T) {
	// The stop-at-L3 rule must exempt the starting device, otherwise
	// a router could not resolve the subnet on its own ports.
	snap := chainTopology()
	gw := snap.ResolveGateway("r1", 2)
	if gw == nil {
		t.Fatalf("router should resolve a gateway on its own port")
	}
	if gw.DeviceID != "r1" {
		t.Errorf("gateway device = %q, want r1 itself", gw.DeviceID)
	}
}

func TestResolveGateway_NoneIsNormal(t *testing.T) {
	snap := NewSnapshot(
		[]*model.Device{
			dev("pc1", model.DeviceTypePC, 1),
			dev("sw1", model.DeviceTypeSwitch, 4),
		},
		nil,
		[]*model.Connection{wired("c1", "pc1", 1, "sw1", 1)},
	)
	if gw := snap.ResolveGateway("pc1", 1); gw != nil {
		t.Errorf("a routerless domain should resolve no gateway, got %+v", gw)
	}
	if gw := snap.ResolveGateway("ghost", 1); gw != nil {
		t.Errorf("an unknown device should resolve no gateway")
	}
}

func TestResolveGateway_SkipsUnparseableIPs(t *testing.T) {
	router := dev("r1", model.DeviceTypeRouter, 2)
	snap := NewSnapshot(
		[]*model.Device{router, dev("pc1", model.DeviceTypePC, 1)},
		[]*model.Interface{
			iface("r1", 1, "not-an-ip"),
		},
		[]*model.Connection{wired("c1", "pc1", 1, "r1", 1)},
	)
	if gw := snap.ResolveGateway("pc1", 1); gw != nil {
		t.Errorf("a gateway candidate with a malformed IP must be skipped, got %+v", gw)
	}
}

func TestResolveGateway_FirstMatchWins(t *testing.T) {
	// Two gateway-capable devices on one domain: the walk order picks
	// the first, no ranking.
	snap := NewSnapshot(
		[]*model.Device{
			dev("fw1", model.DeviceTypeFirewall, 2),
			dev("pc1", model.DeviceTypePC, 1),
			dev("r1", model.DeviceTypeRouter, 2),
			dev("sw1", model.DeviceTypeSwitch, 8),
		},
		[]*model.Interface{
			iface("fw1", 1, "172.16.0.254/16"),
			iface("r1", 1, "172.16.0.1/16"),
		},
		[]*model.Connection{
			wired("c1", "pc1", 1, "sw1", 1),
			wired("c2", "sw1", 2, "fw1", 1),
			wired("c3", "sw1", 3, "r1", 1),
		},
	)
	gw := snap.ResolveGateway("pc1", 1)
	if gw == nil {
		t.Fatalf("expected a gateway")
	}
	// BFS from pc1:1 reaches sw1, then expands sw1's ports in
	// ascending order, so the firewall on port 2 is found first.
	if gw.DeviceID != "fw1" {
		t.Errorf("first match = %q, want fw1 (stable walk order)", gw.DeviceID)
	}
}
