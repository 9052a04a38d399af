// core/dhcp_test.go
package core

import (
	"testing"

	"github.com/netfabrik/topology-engine/model"
)

func dhcpRouter(start, end string) *model.Device {
	r := dev("r1", model.DeviceTypeRouter, 4)
	r.DHCPEnabled = true
	r.DHCPRangeStart = start
	r.DHCPRangeEnd = end
	return r
}

func TestNextDHCPIP_FirstFree(t *testing.T) {
	snap := NewSnapshot(
		[]*model.Device{dhcpRouter("192.168.1.100", "192.168.1.150")},
		nil, nil,
	)
	ip, ok := snap.NextDHCPIP("r1", 1)
	if !ok {
		t.Fatalf("expected a lease from an empty pool")
	}
	if ip != "192.168.1.100" {
		t.Errorf("first lease = %s, want 192.168.1.100", ip)
	}
}

func TestNextDHCPIP_SkipsWifiClientAddresses(t *testing.T) {
	phone := dev("phone", model.DeviceTypeSmartphone, 0)
	laptop := dev("laptop", model.DeviceTypeLaptop, 0)
	snap := NewSnapshot(
		[]*model.Device{dhcpRouter("192.168.1.100", "192.168.1.150"), phone, laptop},
		[]*model.Interface{
			// CIDR suffixes on client addresses must be ignored.
			iface("phone", model.WiFiPort, "192.168.1.100/24"),
			iface("laptop", model.WiFiPort, "192.168.1.101"),
		},
		[]*model.Connection{
			wifi("w1", "r1", "phone"),
			wifi("w2", "r1", "laptop"),
		},
	)
	ip, ok := snap.NextDHCPIP("r1", 1)
	if !ok {
		t.Fatalf("pool should not be exhausted")
	}
	if ip != "192.168.1.102" {
		t.Errorf("lease = %s, want 192.168.1.102 (first two taken)", ip)
	}
}

func TestNextDHCPIP_IgnoresAssociationsServedElsewhere(t *testing.T) {
	// The DHCP server sits on the client side of a Wi-Fi association,
	// so the host's own port-0 address is not one of its leases.
	srv := dev("srv", model.DeviceTypeServer, 2)
	srv.DHCPEnabled = true
	srv.DHCPRangeStart = "192.168.1.100"
	srv.DHCPRangeEnd = "192.168.1.150"
	ap := dev("ap", model.DeviceTypeAccessPoint, 2)
	snap := NewSnapshot(
		[]*model.Device{srv, ap},
		[]*model.Interface{iface("ap", model.WiFiPort, "192.168.1.100/24")},
		[]*model.Connection{wifi("w1", "ap", "srv")},
	)
	ip, ok := snap.NextDHCPIP("srv", 1)
	if !ok {
		t.Fatalf("expected a lease from an untouched pool")
	}
	if ip != "192.168.1.100" {
		t.Errorf("lease = %s, want 192.168.1.100 (the host's address is not assigned)", ip)
	}
}

func TestNextDHCPIP_Exhaustion(t *testing.T) {
	phone := dev("phone", model.DeviceTypeSmartphone, 0)
	laptop := dev("laptop", model.DeviceTypeLaptop, 0)
	snap := NewSnapshot(
		[]*model.Device{dhcpRouter("192.168.1.100", "192.168.1.101"), phone, laptop},
		[]*model.Interface{
			iface("phone", model.WiFiPort, "192.168.1.100"),
			iface("laptop", model.WiFiPort, "192.168.1.101"),
		},
		[]*model.Connection{
			wifi("w1", "r1", "phone"),
			wifi("w2", "r1", "laptop"),
		},
	)
	if ip, ok := snap.NextDHCPIP("r1", 1); ok {
		t.Errorf("two-address pool with both taken should be exhausted, got %s", ip)
	}
}

func TestNextDHCPIP_BadConfig(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
	}{
		{"inverted range", "192.168.1.150", "192.168.1.100"},
		{"cidr suffix on range", "192.168.1.100/24", "192.168.1.150"},
		{"garbage start", "nope", "192.168.1.150"},
		{"empty end", "192.168.1.100", ""},
	}
	for _, tc := range cases {
		snap := NewSnapshot([]*model.Device{dhcpRouter(tc.start, tc.end)}, nil, nil)
		if ip, ok := snap.NextDHCPIP("r1", 1); ok {
			t.Errorf("%s: expected no lease, got %s", tc.name, ip)
		}
	}

	// DHCP off entirely.
	snap := NewSnapshot([]*model.Device{dev("r1", model.DeviceTypeRouter, 4)}, nil, nil)
	if _, ok := snap.NextDHCPIP("r1", 1); ok {
		t.Errorf("disabled DHCP should never lease")
	}
}

func TestNextDHCPIP_InterfaceLevelConfigWins(t *testing.T) {
	r := dev("r1", model.DeviceTypeRouter, 4)
	in := &model.Interface{
		DeviceID: "r1", Port: 2,
		DHCPEnabled:    true,
		DHCPRangeStart: "10.0.0.10",
		DHCPRangeEnd:   "10.0.0.20",
	}
	snap := NewSnapshot([]*model.Device{r}, []*model.Interface{in}, nil)
	ip, ok := snap.NextDHCPIP("r1", 2)
	if !ok || ip != "10.0.0.10" {
		t.Errorf("interface-level pool should serve 10.0.0.10, got %q ok=%v", ip, ok)
	}
}
