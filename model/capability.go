package model

// Layer places a device type in the OSI-ish hierarchy the engine cares
// about: transparent L1 gear, L2 bridging gear, L3 gateway-capable
// gear, addressable endpoints, and the cloud pseudo-device.
type Layer string

const (
	Layer1        Layer = "l1"
	Layer2        Layer = "l2"
	Layer3        Layer = "l3"
	LayerEndpoint Layer = "endpoint"
	LayerCloud    Layer = "cloud"
)

// Capabilities is the static per-device-type fact sheet. Every
// algorithm in the engine branches on this record and never on the raw
// DeviceType string, so behavior for a whole device class is pinned
// down in exactly one place.
type Capabilities struct {
	Layer           Layer `json:"layer"`
	PerPortIP       bool  `json:"per_port_ip"`
	ManagementIP    bool  `json:"management_ip"`
	VLANSupport     bool  `json:"vlan_support"`
	NATCapable      bool  `json:"nat_capable"`
	DHCPCapable     bool  `json:"dhcp_capable"`
	MACPerPort      bool  `json:"mac_per_port"`
	CanBeGateway    bool  `json:"can_be_gateway"`
	PortModeSupport bool  `json:"port_mode_support"`
	WiFiHost        bool  `json:"wifi_host"`
	WiFiClient      bool  `json:"wifi_client"`
}

// capabilityTable maps every DeviceType to exactly one Capabilities
// record. Values follow common vendor behavior: hubs, patch panels and
// modems are transparent L1 gear; switches and access points bridge at
// L2; routers, firewalls and load balancers terminate broadcast
// domains and can act as gateways.
var capabilityTable = map[DeviceType]Capabilities{
	DeviceTypeSwitch: {
		Layer:           Layer2,
		ManagementIP:    true,
		VLANSupport:     true,
		MACPerPort:      true,
		PortModeSupport: true,
	},
	DeviceTypeRouter: {
		Layer:        Layer3,
		PerPortIP:    true,
		VLANSupport:  true,
		NATCapable:   true,
		DHCPCapable:  true,
		MACPerPort:   true,
		CanBeGateway: true,
		WiFiHost:     true,
	},
	DeviceTypeFirewall: {
		Layer:        Layer3,
		PerPortIP:    true,
		NATCapable:   true,
		DHCPCapable:  true,
		MACPerPort:   true,
		CanBeGateway: true,
	},
	DeviceTypeLoadBalancer: {
		Layer:        Layer3,
		PerPortIP:    true,
		NATCapable:   true,
		MACPerPort:   true,
		CanBeGateway: true,
	},
	DeviceTypeAccessPoint: {
		Layer:        Layer2,
		ManagementIP: true,
		VLANSupport:  true,
		WiFiHost:     true,
	},
	DeviceTypeHub:        {Layer: Layer1},
	DeviceTypePatchPanel: {Layer: Layer1},
	DeviceTypeModem:      {Layer: Layer1},
	DeviceTypeCloud:      {Layer: LayerCloud},
	DeviceTypePC: {
		Layer:     LayerEndpoint,
		PerPortIP: true,
	},
	DeviceTypeServer: {
		Layer:       LayerEndpoint,
		PerPortIP:   true,
		DHCPCapable: true,
	},
	DeviceTypeNAS: {
		Layer:     LayerEndpoint,
		PerPortIP: true,
	},
	DeviceTypePrinter: {
		Layer:      LayerEndpoint,
		PerPortIP:  true,
		WiFiClient: true,
	},
	DeviceTypeIPPhone: {
		Layer:      LayerEndpoint,
		PerPortIP:  true,
		WiFiClient: true,
	},
	DeviceTypeCamera: {
		Layer:      LayerEndpoint,
		PerPortIP:  true,
		WiFiClient: true,
	},
	DeviceTypeLaptop: {
		Layer:      LayerEndpoint,
		PerPortIP:  true,
		WiFiClient: true,
	},
	DeviceTypeSmartphone: {
		Layer:      LayerEndpoint,
		PerPortIP:  true,
		WiFiClient: true,
	},
	DeviceTypeTablet: {
		Layer:      LayerEndpoint,
		PerPortIP:  true,
		WiFiClient: true,
	},
}

// CapabilitiesOf returns the capability record for a device type.
// Unknown types fall back to the pc profile so a stale or future type
// coming from the workspace degrades to a plain endpoint instead of
// failing.
func CapabilitiesOf(t DeviceType) Capabilities {
	if caps, ok := capabilityTable[t]; ok {
		return caps
	}
	return capabilityTable[DeviceTypePC]
}

// CapabilityOverrides returns a copy of the full table. Callers that
// want to present or tweak per-type behavior get their own map; the
// engine's table itself is immutable.
func CapabilityOverrides() map[DeviceType]Capabilities {
	out := make(map[DeviceType]Capabilities, len(capabilityTable))
	for t, caps := range capabilityTable {
		out[t] = caps
	}
	return out
}
