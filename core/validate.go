// core/validate.go
package core

import (
	"fmt"
)

// ValidationResult is the advisory outcome of checking a proposed
// interface IP. The engine never blocks a write: an invalid result
// still leaves the caller free to persist the address, the Warning is
// for display.
type ValidationResult struct {
	Valid         bool   `json:"valid"`
	Warning       string `json:"warning,omitempty"`
	GatewaySubnet string `json:"gateway_subnet,omitempty"`
	Err           error  `json:"-"`
}

// ValidatePortIP checks a proposed CIDR address for one port against
// the subnet of that port's resolved gateway.
//
//   - malformed input: invalid, Err wraps ErrInvalidCIDR;
//   - no gateway in the domain: valid with no warning (nothing to
//     validate against);
//   - network mismatch under the gateway's mask: invalid with a
//     warning naming the expected subnet and the gateway device;
//   - otherwise valid, echoing the matched gateway subnet.
func (s *Snapshot) ValidatePortIP(proposed string, deviceID string, port int) ValidationResult {
	info, err := ParseCIDR(proposed)
	if err != nil {
		return ValidationResult{
			Valid:   false,
			Warning: fmt.Sprintf("%q is not a valid CIDR address", proposed),
			Err:     err,
		}
	}

	gw := s.ResolveGateway(deviceID, port)
	if gw == nil {
		return ValidationResult{Valid: true}
	}

	if info.IP&gw.Mask != gw.Network {
		return ValidationResult{
			Valid: false,
			Warning: fmt.Sprintf("%s is outside subnet %s served by gateway %s",
				BareIP(proposed), gw.Subnet, gw.DeviceName),
			GatewaySubnet: gw.Subnet,
		}
	}
	return ValidationResult{Valid: true, GatewaySubnet: gw.Subnet}
}
