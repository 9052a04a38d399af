// core/cidr.go
package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidCIDR = errors.New("invalid CIDR string")
	ErrInvalidIP   = errors.New("invalid IPv4 string")
)

// CIDRInfo is the parsed form of an "a.b.c.d/n" string. All values are
// host-order unsigned 32-bit; Network is IP masked down to the prefix.
type CIDRInfo struct {
	IP      uint32
	Prefix  int
	Network uint32
	Mask    uint32
}

// String renders the network in CIDR notation, e.g. "192.168.1.0/24".
func (c *CIDRInfo) String() string {
	return fmt.Sprintf("%s/%d", IPString(c.Network), c.Prefix)
}

// MaskFor returns the netmask for a prefix length. Prefix 0 is all
// zeroes, 32 all ones.
func MaskFor(prefix int) uint32 {
	if prefix <= 0 {
		return 0
	}
	if prefix >= 32 {
		return 0xffffffff
	}
	return ^uint32(0) << uint(32-prefix)
}

// ParseIPv4 parses a plain dotted-quad address with no prefix suffix.
// DHCP range endpoints use this form, never CIDR.
func ParseIPv4(s string) (uint32, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 4 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIP, s)
	}
	var ip uint32
	for _, p := range parts {
		if p == "" {
			return 0, fmt.Errorf("%w: %q", ErrInvalidIP, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidIP, s)
		}
		ip = ip<<8 | uint32(n)
	}
	return ip, nil
}

// ParseCIDR parses "a.b.c.d/n". Each octet must be ≤255 and the prefix
// ≤32; anything else is ErrInvalidCIDR.
func ParseCIDR(s string) (*CIDRInfo, error) {
	s = strings.TrimSpace(s)
	slash := strings.IndexByte(s, '/')
	if slash < 0 {
		return nil, fmt.Errorf("%w: %q (missing prefix)", ErrInvalidCIDR, s)
	}
	ip, err := ParseIPv4(s[:slash])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCIDR, s)
	}
	prefix, err := strconv.Atoi(s[slash+1:])
	if err != nil || prefix < 0 || prefix > 32 {
		return nil, fmt.Errorf("%w: %q (bad prefix)", ErrInvalidCIDR, s)
	}
	mask := MaskFor(prefix)
	return &CIDRInfo{
		IP:      ip,
		Prefix:  prefix,
		Network: ip & mask,
		Mask:    mask,
	}, nil
}

// IPString renders a host-order address as dotted quad.
func IPString(ip uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", ip>>24&0xff, ip>>16&0xff, ip>>8&0xff, ip&0xff)
}

// BareIP strips any "/n" suffix from an address string. Useful when a
// workspace stores CIDR notation but a message or a lease comparison
// needs the plain address.
func BareIP(s string) string {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i]
	}
	return s
}

// SameSubnet reports whether two CIDR strings fall in the same subnet
// under the SHORTER of their two prefixes. The asymmetry is deliberate:
// a /24 host and a /32 host both "match" a /24 gateway because the /24
// mask decides. Malformed input is simply not a match.
func SameSubnet(a, b string) bool {
	ca, err := ParseCIDR(a)
	if err != nil {
		return false
	}
	cb, err := ParseCIDR(b)
	if err != nil {
		return false
	}
	prefix := ca.Prefix
	if cb.Prefix < prefix {
		prefix = cb.Prefix
	}
	mask := MaskFor(prefix)
	return ca.IP&mask == cb.IP&mask
}

// UsableHosts returns the number of assignable host addresses in a
// prefix: the classic 2^(32-p)−2 up to /30, then the point-to-point
// special cases (/31 has 2, /32 has 1).
func UsableHosts(prefix int) int {
	switch {
	case prefix < 0 || prefix > 32:
		return 0
	case prefix <= 30:
		return (1 << uint(32-prefix)) - 2
	case prefix == 31:
		return 2
	default:
		return 1
	}
}
