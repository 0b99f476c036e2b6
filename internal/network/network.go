package network

import (
	"context"
	"fmt"
	"net/netip"
	"strings"

	"github.com/shirou/gopsutil/v3/net"
)

// DefaultInterface is the interface queried when none is configured.
const DefaultInterface = "en0"

// InterfaceSource lists the network interfaces of the system.
type InterfaceSource interface {
	Interfaces(ctx context.Context) (net.InterfaceStatList, error)
}

// HostSource lists interfaces through gopsutil.
type HostSource struct{}

// Interfaces implements InterfaceSource.
func (HostSource) Interfaces(ctx context.Context) (net.InterfaceStatList, error) {
	return net.InterfacesWithContext(ctx)
}

// Info represents network information for the configured interface
type Info struct {
	Interface  string `json:"interface"`
	Present    bool   `json:"present"`
	IP         string `json:"ip,omitempty"`
	MACAddress string `json:"mac_address,omitempty"`
}

// Reader interface for network monitoring
type Reader interface {
	GetInfo(ctx context.Context) (*Info, error)
}

// Network reads the addresses of a single interface. An interface that
// does not exist is reported as absent, not as an error.
type Network struct {
	iface  string
	source InterfaceSource
}

// Option configures a Network.
type Option func(*Network)

// WithSource replaces the interface source.
func WithSource(source InterfaceSource) Option {
	return func(n *Network) {
		n.source = source
	}
}

// New creates a Network for iface, DefaultInterface when empty.
func New(iface string, opts ...Option) *Network {
	if iface == "" {
		iface = DefaultInterface
	}
	n := &Network{iface: iface, source: HostSource{}}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewReader creates a new network reader for the given interface
func NewReader(iface string) Reader {
	return New(iface)
}

// Interface returns the name of the queried interface.
func (n *Network) Interface() string {
	return n.iface
}

// IP returns the first IPv4 address of the interface. The bool is false
// when the interface does not exist or has no IPv4 address.
func (n *Network) IP(ctx context.Context) (string, bool, error) {
	stat, ok, err := n.lookup(ctx)
	if err != nil || !ok {
		return "", false, err
	}
	ip, ok := firstIPv4(stat.Addrs)
	return ip, ok, nil
}

// MACAddress returns the hardware address of the interface. The bool is
// false when the interface does not exist or has no hardware address.
func (n *Network) MACAddress(ctx context.Context) (string, bool, error) {
	stat, ok, err := n.lookup(ctx)
	if err != nil || !ok || stat.HardwareAddr == "" {
		return "", false, err
	}
	return stat.HardwareAddr, true, nil
}

// GetInfo returns the addresses of the interface in one lookup.
func (n *Network) GetInfo(ctx context.Context) (*Info, error) {
	info := &Info{Interface: n.iface}

	stat, ok, err := n.lookup(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return info, nil
	}

	info.Present = true
	info.IP, _ = firstIPv4(stat.Addrs)
	info.MACAddress = stat.HardwareAddr
	return info, nil
}

func (n *Network) lookup(ctx context.Context) (net.InterfaceStat, bool, error) {
	stats, err := n.source.Interfaces(ctx)
	if err != nil {
		return net.InterfaceStat{}, false, fmt.Errorf("failed to list network interfaces: %w", err)
	}
	for _, stat := range stats {
		if stat.Name == n.iface {
			return stat, true, nil
		}
	}
	return net.InterfaceStat{}, false, nil
}

// firstIPv4 picks the first IPv4 address, dropping any prefix length.
func firstIPv4(addrs net.InterfaceAddrList) (string, bool) {
	for _, a := range addrs {
		s := a.Addr
		if i := strings.IndexByte(s, '/'); i >= 0 {
			s = s[:i]
		}
		ip, err := netip.ParseAddr(s)
		if err != nil {
			continue
		}
		if ip.Is4() || ip.Is4In6() {
			return ip.Unmap().String(), true
		}
	}
	return "", false
}
