//go:build linux

package network_iface

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
)

const ipForwardPath = "/proc/sys/net/ipv4/ip_forward"

// Controller reads and mutates link, address and route state over
// rtnetlink. It keeps no state of its own; every query hits the kernel.
type Controller struct {
	nl  Netlinker
	sys SystemController
}

func NewController() *Controller {
	return NewControllerWithDeps(&RealNetlinker{}, &RealSystemController{})
}

func NewControllerWithDeps(nl Netlinker, sys SystemController) *Controller {
	return &Controller{nl: nl, sys: sys}
}

func (c *Controller) link(name string) (netlink.Link, error) {
	link, err := c.nl.LinkByName(name)
	if err != nil {
		return nil, fmt.Errorf("interface %s not found: %w", name, err)
	}
	return link, nil
}

func (c *Controller) Up(name string) error {
	link, err := c.link(name)
	if err != nil {
		return err
	}
	if err := c.nl.LinkSetUp(link); err != nil {
		return fmt.Errorf("failed to bring up %s: %w", name, err)
	}
	return nil
}

func (c *Controller) Down(name string) error {
	link, err := c.link(name)
	if err != nil {
		return err
	}
	if err := c.nl.LinkSetDown(link); err != nil {
		return fmt.Errorf("failed to bring down %s: %w", name, err)
	}
	return nil
}

// IsUp requires the administrative up flag and an operational state
// other than down. A missing interface is reported as down.
func (c *Controller) IsUp(name string) bool {
	link, err := c.nl.LinkByName(name)
	if err != nil {
		return false
	}
	attrs := link.Attrs()
	return attrs.Flags&net.FlagUp != 0 && attrs.OperState != netlink.OperDown
}

func (c *Controller) ipv4Addrs(name string) (netlink.Link, []netlink.Addr, error) {
	link, err := c.link(name)
	if err != nil {
		return nil, nil, err
	}
	addrs, err := c.nl.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list addresses on %s: %w", name, err)
	}
	return link, addrs, nil
}

// IPv4 returns the first usable IPv4 address on the interface. 0.0.0.0
// counts as no address.
func (c *Controller) IPv4(name string) (net.IP, bool) {
	_, addrs, err := c.ipv4Addrs(name)
	if err != nil {
		return nil, false
	}
	for _, a := range addrs {
		if a.IPNet == nil {
			continue
		}
		ip := a.IP.To4()
		if ip == nil || ip.IsUnspecified() {
			continue
		}
		return ip, true
	}
	return nil, false
}

func (c *Controller) HasIPv4(name string) bool {
	_, ok := c.IPv4(name)
	return ok
}

func (c *Controller) FlushIPv4(name string) error {
	link, addrs, err := c.ipv4Addrs(name)
	if err != nil {
		return err
	}
	for i := range addrs {
		if err := c.nl.AddrDel(link, &addrs[i]); err != nil {
			return fmt.Errorf("failed to remove %s from %s: %w", addrs[i].IPNet, name, err)
		}
	}
	return nil
}

// AddIPv4 assigns an address in CIDR notation, e.g. 192.168.4.1/24.
func (c *Controller) AddIPv4(name, cidr string) error {
	addr, err := netlink.ParseAddr(cidr)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", cidr, err)
	}
	link, err := c.link(name)
	if err != nil {
		return err
	}
	if err := c.nl.AddrAdd(link, addr); err != nil {
		return fmt.Errorf("failed to add %s to %s: %w", cidr, name, err)
	}
	return nil
}

// DefaultRouteInterface names the interface carrying the IPv4 default
// route with the lowest metric, or "" when there is none.
func (c *Controller) DefaultRouteInterface() (string, error) {
	routes, err := c.nl.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return "", fmt.Errorf("failed to list routes: %w", err)
	}

	var best *netlink.Route
	for i := range routes {
		r := &routes[i]
		if !isDefault(r) || r.LinkIndex <= 0 {
			continue
		}
		if best == nil || r.Priority < best.Priority {
			best = r
		}
	}
	if best == nil {
		return "", nil
	}

	link, err := c.nl.LinkByIndex(best.LinkIndex)
	if err != nil {
		return "", fmt.Errorf("failed to resolve link %d: %w", best.LinkIndex, err)
	}
	return link.Attrs().Name, nil
}

func isDefault(r *netlink.Route) bool {
	if r.Dst == nil {
		return true
	}
	ones, _ := r.Dst.Mask.Size()
	return ones == 0 && r.Dst.IP.IsUnspecified()
}

func (c *Controller) SetIPv4Forwarding(enable bool) error {
	val := "0"
	if enable {
		val = "1"
	}
	if err := c.sys.WriteSysctl(ipForwardPath, val); err != nil {
		return fmt.Errorf("failed to set net.ipv4.ip_forward: %w", err)
	}
	return nil
}
