//go:build linux

package network_wifi

import (
	"errors"
	"fmt"
	"time"

	wifimgr "github.com/dogeorg/wifimgr/pkg"
	"github.com/mdlayher/genetlink"
	"github.com/mdlayher/netlink"
	"github.com/mdlayher/netlink/nlenc"
	"github.com/mdlayher/wifi"
	"golang.org/x/sys/unix"
)

var ErrNoWifiInterface = errors.New("no wifi interface found")

var _ WifiScanner = &NL80211Scanner{}

// NL80211Scanner owns a generic netlink socket bound to nl80211 and the
// one WiFi interface it was resolved against.
type NL80211Scanner struct {
	c             *genetlink.Conn
	familyID      uint16
	familyVersion uint8

	ifi    Interface
	settle time.Duration
	log    wifimgr.Logger
}

// NewNL80211Scanner dials generic netlink, resolves nl80211 and picks a
// WiFi interface. Any failure is fatal and nothing is left open.
func NewNL80211Scanner(config wifimgr.Config, log wifimgr.Logger) (*NL80211Scanner, error) {
	ifi, err := resolveInterface(config.Interface)
	if err != nil {
		return nil, err
	}

	c, err := genetlink.Dial(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial generic netlink: %w", err)
	}

	return newScanner(c, ifi, config.ScanSettle, log)
}

func newScanner(c *genetlink.Conn, ifi Interface, settle time.Duration, log wifimgr.Logger) (*NL80211Scanner, error) {
	family, err := c.GetFamily(unix.NL80211_GENL_NAME)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to resolve %s family: %w", unix.NL80211_GENL_NAME, err)
	}

	log.Infof("Using wifi interface %s (index %d, phy %d)", ifi.Name, ifi.Index, ifi.PHY)

	return &NL80211Scanner{
		c:             c,
		familyID:      family.ID,
		familyVersion: family.Version,
		ifi:           ifi,
		settle:        settle,
		log:           log,
	}, nil
}

func resolveInterface(name string) (Interface, error) {
	client, err := wifi.New()
	if err != nil {
		return Interface{}, fmt.Errorf("could not init a wifi interface client: %w", err)
	}
	defer client.Close()

	ifis, err := client.Interfaces()
	if err != nil {
		return Interface{}, fmt.Errorf("could not list wifi interfaces: %w", err)
	}

	return pickInterface(ifis, name)
}

// pickInterface prefers the named interface, then the first station,
// then whatever named interface comes first.
func pickInterface(ifis []*wifi.Interface, name string) (Interface, error) {
	var station, fallback *wifi.Interface
	for _, ifi := range ifis {
		// P2P devices and other netdev-less wdevs have no name.
		if ifi.Name == "" || ifi.Index == 0 {
			continue
		}
		if name != "" {
			if ifi.Name == name {
				return toInterface(ifi), nil
			}
			continue
		}
		if station == nil && ifi.Type == wifi.InterfaceTypeStation {
			station = ifi
		}
		if fallback == nil {
			fallback = ifi
		}
	}

	switch {
	case name != "":
		return Interface{}, fmt.Errorf("%w: %s", ErrNoWifiInterface, name)
	case station != nil:
		return toInterface(station), nil
	case fallback != nil:
		return toInterface(fallback), nil
	}
	return Interface{}, ErrNoWifiInterface
}

func toInterface(ifi *wifi.Interface) Interface {
	return Interface{Name: ifi.Name, Index: ifi.Index, PHY: ifi.PHY}
}

func (s *NL80211Scanner) Interface() Interface { return s.ifi }

func (s *NL80211Scanner) Close() error { return s.c.Close() }

// Scan triggers a scan, waits a fixed settle interval and dumps the
// kernel's BSS table. It never fails: errors are logged and whatever was
// gathered so far is returned.
func (s *NL80211Scanner) Scan() []wifimgr.Network {
	networks := []wifimgr.Network{}

	_, err := s.execute(unix.NL80211_CMD_TRIGGER_SCAN, netlink.Acknowledge, nil)
	switch {
	case errors.Is(err, unix.EBUSY):
		// Someone else is already scanning; their results land in the
		// same BSS table.
		s.log.Warnf("Scan already in progress on %s, reading existing results", s.ifi.Name)
	case err != nil:
		s.log.Errorf("Failed to trigger scan on %s: %v", s.ifi.Name, err)
		return networks
	}

	time.Sleep(s.settle)

	msgs, err := s.execute(unix.NL80211_CMD_GET_SCAN, netlink.Dump, nil)
	if err != nil {
		s.log.Errorf("Failed to dump scan results on %s: %v", s.ifi.Name, err)
		return networks
	}

	return parseScanResults(msgs, s.log)
}

// SupportsAP asks nl80211 whether the interface's wiphy can run in AP mode.
func (s *NL80211Scanner) SupportsAP() (bool, error) {
	msgs, err := s.execute(
		unix.NL80211_CMD_GET_WIPHY,
		netlink.Dump,
		func(ae *netlink.AttributeEncoder) {
			ae.Flag(unix.NL80211_ATTR_SPLIT_WIPHY_DUMP, true)
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to query wiphy capabilities: %w", err)
	}

	return parseSupportsAP(msgs, s.ifi.PHY)
}

// execute sends cmd for the bound interface with optional extra
// attributes; the request flag is always set.
func (s *NL80211Scanner) execute(
	cmd uint8,
	flags netlink.HeaderFlags,
	params func(ae *netlink.AttributeEncoder),
) ([]genetlink.Message, error) {
	ae := netlink.NewAttributeEncoder()
	ae.Uint32(unix.NL80211_ATTR_IFINDEX, uint32(s.ifi.Index))
	if params != nil {
		params(ae)
	}

	b, err := ae.Encode()
	if err != nil {
		return nil, err
	}

	return s.c.Execute(
		genetlink.Message{
			Header: genetlink.Header{
				Command: cmd,
				Version: s.familyVersion,
			},
			Data: b,
		},
		s.familyID,
		netlink.Request|flags,
	)
}

func parseScanResults(msgs []genetlink.Message, log wifimgr.Logger) []wifimgr.Network {
	networks := []wifimgr.Network{}
	for _, m := range msgs {
		attrs, err := netlink.UnmarshalAttributes(m.Data)
		if err != nil {
			log.Warnf("Skipping malformed scan message: %v", err)
			continue
		}

		for _, a := range attrs {
			if a.Type != unix.NL80211_ATTR_BSS {
				continue
			}

			n, ok := parseBSS(a.Data)
			if !ok {
				continue
			}
			networks = append(networks, n)
		}
	}

	return dedupe(networks)
}

// parseBSS decodes one NL80211_ATTR_BSS nest. Records without a BSSID or
// information elements are rejected.
func parseBSS(b []byte) (wifimgr.Network, bool) {
	attrs, err := netlink.UnmarshalAttributes(b)
	if err != nil {
		return wifimgr.Network{}, false
	}

	var (
		n             wifimgr.Network
		bssid, rawIEs []byte
		hasIEs        bool
		capability    uint16
		hasCapability bool
		hasMBM        bool
	)

	for _, a := range attrs {
		switch a.Type {
		case unix.NL80211_BSS_BSSID:
			bssid = a.Data
		case unix.NL80211_BSS_INFORMATION_ELEMENTS:
			rawIEs = a.Data
			hasIEs = true
		case unix.NL80211_BSS_CAPABILITY:
			if len(a.Data) == 2 {
				capability = nlenc.Uint16(a.Data)
				hasCapability = true
			}
		case unix.NL80211_BSS_FREQUENCY:
			if len(a.Data) == 4 {
				n.Frequency = int(nlenc.Uint32(a.Data))
			}
		case unix.NL80211_BSS_SIGNAL_MBM:
			// s32, hundredths of dBm
			if len(a.Data) == 4 {
				n.Signal = int(nlenc.Int32(a.Data)) / 100
				hasMBM = true
			}
		case unix.NL80211_BSS_SIGNAL_UNSPEC:
			// u8 quality 0..100, only used when no mBm value exists
			if !hasMBM && len(a.Data) == 1 {
				n.Signal = int(a.Data[0])
			}
		}
	}

	if len(bssid) != 6 || !hasIEs {
		return wifimgr.Network{}, false
	}

	ies := parseIEs(rawIEs)
	n.BSSID = formatBSSID(bssid)
	n.SSID = string(ies.ssid)
	n.Security = classifySecurity(hasCapability, capability, ies)
	n.Channel = Channel(n.Frequency)

	return n, true
}

// parseSupportsAP scans a (split) wiphy dump for the AP interface type,
// ignoring messages that belong to a different wiphy.
func parseSupportsAP(msgs []genetlink.Message, phy int) (bool, error) {
	for _, m := range msgs {
		attrs, err := netlink.UnmarshalAttributes(m.Data)
		if err != nil {
			return false, err
		}

		wiphy := -1
		ap := false
		for _, a := range attrs {
			switch a.Type {
			case unix.NL80211_ATTR_WIPHY:
				if len(a.Data) == 4 {
					wiphy = int(nlenc.Uint32(a.Data))
				}
			case unix.NL80211_ATTR_SUPPORTED_IFTYPES:
				nattrs, err := netlink.UnmarshalAttributes(a.Data)
				if err != nil {
					return false, err
				}
				for _, na := range nattrs {
					if na.Type == unix.NL80211_IFTYPE_AP {
						ap = true
					}
				}
			}
		}

		if ap && (wiphy == -1 || wiphy == phy) {
			return true, nil
		}
	}

	return false, nil
}
