//go:build linux

package network_wifi

import (
	"errors"
	"testing"

	wifimgr "github.com/dogeorg/wifimgr/pkg"
	"github.com/mdlayher/genetlink"
	"github.com/mdlayher/genetlink/genltest"
	"github.com/mdlayher/netlink"
	"github.com/mdlayher/netlink/nlenc"
	"github.com/mdlayher/wifi"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

var familyNL80211 = genetlink.Family{
	ID:      0x1c,
	Name:    unix.NL80211_GENL_NAME,
	Version: 1,
}

var testInterface = Interface{Name: "wlan0", Index: 3, PHY: 0}

type bss struct {
	bssid      []byte
	ies        []byte
	capability *uint16
	freq       uint32
	mbm        *int32
}

func u16(v uint16) *uint16 { return &v }
func i32(v int32) *int32   { return &v }

func (b bss) message(t *testing.T) genetlink.Message {
	t.Helper()

	var attrs []netlink.Attribute
	if b.bssid != nil {
		attrs = append(attrs, netlink.Attribute{Type: unix.NL80211_BSS_BSSID, Data: b.bssid})
	}
	if b.freq != 0 {
		attrs = append(attrs, netlink.Attribute{Type: unix.NL80211_BSS_FREQUENCY, Data: nlenc.Uint32Bytes(b.freq)})
	}
	if b.capability != nil {
		attrs = append(attrs, netlink.Attribute{Type: unix.NL80211_BSS_CAPABILITY, Data: nlenc.Uint16Bytes(*b.capability)})
	}
	if b.mbm != nil {
		attrs = append(attrs, netlink.Attribute{Type: unix.NL80211_BSS_SIGNAL_MBM, Data: nlenc.Int32Bytes(*b.mbm)})
	}
	if b.ies != nil {
		attrs = append(attrs, netlink.Attribute{Type: unix.NL80211_BSS_INFORMATION_ELEMENTS, Data: b.ies})
	}

	nested, err := netlink.MarshalAttributes(attrs)
	require.NoError(t, err)

	data, err := netlink.MarshalAttributes([]netlink.Attribute{
		{Type: unix.NL80211_ATTR_IFINDEX, Data: nlenc.Uint32Bytes(uint32(testInterface.Index))},
		{Type: unix.NL80211_ATTR_BSS, Data: nested},
	})
	require.NoError(t, err)

	return genetlink.Message{
		Header: genetlink.Header{Command: unix.NL80211_CMD_NEW_SCAN_RESULTS, Version: familyNL80211.Version},
		Data:   data,
	}
}

func testScanner(t *testing.T, fn genltest.Func) *NL80211Scanner {
	t.Helper()

	logger, _ := test.NewNullLogger()
	c := genltest.Dial(genltest.ServeFamily(familyNL80211, fn))

	s, err := newScanner(c, testInterface, 0, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestScan(t *testing.T) {
	results := []bss{
		{
			bssid:      []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
			ies:        join(ie(ieSSID, []byte("home")...), ie(ieRSN, rsnElement(akmPSK)...)),
			capability: u16(0x0011),
			freq:       2437,
			mbm:        i32(-4500),
		},
		{
			// same SSID, different BSS: dropped by dedup
			bssid:      []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x66},
			ies:        join(ie(ieSSID, []byte("home")...)),
			capability: u16(0x0001),
			freq:       5180,
			mbm:        i32(-7000),
		},
		{
			// hidden network, kept
			bssid:      []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x77},
			ies:        ie(ieSSID),
			capability: u16(0x0001),
			freq:       5180,
		},
		{
			// no information elements: skipped
			bssid:      []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x88},
			capability: u16(0x0001),
			freq:       2412,
		},
		{
			// no BSSID: skipped
			ies:  ie(ieSSID, []byte("ghost")...),
			freq: 2412,
		},
		{
			bssid: []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x99},
			ies:   join(ie(ieSSID, []byte("cafe")...), ie(ieVendor, wpaVendorElement...)),
			freq:  6000,
		},
	}

	var commands []uint8
	s := testScanner(t, func(greq genetlink.Message, nreq netlink.Message) ([]genetlink.Message, error) {
		commands = append(commands, greq.Header.Command)

		attrs, err := netlink.UnmarshalAttributes(greq.Data)
		require.NoError(t, err)
		require.NotEmpty(t, attrs)
		assert.Equal(t, uint16(unix.NL80211_ATTR_IFINDEX), attrs[0].Type)
		assert.Equal(t, uint32(testInterface.Index), nlenc.Uint32(attrs[0].Data))

		switch greq.Header.Command {
		case unix.NL80211_CMD_TRIGGER_SCAN:
			return []genetlink.Message{{Header: greq.Header}}, nil
		case unix.NL80211_CMD_GET_SCAN:
			assert.NotZero(t, nreq.Header.Flags&netlink.Dump)
			msgs := make([]genetlink.Message, 0, len(results))
			for _, r := range results {
				msgs = append(msgs, r.message(t))
			}
			return msgs, nil
		}
		return nil, errors.New("unexpected command")
	})

	networks := s.Scan()
	assert.Equal(t, []uint8{unix.NL80211_CMD_TRIGGER_SCAN, unix.NL80211_CMD_GET_SCAN}, commands)

	require.Len(t, networks, 3)
	assert.Equal(t, wifimgr.Network{
		SSID:      "home",
		BSSID:     "00:11:22:33:44:55",
		Signal:    -45,
		Security:  wifimgr.SecurityWPA2,
		Channel:   6,
		Frequency: 2437,
	}, networks[0])

	assert.Equal(t, "", networks[1].SSID)
	assert.Equal(t, "00:11:22:33:44:77", networks[1].BSSID)
	assert.Equal(t, wifimgr.SecurityNone, networks[1].Security)
	assert.Equal(t, 36, networks[1].Channel)

	assert.Equal(t, "cafe", networks[2].SSID)
	assert.Equal(t, wifimgr.SecurityUnknown, networks[2].Security)
	assert.Equal(t, 0, networks[2].Channel)
}

func TestScanTriggerFailure(t *testing.T) {
	dumped := false
	s := testScanner(t, func(greq genetlink.Message, _ netlink.Message) ([]genetlink.Message, error) {
		if greq.Header.Command == unix.NL80211_CMD_GET_SCAN {
			dumped = true
		}
		return nil, errors.New("operation not permitted")
	})

	networks := s.Scan()
	assert.NotNil(t, networks)
	assert.Empty(t, networks)
	assert.False(t, dumped)
}

func TestSupportsAP(t *testing.T) {
	iftypes := func(types ...uint16) []byte {
		var attrs []netlink.Attribute
		for _, typ := range types {
			attrs = append(attrs, netlink.Attribute{Type: typ})
		}
		b, err := netlink.MarshalAttributes(attrs)
		require.NoError(t, err)
		return b
	}

	wiphy := func(phy uint32, types ...uint16) genetlink.Message {
		b, err := netlink.MarshalAttributes([]netlink.Attribute{
			{Type: unix.NL80211_ATTR_WIPHY, Data: nlenc.Uint32Bytes(phy)},
			{Type: unix.NL80211_ATTR_SUPPORTED_IFTYPES, Data: iftypes(types...)},
		})
		require.NoError(t, err)
		return genetlink.Message{Data: b}
	}

	tests := []struct {
		name string
		msgs []genetlink.Message
		want bool
	}{
		{"ap supported", []genetlink.Message{wiphy(0, unix.NL80211_IFTYPE_STATION, unix.NL80211_IFTYPE_AP)}, true},
		{"station only", []genetlink.Message{wiphy(0, unix.NL80211_IFTYPE_STATION)}, false},
		{"ap on another phy", []genetlink.Message{wiphy(1, unix.NL80211_IFTYPE_AP), wiphy(0, unix.NL80211_IFTYPE_STATION)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testScanner(t, func(greq genetlink.Message, _ netlink.Message) ([]genetlink.Message, error) {
				require.Equal(t, uint8(unix.NL80211_CMD_GET_WIPHY), greq.Header.Command)
				return tt.msgs, nil
			})

			ok, err := s.SupportsAP()
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestNewScannerUnknownFamily(t *testing.T) {
	logger, _ := test.NewNullLogger()
	c := genltest.Dial(func(_ genetlink.Message, _ netlink.Message) ([]genetlink.Message, error) {
		return nil, unix.ENOENT
	})

	_, err := newScanner(c, testInterface, 0, logger)
	assert.Error(t, err)
}

func TestPickInterface(t *testing.T) {
	ifis := []*wifi.Interface{
		{Index: 0, Name: "", Type: wifi.InterfaceTypeStation},
		{Index: 4, Name: "ap0", PHY: 1, Type: wifi.InterfaceTypeAP},
		{Index: 3, Name: "wlan0", PHY: 0, Type: wifi.InterfaceTypeStation},
	}

	ifi, err := pickInterface(ifis, "")
	require.NoError(t, err)
	assert.Equal(t, Interface{Name: "wlan0", Index: 3, PHY: 0}, ifi)

	ifi, err = pickInterface(ifis, "ap0")
	require.NoError(t, err)
	assert.Equal(t, Interface{Name: "ap0", Index: 4, PHY: 1}, ifi)

	_, err = pickInterface(ifis, "wlan9")
	assert.ErrorIs(t, err, ErrNoWifiInterface)

	_, err = pickInterface(nil, "")
	assert.ErrorIs(t, err, ErrNoWifiInterface)

	ifi, err = pickInterface(ifis[:2], "")
	require.NoError(t, err)
	assert.Equal(t, "ap0", ifi.Name)
}
