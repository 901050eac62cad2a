package network_wifi

import (
	"bytes"
	"encoding/binary"
	"net"

	wifimgr "github.com/dogeorg/wifimgr/pkg"
)

// 802.11 information element IDs
const (
	ieSSID   = 0
	ieRSN    = 48
	ieVendor = 221
)

const (
	// capabilityPrivacy is the privacy bit of the BSS capability field.
	capabilityPrivacy = 0x0010

	wpaVendorType = 0x01
)

var (
	ouiMicrosoft = []byte{0x00, 0x50, 0xf2}
	ouiIEEE      = []byte{0x00, 0x0f, 0xac}
)

// RSN AKM suite types under the IEEE OUI.
const (
	akmPSK       = 2
	akmFTPSK     = 4
	akmPSKSHA256 = 6
	akmSAE       = 8
	akmFTSAE     = 9
)

type informationElements struct {
	ssid   []byte
	rsn    []byte
	hasRSN bool
	hasWPA bool
}

// parseIEs walks a buffer of (tag, length, value) triples. A truncated
// trailing element ends the walk; everything before it is kept.
func parseIEs(b []byte) informationElements {
	var ies informationElements
	for len(b) >= 2 {
		id, l := b[0], int(b[1])
		b = b[2:]
		if len(b) < l {
			break
		}
		v := b[:l]
		b = b[l:]

		switch id {
		case ieSSID:
			if ies.ssid == nil {
				ies.ssid = v
			}
		case ieRSN:
			ies.rsn = v
			ies.hasRSN = true
		case ieVendor:
			if len(v) >= 4 && bytes.Equal(v[:3], ouiMicrosoft) && v[3] == wpaVendorType {
				ies.hasWPA = true
			}
		}
	}
	return ies
}

// rsnAKMs returns the AKM suite types advertised under the IEEE OUI, or
// nil when the element is too short to carry an AKM list.
func rsnAKMs(b []byte) []uint8 {
	// version(2) + group cipher(4)
	pos := 6
	if len(b) < pos+2 {
		return nil
	}
	pairwise := int(binary.LittleEndian.Uint16(b[pos:]))
	pos += 2 + 4*pairwise
	if len(b) < pos+2 {
		return nil
	}
	count := int(binary.LittleEndian.Uint16(b[pos:]))
	pos += 2
	if len(b) < pos+4*count {
		return nil
	}

	akms := make([]uint8, 0, count)
	for i := 0; i < count; i++ {
		suite := b[pos : pos+4]
		pos += 4
		if bytes.Equal(suite[:3], ouiIEEE) {
			akms = append(akms, suite[3])
		}
	}
	return akms
}

// isSAEOnly reports an RSN element that offers SAE and no PSK variant,
// i.e. a network a WPA2-only client cannot join.
func isSAEOnly(rsn []byte) bool {
	sae, psk := false, false
	for _, akm := range rsnAKMs(rsn) {
		switch akm {
		case akmSAE, akmFTSAE:
			sae = true
		case akmPSK, akmFTPSK, akmPSKSHA256:
			psk = true
		}
	}
	return sae && !psk
}

// classifySecurity applies the precedence privacy bit > RSN > WPA > WEP.
func classifySecurity(hasCapability bool, capability uint16, ies informationElements) wifimgr.SecurityType {
	if !hasCapability {
		return wifimgr.SecurityUnknown
	}
	if capability&capabilityPrivacy == 0 {
		return wifimgr.SecurityNone
	}
	if ies.hasRSN {
		if isSAEOnly(ies.rsn) {
			return wifimgr.SecurityWPA3
		}
		return wifimgr.SecurityWPA2
	}
	if ies.hasWPA {
		return wifimgr.SecurityWPA
	}
	return wifimgr.SecurityWEP
}

// Channel maps a centre frequency in MHz to its channel number, or 0 for
// frequencies outside the 2.4 GHz and 5 GHz bands.
func Channel(freq int) int {
	switch {
	case freq >= 2412 && freq <= 2484:
		return (freq-2412)/5 + 1
	case freq >= 5170 && freq <= 5825:
		return (freq-5170)/5 + 34
	default:
		return 0
	}
}

func formatBSSID(b []byte) string {
	return net.HardwareAddr(b).String()
}

// dedupe drops later entries whose non-empty SSID was already seen.
// Hidden networks are always kept.
func dedupe(networks []wifimgr.Network) []wifimgr.Network {
	seen := map[string]bool{}
	out := make([]wifimgr.Network, 0, len(networks))
	for _, n := range networks {
		if n.SSID != "" {
			if seen[n.SSID] {
				continue
			}
			seen[n.SSID] = true
		}
		out = append(out, n)
	}
	return out
}
