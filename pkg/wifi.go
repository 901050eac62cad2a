package wifimgr

type SecurityType int

const (
	SecurityNone SecurityType = iota
	SecurityWEP
	SecurityWPA
	SecurityWPA2
	SecurityWPA3
	SecurityUnknown
)

func (t SecurityType) String() string {
	switch t {
	case SecurityNone:
		return "None"
	case SecurityWEP:
		return "WEP"
	case SecurityWPA:
		return "WPA"
	case SecurityWPA2:
		return "WPA2"
	case SecurityWPA3:
		return "WPA3"
	default:
		return "Unknown"
	}
}

type ConnectionStatus int

const (
	StatusDisconnected ConnectionStatus = iota
	StatusConnecting
	StatusConnected
	StatusError
)

func (s ConnectionStatus) String() string {
	switch s {
	case StatusDisconnected:
		return "Disconnected"
	case StatusConnecting:
		return "Connecting"
	case StatusConnected:
		return "Connected"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Network describes a single BSS seen during a scan.
type Network struct {
	SSID      string // empty for hidden networks
	BSSID     string
	Signal    int // dBm
	Security  SecurityType
	Channel   int // 0 when the band is unknown
	Frequency int // MHz
}

func (n Network) IsSecure() bool {
	return n.Security != SecurityNone
}

// HotspotState is owned by the hotspot orchestrator. Config paths are
// only set while the hotspot is active.
type HotspotState struct {
	Active        bool
	HostapdConfig string
	DHCPConfig    string
	Interface     string
}
