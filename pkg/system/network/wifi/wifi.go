package network_wifi

import (
	wifimgr "github.com/dogeorg/wifimgr/pkg"
)

// Interface is the WiFi interface a scanner is bound to. It is resolved
// once when the scanner is built and never re-resolved.
type Interface struct {
	Name  string
	Index int
	PHY   int
}

type WifiScanner interface {
	Interface() Interface
	Scan() []wifimgr.Network
	SupportsAP() (bool, error)
	Close() error
}
