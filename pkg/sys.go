package wifimgr

// see ./system/network/ for implementations

// Backend is the per-platform WiFi control surface. The Linux
// implementation drives nl80211 and the helper daemons directly; other
// platforms are expected to satisfy the same contract.
//
// None of the operations return errors: failures are logged by the
// backend and surfaced as an empty result, false, or an enumerated state.
type Backend interface {
	// Scan never fails, an empty slice means nothing was found or the
	// scan could not be performed.
	Scan() []Network

	// Connect returns true only once connectivity has been verified.
	// An empty password connects to an open network.
	Connect(ssid, password string) bool

	// Disconnect is idempotent.
	Disconnect() bool

	// Status is computed from live OS state on every call.
	Status() ConnectionStatus

	// CreateHotspot tears down any station session or previous hotspot
	// before provisioning. An empty password creates an open AP.
	CreateHotspot(ssid, password string) bool

	// StopHotspot is idempotent.
	StopHotspot() bool

	IsHotspotActive() bool
	IsHotspotSupported() bool
}

// Logger is the logging capability injected into every component.
// *logrus.Logger and *logrus.Entry both satisfy it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
