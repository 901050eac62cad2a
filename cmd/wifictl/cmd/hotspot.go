package cmd

import (
	"fmt"

	wifimgr "github.com/dogeorg/wifimgr/pkg"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var hotspotPassword string

var hotspotCmd = &cobra.Command{
	Use:   "hotspot",
	Short: "Run a WiFi access point on this machine.",
}

var hotspotStartCmd = &cobra.Command{
	Use:   "start <ssid>",
	Short: "Start a hotspot. Omit the password for an open access point.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ssid := args[0]
		withManager(func(m *wifimgr.WifiManager, logger *logrus.Logger) bool {
			if !m.IsHotspotSupported() {
				logger.Error("This interface cannot run a hotspot")
				return false
			}
			if !m.CreateHotspot(ssid, hotspotPassword) {
				logger.WithField("ssid", ssid).Error("Failed to start hotspot")
				return false
			}
			fmt.Printf("Hotspot %s is up\n", ssid)
			return true
		})(cmd, args)
	},
}

var hotspotStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the hotspot.",
	Run: withManager(func(m *wifimgr.WifiManager, logger *logrus.Logger) bool {
		return m.StopHotspot()
	}),
}

var hotspotStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a hotspot is running and whether one is possible.",
	Run: withManager(func(m *wifimgr.WifiManager, logger *logrus.Logger) bool {
		fmt.Printf("Active: %t\n", m.IsHotspotActive())
		fmt.Printf("Supported: %t\n", m.IsHotspotSupported())
		return true
	}),
}

func init() {
	hotspotStartCmd.Flags().StringVarP(&hotspotPassword, "password", "p", "", "WPA2 passphrase")
	hotspotCmd.AddCommand(hotspotStartCmd)
	hotspotCmd.AddCommand(hotspotStopCmd)
	hotspotCmd.AddCommand(hotspotStatusCmd)
	rootCmd.AddCommand(hotspotCmd)
}
