package cmd

import (
	"fmt"

	wifimgr "github.com/dogeorg/wifimgr/pkg"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for nearby WiFi networks.",
	Run: withManager(func(m *wifimgr.WifiManager, logger *logrus.Logger) bool {
		networks := m.Scan()
		if len(networks) == 0 {
			fmt.Println("No networks found.")
			return true
		}

		fmt.Printf("%-32s %-17s %7s %-7s %4s\n", "SSID", "BSSID", "SIGNAL", "SEC", "CH")
		for _, n := range networks {
			ssid := n.SSID
			if ssid == "" {
				ssid = "<hidden>"
			}
			fmt.Printf("%-32s %-17s %3d dBm %-7s %4d\n", ssid, n.BSSID, n.Signal, n.Security, n.Channel)
		}
		return true
	}),
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
