package cmd

import (
	"fmt"

	wifimgr "github.com/dogeorg/wifimgr/pkg"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var password string

var connectCmd = &cobra.Command{
	Use:   "connect <ssid>",
	Short: "Join a WiFi network. Omit the password for open networks.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ssid := args[0]
		withManager(func(m *wifimgr.WifiManager, logger *logrus.Logger) bool {
			if !m.Connect(ssid, password) {
				logger.WithField("ssid", ssid).Error("Failed to connect")
				return false
			}
			fmt.Printf("Connected to %s\n", ssid)
			return true
		})(cmd, args)
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Leave the current WiFi network.",
	Run: withManager(func(m *wifimgr.WifiManager, logger *logrus.Logger) bool {
		ok := m.Disconnect()
		if ok {
			fmt.Println("Disconnected")
		}
		return ok
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the station connection status.",
	Run: withManager(func(m *wifimgr.WifiManager, logger *logrus.Logger) bool {
		fmt.Printf("Status: %s\n", m.Status())
		return true
	}),
}

func init() {
	connectCmd.Flags().StringVarP(&password, "password", "p", "", "WPA passphrase")
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
	rootCmd.AddCommand(statusCmd)
}
