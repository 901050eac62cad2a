package wifimgr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSSID       = errors.New("invalid ssid")
	ErrInvalidPassphrase = errors.New("invalid passphrase")
)

// ValidateSSID rejects anything that cannot be embedded verbatim in a
// wpa_supplicant or hostapd config line.
func ValidateSSID(ssid string) error {
	if len(ssid) == 0 || len(ssid) > 32 {
		return fmt.Errorf("%w: length %d not in 1..32", ErrInvalidSSID, len(ssid))
	}
	for i := 0; i < len(ssid); i++ {
		switch ssid[i] {
		case 0, '\n', '\r', '"':
			return fmt.Errorf("%w: forbidden byte 0x%02x", ErrInvalidSSID, ssid[i])
		}
	}
	return nil
}

// ValidatePassphrase accepts the empty string (open network) or a
// WPA-PSK passphrase of 8..63 printable ASCII characters.
func ValidatePassphrase(password string) error {
	if password == "" {
		return nil
	}
	if len(password) < 8 || len(password) > 63 {
		return fmt.Errorf("%w: length %d not in 8..63", ErrInvalidPassphrase, len(password))
	}
	for _, r := range password {
		if r < 0x20 || r > 0x7e || r == '"' {
			return fmt.Errorf("%w: forbidden character %q", ErrInvalidPassphrase, r)
		}
	}
	return nil
}
