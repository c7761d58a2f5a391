package wifisup

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

// Status is a snapshot of the station link, the fields WifiManager
// exposes piecemeal through isConnected/getLocalIP/getStatus.
type Status struct {
	Connected bool
	SSID      string
	LocalIP   string
	RSSI      int
}

// Radio is the boundary between the supervisor and the host's Wi-Fi
// station interface, standing in for a microcontroller's WiFi.* API.
type Radio interface {
	Connect(ctx context.Context, ssid, psk string) error
	Disconnect(ctx context.Context) error
	Status(ctx context.Context) Status
	Scan(ctx context.Context) ([]string, error)
	MacAddress() string
}

// NmcliRadio drives NetworkManager's nmcli CLI, the host-OS equivalent
// of the ESP32's onboard Wi-Fi radio.
type NmcliRadio struct {
	iface string
}

// NewNmcliRadio returns a Radio controlling the named network interface
// (e.g. "wlan0") through nmcli.
func NewNmcliRadio(iface string) *NmcliRadio {
	return &NmcliRadio{iface: iface}
}

// Connect associates with ssid using psk, blocking until nmcli reports
// success or failure.
func (r *NmcliRadio) Connect(ctx context.Context, ssid, psk string) error {
	args := []string{"device", "wifi", "connect", ssid, "ifname", r.iface}
	if psk != "" {
		args = append(args, "password", psk)
	}
	out, err := exec.CommandContext(ctx, "nmcli", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("nmcli connect %q: %w: %s", ssid, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Disconnect tears down the interface's current association, a no-op
// (not an error) if it's already idle.
func (r *NmcliRadio) Disconnect(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, "nmcli", "device", "disconnect", r.iface).CombinedOutput()
	if err != nil && !strings.Contains(string(out), "not connected") {
		return fmt.Errorf("nmcli disconnect: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Status queries nmcli for the interface's current association, IP, and
// the active network's signal strength.
func (r *NmcliRadio) Status(ctx context.Context) Status {
	var st Status

	devOut, err := exec.CommandContext(ctx, "nmcli", "-t", "-f", "GENERAL.STATE,GENERAL.CONNECTION,IP4.ADDRESS",
		"device", "show", r.iface).Output()
	if err != nil {
		return st
	}
	for _, line := range strings.Split(string(devOut), "\n") {
		switch {
		case strings.HasPrefix(line, "GENERAL.STATE:"):
			st.Connected = strings.Contains(line, "connected") && !strings.Contains(line, "disconnected")
		case strings.HasPrefix(line, "GENERAL.CONNECTION:"):
			st.SSID = strings.TrimPrefix(line, "GENERAL.CONNECTION:")
		case strings.HasPrefix(line, "IP4.ADDRESS"):
			if idx := strings.Index(line, ":"); idx >= 0 {
				addr := line[idx+1:]
				if slash := strings.Index(addr, "/"); slash >= 0 {
					addr = addr[:slash]
				}
				st.LocalIP = addr
			}
		}
	}
	if st.SSID == "" || st.SSID == "--" {
		st.Connected = false
		st.SSID = ""
	}

	wifiOut, err := exec.CommandContext(ctx, "nmcli", "-t", "-f", "ACTIVE,SSID,SIGNAL", "device", "wifi", "list",
		"ifname", r.iface).Output()
	if err == nil {
		for _, line := range strings.Split(string(wifiOut), "\n") {
			fields := splitNmcliFields(line)
			if len(fields) != 3 || fields[0] != "yes" {
				continue
			}
			if rssi, convErr := strconv.Atoi(fields[2]); convErr == nil {
				st.RSSI = rssi
			}
		}
	}

	return st
}

// Scan lists nearby SSIDs, deduplicated and sorted alphabetically,
// mirroring scanWiFiNetworks's treatment of _lastScanResults.
func (r *NmcliRadio) Scan(ctx context.Context) ([]string, error) {
	out, err := exec.CommandContext(ctx, "nmcli", "-t", "-f", "SSID", "device", "wifi", "list", "ifname", r.iface,
		"--rescan", "yes").Output()
	if err != nil {
		return nil, fmt.Errorf("nmcli scan: %w", err)
	}

	seen := make(map[string]bool)
	var results []string
	for _, line := range strings.Split(string(out), "\n") {
		ssid := unescapeNmcliField(strings.TrimSpace(line))
		if ssid == "" || seen[ssid] {
			continue
		}
		seen[ssid] = true
		results = append(results, ssid)
	}
	sort.Strings(results)
	return results, nil
}

// MacAddress returns the interface's hardware address formatted as
// colon-separated uppercase hex, matching getMacAddress's "%02X:..."
// formatting.
func (r *NmcliRadio) MacAddress() string {
	iface, err := net.InterfaceByName(r.iface)
	if err != nil {
		return ""
	}
	return strings.ToUpper(iface.HardwareAddr.String())
}

// splitNmcliFields splits a nmcli -t line on unescaped colons, since
// SSIDs may themselves contain escaped colons.
func splitNmcliFields(line string) []string {
	var fields []string
	var cur strings.Builder
	escaped := false
	for _, c := range line {
		switch {
		case escaped:
			cur.WriteRune(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

func unescapeNmcliField(field string) string {
	return strings.ReplaceAll(field, `\:`, ":")
}

var _ Radio = (*NmcliRadio)(nil)
