package wifi

//
// Bandwidth server reachability probe
//

import (
	"fmt"
	"net"
	"time"

	"github.com/wifimap/survey-cli/internal/model"
)

const (
	// defaultIperfPort is the port we probe when the configured
	// server address does not carry one.
	defaultIperfPort = "5201"

	// serverProbeTimeout bounds the reachability probe.
	serverProbeTimeout = 3 * time.Second
)

// probeIperfServer implements the CheckIperfServer contract shared
// by all measurers: a best-effort bounded TCP dial of the configured
// server. An empty return value means the server looks reachable.
func probeIperfServer(deps dependencies, settings *model.MeasurementSettings) string {
	address := settings.IperfServerAddress
	if address == "" {
		return "no iperf3 server address configured"
	}
	if _, _, err := net.SplitHostPort(address); err != nil {
		address = net.JoinHostPort(address, defaultIperfPort)
	}
	conn, err := deps.DialTimeout("tcp", address, serverProbeTimeout)
	if err != nil {
		return fmt.Sprintf("cannot reach the iperf3 server at %s: %s", address, err.Error())
	}
	conn.Close()
	return ""
}
