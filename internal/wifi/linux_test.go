package wifi

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wifimap/survey-cli/internal/model"
)

const iwDevOutput = `phy#0
	Interface wlan0
		ifindex 3
		wdev 0x1
		addr aa:bb:cc:dd:ee:ff
		type managed
		channel 44 (5220 MHz), width: 80 MHz, center1: 5210 MHz
`

const nmcliDeviceStatusOutput = `lo:loopback
enp3s0:ethernet
wlp2s0:wifi
`

const nmcliWifiListOutput = `yes:HomeNet:AA\:BB\:CC\:DD\:EE\:01:44:5220 MHz:84:WPA2:270 Mbit/s
no:CoffeeShop:AA\:BB\:CC\:DD\:EE\:02:6:2437 MHz:51:WPA1 WPA2:130 Mbit/s
no::AA\:BB\:CC\:DD\:EE\:03:100::23::270 Mbit/s
`

const nmcliWifiListNotAssociated = `no:HomeNet:AA\:BB\:CC\:DD\:EE\:01:44:5220 MHz:84:WPA2:270 Mbit/s
`

func TestLinuxMeasurer(t *testing.T) {
	settings := &model.MeasurementSettings{InterfaceHint: "wlan0"}

	t.Run("PreflightSettings", func(t *testing.T) {
		t.Run("without nmcli installed", func(t *testing.T) {
			measurer := &linuxMeasurer{
				deps: &mockDeps{
					MockLookPath: func(file string) (string, error) {
						return "", errors.New(`exec: "nmcli": executable file not found in $PATH`)
					},
				},
				logger: model.DiscardLogger,
			}
			reason := measurer.PreflightSettings(settings)
			if !strings.Contains(reason, "nmcli not found") {
				t.Fatal("unexpected reason", reason)
			}
		})

		t.Run("without a wireless interface", func(t *testing.T) {
			measurer := &linuxMeasurer{
				deps: &mockDeps{
					MockLookPath: func(file string) (string, error) {
						return "/usr/bin/nmcli", nil
					},
					MockOutput: func(logger model.Logger, command string, args ...string) ([]byte, error) {
						return []byte("lo:loopback\n"), nil
					},
				},
				logger: model.DiscardLogger,
			}
			reason := measurer.PreflightSettings(&model.MeasurementSettings{})
			if reason != "no wireless interface found" {
				t.Fatal("unexpected reason", reason)
			}
		})

		t.Run("with everything in place", func(t *testing.T) {
			measurer := &linuxMeasurer{
				deps: &mockDeps{
					MockLookPath: func(file string) (string, error) {
						return "/usr/bin/nmcli", nil
					},
				},
				logger: model.DiscardLogger,
			}
			if reason := measurer.PreflightSettings(settings); reason != "" {
				t.Fatal("unexpected reason", reason)
			}
		})
	})

	t.Run("FindWifiInterface", func(t *testing.T) {
		t.Run("honors the interface hint", func(t *testing.T) {
			measurer := &linuxMeasurer{deps: &mockDeps{}, logger: model.DiscardLogger}
			iface, err := measurer.FindWifiInterface(settings)
			if err != nil {
				t.Fatal(err)
			}
			if iface != "wlan0" {
				t.Fatal("unexpected interface", iface)
			}
		})

		t.Run("discovers through iw", func(t *testing.T) {
			measurer := &linuxMeasurer{
				deps: &mockDeps{
					MockOutput: func(logger model.Logger, command string, args ...string) ([]byte, error) {
						if command != "iw" {
							t.Fatal("unexpected command", command)
						}
						return []byte(iwDevOutput), nil
					},
				},
				logger: model.DiscardLogger,
			}
			iface, err := measurer.FindWifiInterface(&model.MeasurementSettings{})
			if err != nil {
				t.Fatal(err)
			}
			if iface != "wlan0" {
				t.Fatal("unexpected interface", iface)
			}
		})

		t.Run("falls back to nmcli when iw is missing", func(t *testing.T) {
			measurer := &linuxMeasurer{
				deps: &mockDeps{
					MockOutput: func(logger model.Logger, command string, args ...string) ([]byte, error) {
						if command == "iw" {
							return nil, errors.New(`exec: "iw": executable file not found in $PATH`)
						}
						return []byte(nmcliDeviceStatusOutput), nil
					},
				},
				logger: model.DiscardLogger,
			}
			iface, err := measurer.FindWifiInterface(&model.MeasurementSettings{})
			if err != nil {
				t.Fatal(err)
			}
			if iface != "wlp2s0" {
				t.Fatal("unexpected interface", iface)
			}
		})

		t.Run("without any wireless interface", func(t *testing.T) {
			measurer := &linuxMeasurer{
				deps: &mockDeps{
					MockOutput: func(logger model.Logger, command string, args ...string) ([]byte, error) {
						if command == "iw" {
							return []byte(""), nil
						}
						return []byte("lo:loopback\nenp3s0:ethernet\n"), nil
					},
				},
				logger: model.DiscardLogger,
			}
			if _, err := measurer.FindWifiInterface(&model.MeasurementSettings{}); !errors.Is(err, ErrNoWifiInterface) {
				t.Fatal("unexpected err", err)
			}
		})
	})

	t.Run("ScanWifi", func(t *testing.T) {
		var gotArgs []string
		measurer := &linuxMeasurer{
			deps: &mockDeps{
				MockOutput: func(logger model.Logger, command string, args ...string) ([]byte, error) {
					gotArgs = args
					return []byte(nmcliWifiListOutput), nil
				},
			},
			logger: model.DiscardLogger,
		}
		snapshot, err := measurer.ScanWifi(settings)
		if err != nil {
			t.Fatal(err)
		}
		expectArgs := []string{
			"-t", "-f", nmcliWifiListFields, "device", "wifi", "list", "ifname", "wlan0",
		}
		if diff := cmp.Diff(expectArgs, gotArgs); diff != "" {
			t.Fatal(diff)
		}
		if len(snapshot.Networks) != 3 {
			t.Fatal("expected three networks, got", len(snapshot.Networks))
		}
		current, found := snapshot.Current()
		if !found {
			t.Fatal("expected a current network")
		}
		expect := &model.WifiNetwork{
			SSID:           "HomeNet",
			BSSID:          "aa:bb:cc:dd:ee:01",
			Band:           5220,
			Channel:        44,
			Security:       "WPA2",
			TxRate:         270,
			SignalStrength: 84,
			RSSI:           -58,
			CurrentSSID:    true,
		}
		if diff := cmp.Diff(expect, current); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("GetWifi", func(t *testing.T) {
		t.Run("reads without rescanning", func(t *testing.T) {
			var gotArgs []string
			measurer := &linuxMeasurer{
				deps: &mockDeps{
					MockOutput: func(logger model.Logger, command string, args ...string) ([]byte, error) {
						gotArgs = args
						return []byte(nmcliWifiListOutput), nil
					},
				},
				logger: model.DiscardLogger,
			}
			snapshot, err := measurer.GetWifi(settings)
			if err != nil {
				t.Fatal(err)
			}
			if gotArgs[len(gotArgs)-2] != "--rescan" || gotArgs[len(gotArgs)-1] != "no" {
				t.Fatal("expected --rescan no, got", gotArgs)
			}
			if len(snapshot.Networks) != 1 {
				t.Fatal("expected just the current network")
			}
			if snapshot.Networks[0].SSID != "HomeNet" {
				t.Fatal("unexpected network", snapshot.Networks[0])
			}
		})

		t.Run("when not associated", func(t *testing.T) {
			measurer := &linuxMeasurer{
				deps: &mockDeps{
					MockOutput: func(logger model.Logger, command string, args ...string) ([]byte, error) {
						return []byte(nmcliWifiListNotAssociated), nil
					},
				},
				logger: model.DiscardLogger,
			}
			if _, err := measurer.GetWifi(settings); !errors.Is(err, ErrNotAssociated) {
				t.Fatal("unexpected err", err)
			}
		})

		t.Run("when the subprocess fails", func(t *testing.T) {
			expected := errors.New("mocked error")
			measurer := &linuxMeasurer{
				deps: &mockDeps{
					MockOutput: func(logger model.Logger, command string, args ...string) ([]byte, error) {
						return nil, expected
					},
				},
				logger: model.DiscardLogger,
			}
			if _, err := measurer.GetWifi(settings); !errors.Is(err, expected) {
				t.Fatal("unexpected err", err)
			}
		})
	})
}

func TestParseNmcliWifiList(t *testing.T) {
	t.Run("computes the band from the channel when FREQ is empty", func(t *testing.T) {
		snapshot := parseNmcliWifiList(nmcliWifiListOutput)
		network := snapshot.Networks[2]
		if network.Channel != 100 {
			t.Fatal("unexpected channel", network.Channel)
		}
		if network.Band != 5500 {
			t.Fatal("unexpected band", network.Band)
		}
	})

	t.Run("derives the RSSI from the signal percentage", func(t *testing.T) {
		snapshot := parseNmcliWifiList(nmcliWifiListOutput)
		network := snapshot.Networks[1]
		if network.SignalStrength != 51 {
			t.Fatal("unexpected signal", network.SignalStrength)
		}
		if network.RSSI != -74 {
			t.Fatal("unexpected rssi", network.RSSI)
		}
	})

	t.Run("skips short and empty lines", func(t *testing.T) {
		snapshot := parseNmcliWifiList("\n\nyes:no\n")
		if len(snapshot.Networks) != 0 {
			t.Fatal("expected no networks")
		}
	})
}

func TestSplitTerseLine(t *testing.T) {
	type testcase struct {
		name   string
		input  string
		expect []string
	}

	cases := []testcase{{
		name:   "plain fields",
		input:  "yes:HomeNet:44",
		expect: []string{"yes", "HomeNet", "44"},
	}, {
		name:   "escaped colons inside a BSSID",
		input:  `no:Net:AA\:BB\:CC`,
		expect: []string{"no", "Net", "AA:BB:CC"},
	}, {
		name:   "escaped backslash",
		input:  `a\\b:c`,
		expect: []string{`a\b`, "c"},
	}, {
		name:   "trailing empty field",
		input:  "a:b:",
		expect: []string{"a", "b", ""},
	}, {
		name:   "empty line",
		input:  "",
		expect: []string{""},
	}}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.expect, splitTerseLine(tc.input)); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestParseIwDevInterface(t *testing.T) {
	if got := parseIwDevInterface(iwDevOutput); got != "wlan0" {
		t.Fatal("unexpected interface", got)
	}
	if got := parseIwDevInterface("phy#0\n"); got != "" {
		t.Fatal("expected no interface, got", got)
	}
}
