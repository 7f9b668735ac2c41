// Package onboard implements the onboard command.
package onboard

import (
	"errors"
	"runtime"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/cli/root"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/config"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/output"
	"github.com/wifimap/survey-cli/internal/model"
)

func init() {
	cmd := root.Command("onboard", "Interactively configure wifimapper")

	yes := cmd.Flag("yes", "Keep the current settings without asking questions.").Bool()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		w, err := root.Init()
		if err != nil {
			return err
		}
		defer w.Close()
		if *yes {
			return nil
		}
		return Onboarding(w.Config())
	})
}

// Onboarding walks the user through the measurement settings and
// writes the updated config file.
func Onboarding(c *config.Config) error {
	output.SectionTitle("Welcome to wifimapper")
	output.Paragraph("wifimapper walks your floor plan with you: at every position it samples " +
		"the Wi-Fi signal and, when an iperf3 server is reachable, measures the available bandwidth.")
	output.Bullet("signal sampling needs no extra setup")
	output.Bullet("bandwidth testing needs an iperf3 server on your wired network")
	if err := output.PressEnterToContinue("Press enter to configure wifimapper..."); err != nil {
		return err
	}

	server, err := askServerAddress(c.Iperf.ServerAddress)
	if err != nil {
		return err
	}

	duration := c.Iperf.TestDuration
	tcpEnabled, udpEnabled := c.Iperf.TCPEnabled, c.Iperf.UDPEnabled
	if server != model.IperfServerDisabled {
		duration, err = askTestDuration(c.Iperf.TestDuration)
		if err != nil {
			return err
		}
		tcpEnabled, udpEnabled, err = askProtocols(tcpEnabled, udpEnabled)
		if err != nil {
			return err
		}
	}

	password := c.Sampling.SudoPassword
	if runtime.GOOS == "darwin" {
		password, err = askSudoPassword()
		if err != nil {
			return err
		}
	}

	crashReports, err := askCrashReports(c.Advanced.SendCrashReports)
	if err != nil {
		return err
	}

	c.Lock()
	c.Iperf.ServerAddress = server
	c.Iperf.TestDuration = duration
	c.Iperf.TCPEnabled = tcpEnabled
	c.Iperf.UDPEnabled = udpEnabled
	c.Sampling.SudoPassword = password
	c.Advanced.SendCrashReports = crashReports
	c.Unlock()

	if err := c.Write(); err != nil {
		log.WithError(err).Error("failed to write config file")
		return err
	}
	log.Info("Configuration saved")
	return nil
}

// askServerAddress asks which iperf3 server to measure against.
func askServerAddress(current string) (string, error) {
	server := current
	prompt := &survey.Input{
		Message: "iperf3 server address (\"localhost\" disables bandwidth testing):",
		Default: current,
	}
	if err := survey.AskOne(prompt, &server); err != nil {
		return "", err
	}
	return server, nil
}

// askTestDuration asks how long each bandwidth sub-test should run.
func askTestDuration(current int64) (int64, error) {
	duration := current
	prompt := &survey.Input{
		Message: "Duration of each bandwidth sub-test in seconds:",
		Default: strconv.FormatInt(current, 10),
	}
	if err := survey.AskOne(prompt, &duration); err != nil {
		return 0, err
	}
	if duration < 1 {
		return 0, errors.New("the duration must be at least one second")
	}
	return duration, nil
}

// askProtocols asks which bandwidth protocols to test.
func askProtocols(tcp, udp bool) (bool, bool, error) {
	defaults := []string{}
	if tcp {
		defaults = append(defaults, "TCP")
	}
	if udp {
		defaults = append(defaults, "UDP")
	}
	chosen := []string{}
	prompt := &survey.MultiSelect{
		Message: "Bandwidth protocols to test:",
		Options: []string{"TCP", "UDP"},
		Default: defaults,
	}
	if err := survey.AskOne(prompt, &chosen); err != nil {
		return false, false, err
	}
	tcp, udp = false, false
	for _, name := range chosen {
		switch name {
		case "TCP":
			tcp = true
		case "UDP":
			udp = true
		}
	}
	return tcp, udp, nil
}

// askCrashReports asks whether to submit crash reports.
func askCrashReports(current bool) (bool, error) {
	enabled := current
	prompt := &survey.Confirm{
		Message: "Send crash reports to the developers?",
		Default: current,
	}
	if err := survey.AskOne(prompt, &enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

// askSudoPassword asks for the password used to run privileged
// wireless queries on macOS. The answer ends up in the config file
// and is never logged.
func askSudoPassword() (string, error) {
	password := ""
	prompt := &survey.Password{
		Message: "Password for privileged wireless queries:",
	}
	if err := survey.AskOne(prompt, &password); err != nil {
		return "", err
	}
	return password, nil
}
