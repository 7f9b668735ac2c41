// Package root contains the root command and the shared setup logic.
package root

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/json"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/utils"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/wifimap"
	"github.com/wifimap/survey-cli/internal/version"
)

// Cmd is the root command.
var Cmd = kingpin.New("wifimapper", "Map Wi-Fi coverage with signal and bandwidth measurements.")

// Command is syntax sugar for defining sub-commands.
var Command = Cmd.Command

// Init should be called by all subcommands that care to have a
// wifimap.WifiMap instance.
var Init func() (*wifimap.WifiMap, error)

func init() {
	configPath := Cmd.Flag("config", "Set a custom config file path").Short('c').String()
	homePath := Cmd.Flag("home", "Set a custom home directory path").String()
	isBatch := Cmd.Flag("batch", "Emit machine-parsable JSON log messages").Bool()
	verbose := Cmd.Flag("verbose", "Enable verbose log output.").Short('v').Bool()

	Cmd.PreAction(func(_ *kingpin.ParseContext) error {
		if *isBatch {
			log.SetHandler(json.Default)
		} else {
			log.SetHandler(cli.Default)
		}
		if level := os.Getenv("WIFIMAP_LOG_LEVEL"); level != "" {
			log.SetLevelFromString(level)
		}
		if *verbose {
			log.SetLevel(log.DebugLevel)
			log.Debugf("wifimapper version %s", version.Version)
		}

		Init = func() (*wifimap.WifiMap, error) {
			home := *homePath
			if home == "" {
				var err error
				home, err = utils.HomePath()
				if err != nil {
					return nil, err
				}
			}
			w := wifimap.NewWifiMap(*configPath, home)
			w.SetIsBatch(*isBatch)
			if err := w.Init(); err != nil {
				return nil, err
			}
			return w, nil
		}

		return nil
	})
}
