package reset

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/cli/root"
)

func init() {
	cmd := root.Command("reset", "Delete the wifimapper home and everything in it")
	force := cmd.Flag("force", "Force deleting the wifimapper home").Bool()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		w, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize wifimapper")
			return err
		}
		// Close the DB first, otherwise it is rewritten on close after
		// we have deleted the home directory.
		if err := w.Close(); err != nil {
			log.WithError(err).Error("failed to close the DB")
			return err
		}
		if *force {
			os.RemoveAll(w.Home())
			log.Infof("Deleted %s", w.Home())
		} else {
			log.Infof("Run with --force to delete %s", w.Home())
		}

		return nil
	})
}
