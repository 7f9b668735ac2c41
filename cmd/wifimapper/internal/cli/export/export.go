// Package export implements the export command.
package export

import (
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/cli/root"
	"github.com/wifimap/survey-cli/internal/database"
	"github.com/wifimap/survey-cli/internal/model"
)

func init() {
	cmd := root.Command("export", "Export the stored survey points as CSV")

	output := cmd.Flag("output", "File to write the CSV to instead of the standard output").
		Short('o').String()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		w, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize wifimapper")
			return err
		}
		defer w.Close()
		return doexport(w.Store(), *output)
	})
}

// doexport writes the stored points as CSV to the given file, or to
// the standard output when the file name is empty.
func doexport(store model.ReadableSurveyStore, file string) error {
	points, err := store.ListPoints()
	if err != nil {
		log.WithError(err).Error("failed to list points")
		return err
	}
	var writer io.Writer = os.Stdout
	if file != "" {
		filep, err := os.Create(file)
		if err != nil {
			log.WithError(err).Error("failed to create the output file")
			return err
		}
		defer filep.Close()
		writer = filep
	}
	if err := database.WriteCSV(writer, points); err != nil {
		log.WithError(err).Error("failed to export points")
		return err
	}
	if file != "" {
		log.Infof("Exported %d points to %s", len(points), file)
	}
	return nil
}
