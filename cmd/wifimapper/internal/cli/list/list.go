// Package list implements the list command.
package list

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/cli/root"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/output"
	"github.com/wifimap/survey-cli/internal/model"
)

func init() {
	cmd := root.Command("list", "List stored survey points")

	summary := cmd.Flag("summary", "Aggregate the points per network instead of listing them").Bool()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		w, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize wifimapper")
			return err
		}
		defer w.Close()
		if *summary {
			return dosummary(w.Store())
		}
		return dolist(w.Store())
	})
}

// dolist lists the stored survey points.
func dolist(store model.ReadableSurveyStore) error {
	points, err := store.ListPoints()
	if err != nil {
		log.WithError(err).Error("failed to list points")
		return err
	}
	output.SectionTitle("Survey points")
	networks := make(map[string]int)
	for idx, point := range points {
		output.PointItem(point, idx, len(points))
		networks[point.SSID]++
	}
	output.PointsSummary(output.PointsSummaryData{
		TotalPoints:   int64(len(points)),
		TotalNetworks: int64(len(networks)),
	})
	return nil
}

// dosummary renders the per-network aggregates.
func dosummary(store model.ReadableSurveyStore) error {
	summaries, err := store.SummarizeBySSID()
	if err != nil {
		log.WithError(err).Error("failed to summarize points")
		return err
	}
	output.SectionTitle("Networks")
	for _, summary := range summaries {
		output.SummaryItem(summary)
	}
	return nil
}
