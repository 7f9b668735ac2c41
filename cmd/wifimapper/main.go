// Command wifimapper is the wifimapper command line client.
package main

import (
	"os"

	"github.com/apex/log"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/cli/app"
	_ "github.com/wifimap/survey-cli/cmd/wifimapper/internal/cli/export"
	_ "github.com/wifimap/survey-cli/cmd/wifimapper/internal/cli/list"
	_ "github.com/wifimap/survey-cli/cmd/wifimapper/internal/cli/onboard"
	_ "github.com/wifimap/survey-cli/cmd/wifimapper/internal/cli/reset"
	_ "github.com/wifimap/survey-cli/cmd/wifimapper/internal/cli/run"
	_ "github.com/wifimap/survey-cli/cmd/wifimapper/internal/cli/serve"
	_ "github.com/wifimap/survey-cli/cmd/wifimapper/internal/cli/version"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/crashreport"
)

func main() {
	err, panicValue := crashreport.CapturePanic(app.Run, nil)
	if panicValue != nil {
		log.Errorf("panic in app.Run: %v", panicValue)
		crashreport.Wait()
		os.Exit(2)
	}
	if err != nil {
		log.WithError(err).Error("wifimapper failed")
		os.Exit(1)
	}
}
