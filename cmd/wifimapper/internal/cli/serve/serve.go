// Package serve implements the serve command.
package serve

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wifimap/survey-cli/cmd/wifimapper/internal/cli/root"
	"github.com/wifimap/survey-cli/internal/surveyd"
	"github.com/wifimap/survey-cli/internal/wsstream"
)

func init() {
	cmd := root.Command("serve", "Run the local survey daemon")

	address := cmd.Flag("address", "Endpoint where the daemon should listen").String()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		w, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize wifimapper")
			return err
		}
		defer w.Close()

		endpoint := *address
		if endpoint == "" {
			endpoint = w.Config().Advanced.DaemonAddress
		}

		hub := wsstream.NewHub(log.Log)
		defer hub.Close()
		handler := surveyd.NewHandler(
			log.Log, w.NewRunner(hub), w.Store(),
			w.Config().MeasurementSettings(), hub,
		)
		mux := surveyd.NewServeMux(handler, promhttp.Handler())

		listener, err := net.Listen("tcp", endpoint)
		if err != nil {
			log.WithError(err).Error("failed to listen")
			return err
		}
		srv := &http.Server{Addr: endpoint, Handler: mux}
		go srv.Serve(listener)
		log.Infof("daemon listening on http://%s/", listener.Addr().String())

		ctx, cancel := w.ListenForSignals(context.Background())
		defer cancel()
		<-ctx.Done()
		return shutdown(srv)
	})
}

// maxShutdownTime is the maximum time for which we're willing to wait
// for the daemon to shut down.
const maxShutdownTime = 45 * time.Second

// shutdown closes the daemon gracefully.
func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), maxShutdownTime)
	defer cancel()
	return srv.Shutdown(ctx)
}
