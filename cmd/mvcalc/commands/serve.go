package commands

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mvcalc/internal/scoring"
	"mvcalc/internal/server"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	listenAddr  string
	openBrowser bool
)

// listenDashboard binds the listen address and builds the HTTP server
// around it. Binding happens here, before the serve loop starts, so
// callers can rely on the port being open.
func listenDashboard(addr string, defaults scoring.Engine) (net.Listener, *http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	httpSrv := &http.Server{
		Handler:           server.New(defaults).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return ln, httpSrv, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local MV analysis dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := listenAddr
		if addr == "" {
			addr = cfg.ListenAddr
		}

		ln, httpSrv, err := listenDashboard(addr, scoring.Engine{
			Thresholds: cfg.Thresholds,
			Windows:    scoring.HourlyWindows,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Info().Str("addr", ln.Addr().String()).Msg("dashboard listening")
			if err := httpSrv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		})

		// The port is bound at this point, so the page resolves even if
		// the browser races the serve loop.
		if openBrowser {
			if err := browser.OpenURL("http://" + ln.Addr().String() + "/"); err != nil {
				log.Warn().Err(err).Msg("could not open browser")
			}
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (default: config listen address)")
	serveCmd.Flags().BoolVar(&openBrowser, "open", false, "open the dashboard in the default browser")

	rootCmd.AddCommand(serveCmd)
}
