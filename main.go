package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"race-delta/config"
	"race-delta/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "race-delta",
	Short: "Formula 1 analytics dashboard",
	Long: `race-delta serves a dashboard for a race-delta analytics backend.
It probes the configured backend candidates, remembers the first one that
answers, and renders drivers, teams, standings and live timing from it.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server (default)",
	RunE:  runServe,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the backend origin and print the probe report",
	RunE:  runResolve,
}

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Forget the persisted backend origin",
	RunE:  runForget,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")
	rootCmd.AddCommand(serveCmd, resolveCmd, forgetCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// setup loads config and builds the app. The returned cleanup closes the db
// and flushes the logger.
func setup() (*app, func(), error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	lggr, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	db, store, err := openStore(cfg)
	if err != nil {
		_ = lggr.Sync()
		return nil, nil, err
	}
	cleanup := func() {
		if db != nil {
			db.Close()
		}
		_ = lggr.Sync()
	}
	if store == nil {
		lggr.Infow("Api base persistence disabled, using first candidate without probing")
	}
	return newApp(cfg, lggr, store), cleanup, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return serve(cmd.Context(), srv, a.lggr)
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, lggr *zap.SugaredLogger) error {
	errCh := make(chan error, 1)
	go func() {
		lggr.Infow("🏎️ Race Delta is running", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	lggr.Infow("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

var errNoOrigin = errors.New("no backend candidate reachable")

func runResolve(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	rep := a.report(cmd.Context())
	printReport(cmd, rep)
	if !rep.Available {
		return errNoOrigin
	}
	return nil
}

func printReport(cmd *cobra.Command, rep baseReport) {
	out := cmd.OutOrStdout()
	if rep.Available {
		fmt.Fprintf(out, "origin: %s\n", rep.Origin)
	} else {
		fmt.Fprintln(out, "origin: none")
	}
	fmt.Fprintf(out, "persistent: %t\n", rep.Persistent)
	if len(rep.LastAttempt) == 0 {
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tSTATUS\tCODE\tLATENCY\tCHECKED")
	for _, p := range rep.LastAttempt {
		code := "-"
		if p.StatusCode > 0 {
			code = fmt.Sprint(p.StatusCode)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.URL, p.Status, code, p.Latency.Round(time.Millisecond), humanize.Time(p.CheckedAt))
	}
	_ = tw.Flush()
}

func runForget(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.forgetBackend(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "persisted backend origin cleared")
	return nil
}
