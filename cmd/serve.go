package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/calburn/internal/cli"
	"github.com/theirongolddev/calburn/internal/daemon"
)

var (
	flagServeAddr         string
	flagServeEventsBuffer int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP/SSE API",
	Long:  "Serve the meal ledger over HTTP with an SSE stream of meal and goal events.\nThe API has no authentication; keep it on a loopback address.",
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query a running API for today's status",
	RunE:  runServeStatus,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default server.addr)")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func serveAddr() string {
	if flagServeAddr != "" {
		return flagServeAddr
	}
	return cfg.Server.Addr
}

func runServe(_ *cobra.Command, _ []string) error {
	addr := serveAddr()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tr, closeFn, err := openTracker(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	svc := daemon.New(tr, daemon.Config{
		Addr:         addr,
		EventsBuffer: flagServeEventsBuffer,
	}, logger)

	fmt.Printf("  calburn API listening on http://%s\n", addr)
	fmt.Printf("  Database: %s\n", cfg.DatabasePath())
	fmt.Println("  Stop with Ctrl+C")

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	addr := serveAddr()
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	fmt.Printf("  Up since: %s\n", st.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Timezone: %s\n", st.Timezone)
	fmt.Printf("  Today (%s): %s in %d meal(s)\n", st.Today.Date, cli.FormatCalories(st.Today.Consumed), st.MealsToday)
	if st.Today.Goal != nil {
		fmt.Printf("  Goal: %s", cli.FormatCalories(*st.Today.Goal))
		if st.Today.Exceeded {
			fmt.Print("  (exceeded)")
		}
		fmt.Println()
	}
	fmt.Printf("  Events: %d buffered, %d subscriber(s)\n", st.EventCount, st.SubscriberCount)
	return nil
}
