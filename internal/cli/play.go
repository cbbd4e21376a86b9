package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cxd309/motion-engine/internal/driver"
	"github.com/cxd309/motion-engine/internal/engine"
	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/logging"
	"github.com/cxd309/motion-engine/internal/motion"
	"github.com/cxd309/motion-engine/internal/telemetry"
)

var (
	playTickInterval time.Duration
	playMetricsAddr  string
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().DurationVar(&playTickInterval, "tick-interval", 0, "control cycle period (default from config, 10ms)")
	playCmd.Flags().StringVar(&playMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while playing (e.g. :9102)")
}

var playCmd = &cobra.Command{
	Use:   "play <input>",
	Short: "Play a motion in real time",
	Long: `Play a simulation input in real time. The sensor timeline is replayed
against wall time and every commanded position is written to stdout as a
JSON line.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		positionType, err := engine.PositionTypeOf(data)
		if err != nil {
			return err
		}

		interval := appConfig.Player.TickInterval
		if playTickInterval > 0 {
			interval = playTickInterval
		}
		addr := appConfig.Player.MetricsAddr
		if playMetricsAddr != "" {
			addr = playMetricsAddr
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if addr != "" {
			shutdown := serveMetrics(addr)
			defer shutdown()
		}

		name := motionName(args[0])
		cfg := driver.Config{TickInterval: interval}
		var status motion.Status
		switch positionType {
		case engine.PositionScalar:
			status, err = play[kinematics.Scalar](ctx, name, data, cfg, cmd.OutOrStdout())
		default:
			status, err = play[kinematics.Joints](ctx, name, data, cfg, cmd.OutOrStdout())
		}
		if err != nil {
			return err
		}
		if status == motion.StatusAborted {
			return fmt.Errorf("motion %s aborted", name)
		}
		return nil
	},
}

func play[T kinematics.Vector[T]](ctx context.Context, name string, data []byte, cfg driver.Config, out io.Writer) (motion.Status, error) {
	input, err := engine.DecodeInput[T](data)
	if err != nil {
		return motion.StatusRunning, err
	}
	if err := engine.ValidateTimeline(input.SensorTimeline); err != nil {
		return motion.StatusRunning, err
	}
	machine, err := engine.BuildMachine(input)
	if err != nil {
		return motion.StatusRunning, err
	}

	actuator := &jsonActuator[T]{enc: json.NewEncoder(out), start: time.Now()}
	player, err := driver.NewPlayer(name, machine, driver.NewTimelineSensors(input.SensorTimeline), actuator, cfg)
	if err != nil {
		return motion.StatusRunning, err
	}
	return player.Run(ctx)
}

// commandRecord is one line of play output.
type commandRecord[T any] struct {
	Elapsed  float64 `json:"elapsed"` // seconds since playback started
	Position T       `json:"position"`
}

// jsonActuator writes commanded positions as JSON lines.
type jsonActuator[T any] struct {
	enc   *json.Encoder
	start time.Time
}

func (a *jsonActuator[T]) Command(position T) error {
	return a.enc.Encode(commandRecord[T]{
		Elapsed:  time.Since(a.start).Seconds(),
		Position: position,
	})
}

func serveMetrics(addr string) func() {
	log := logging.Component("metrics")

	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func motionName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
