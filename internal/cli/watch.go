package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cxd309/motion-engine/internal/logging"
	"github.com/cxd309/motion-engine/internal/motionfile"
	"github.com/cxd309/motion-engine/internal/watch"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Re-validate motion files whenever they change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		log := logging.Component("watch").With().Str("dir", dir).Logger()

		paths, err := motionfile.List(dir)
		if err != nil {
			return err
		}
		for _, path := range paths {
			reportMotionFile(log, path)
		}

		w, err := watch.New(dir)
		if err != nil {
			return err
		}
		defer w.Close()

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info().Int("files", len(paths)).Msg("watching motion files")
		for {
			select {
			case <-ctx.Done():
				return nil
			case path, ok := <-w.Events:
				if !ok {
					return nil
				}
				if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
					log.Info().Str("file", path).Msg("motion file removed")
					continue
				}
				reportMotionFile(log, path)
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				log.Warn().Err(err).Msg("watch error")
			}
		}
	},
}

func reportMotionFile(log zerolog.Logger, path string) {
	summary, err := checkMotionFile(path, appConfig.PositionType)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("motion file invalid")
		return
	}
	log.Info().
		Str("file", path).
		Int("segments", summary.Segments).
		Dur("duration", summary.Duration).
		Msg("motion file ok")
}
