package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cxd309/motion-engine/internal/engine"
)

var runOutput string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "write the simulation log to a file instead of stdout")
}

var runCmd = &cobra.Command{
	Use:   "run [input]",
	Short: "Simulate a motion against a sensor timeline",
	Long: `Run a simulation input (YAML or JSON) and print the SimulationLog as JSON.
The input is read from stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		result, err := engine.RunJSON(string(data))
		if err != nil {
			return fmt.Errorf("simulation error: %w", err)
		}

		if runOutput != "" {
			if err := os.WriteFile(runOutput, []byte(result+"\n"), 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", runOutput, err)
			}
			return nil
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
		return err
	},
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("error reading input: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	return data, nil
}
