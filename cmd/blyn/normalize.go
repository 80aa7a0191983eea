package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/blyn/internal/pipeline"
	"github.com/jonathan/blyn/internal/types"
	"github.com/spf13/cobra"
)

func newNormalizeCmd(opts *rootOptions) *cobra.Command {
	var (
		source string
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a raw profile record into the common profile",
		Long: `Normalize maps a document-extraction record, questionnaire answers or a scraped
profile page record (JSON) into the common profile. With --owner the result is
saved as the owner's next profile version.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind := types.SourceKind(source)
			if !kind.Valid() {
				return fmt.Errorf("invalid --source %q (use document, questionnaire or scraped_profile)", source)
			}

			payload, err := readInput(cmd, input)
			if err != nil {
				return err
			}
			if !json.Valid(payload) {
				return fmt.Errorf("input is not valid JSON")
			}

			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.pipeline(cmd.Context(), pipelineParts{store: true})
			if err != nil {
				return err
			}
			result, err := p.Onboard(cmd.Context(), a.session, types.RawInput{Source: kind, Payload: payload})
			if err != nil {
				return err
			}
			return a.reportOnboard(output, result)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Source kind: document, questionnaire or scraped_profile")
	cmd.Flags().StringVarP(&input, "in", "i", "-", "Raw record JSON file (- for stdin)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output profile JSON file (default stdout)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

// readInput reads a file, or the command's stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

// reportOnboard writes the normalized profile and reports version and warning on stderr.
func (a *app) reportOnboard(output string, result *pipeline.OnboardResult) error {
	a.printer.PrintWarning(result.WarningMessage())
	if a.cfg.Verbose {
		a.printer.PrintProfile(result.Profile)
	}
	if err := a.writeJSON(output, result.Profile); err != nil {
		return err
	}
	if result.Record != nil {
		a.printer.PrintInfo(fmt.Sprintf("Saved profile version %d", result.Record.VersionNumber))
	}
	return nil
}
