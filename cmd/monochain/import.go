package monochain

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Mine and append one block per line of the given file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payloads, err := readPayloads(args[0])
		if err != nil {
			return err
		}
		if len(payloads) == 0 {
			return fmt.Errorf("no payloads found in %s", args[0])
		}

		ledger, st, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		slog.Info("Importing payloads", "count", len(payloads), "file", args[0])
		bar := progressbar.NewOptions64(
			int64(len(payloads)),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetDescription("Mining blocks..."),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
		if err := bar.RenderBlank(); err != nil {
			return fmt.Errorf("failed to render progress bar: %w", err)
		}

		// Single writer: blocks are mined and appended one at a time, each
		// sealing the hash of the previous one.
		for i, payload := range payloads {
			if _, err := ledger.Append(cmd.Context(), payload); err != nil {
				return fmt.Errorf("import stopped after %d of %d payloads: %w", i, len(payloads), err)
			}
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}

		if err := bar.Finish(); err != nil {
			return fmt.Errorf("failed to finish progress bar: %w", err)
		}

		length, err := ledger.Length(cmd.Context())
		if err != nil {
			return err
		}
		slog.Info("Import finished", "chain_length", length)
		return nil
	},
}

func readPayloads(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	var payloads [][]byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		payloads = append(payloads, []byte(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	return payloads, nil
}
