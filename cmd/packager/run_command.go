package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	packager "github.com/theassyrian/shaka-packager"
	"github.com/theassyrian/shaka-packager/internal/logging"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags keyFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Package the streams described by the configuration document",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.ensureDocument()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{Level: "info"})
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			params, err := toPackagingParams(doc, flags, logger)
			if err != nil {
				return err
			}
			descriptors := toStreamDescriptors(doc)

			p := packager.New()
			if err := p.Initialize(params, descriptors); err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			if err := p.Run(); err != nil {
				return fmt.Errorf("run: %w", err)
			}

			cmd.Println(renderRunSummary(descriptors, shouldColorize(os.Stdout)))
			return nil
		},
	}

	registerKeyFlags(cmd, &flags)
	return cmd
}

func renderRunSummary(descriptors []packager.StreamDescriptor, colorize bool) string {
	headers := []string{"Input", "Selector", "Output"}
	rows := make([][]string, 0, len(descriptors))
	for _, d := range descriptors {
		rows = append(rows, []string{d.Input, d.StreamSelector, d.Output})
	}
	lines := renderSectionHeader("Packaging complete", colorize)
	lines = append(lines, renderStreamTable(headers, rows))
	out := ""
	for i, line := range lines {
		if i > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}

func registerKeyFlags(cmd *cobra.Command, flags *keyFlags) {
	cmd.Flags().StringVar(&flags.encryptionKey, "key", "", "Hex-encoded content key, required when encryption_params.key_provider is set")
	cmd.Flags().StringVar(&flags.encryptionIV, "iv", "", "Hex-encoded IV for --key")
	cmd.Flags().StringVar(&flags.encryptionKeyID, "key-id", "", "Hex-encoded key ID for --key")
	cmd.Flags().StringVar(&flags.decryptionKey, "decryption-key", "", "Hex-encoded content key, required when decryption_params.key_provider is set")
	cmd.Flags().StringVar(&flags.decryptionIV, "decryption-iv", "", "Hex-encoded IV for --decryption-key")
	cmd.Flags().StringVar(&flags.decryptionKeyID, "decryption-key-id", "", "Hex-encoded key ID for --decryption-key")
}
