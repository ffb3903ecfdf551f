package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theassyrian/shaka-packager/internal/graph"
	"github.com/theassyrian/shaka-packager/internal/preflight"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration document without packaging anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.ensureDocument()
			if err != nil {
				return err
			}

			descriptors := toStreamDescriptors(doc)
			validation := graph.ValidationParams{
				SegmentSapAligned:       doc.Packaging.Chunking.SegmentSapAligned,
				SubsegmentSapAligned:    doc.Packaging.Chunking.SubsegmentSapAligned,
				OutputMediaInfo:         doc.Packaging.OutputMediaInfo,
				DumpStreamInfo:          doc.Packaging.TestParams.DumpStreamInfo,
				HLSMasterPlaylistOutput: doc.Packaging.Hls.MasterPlaylistOutput,
				HLSPlaylistTypeVOD:      doc.Packaging.Hls.IsVOD(),
			}
			warn := func(message string) {
				fmt.Fprintln(os.Stderr, renderStatusLine("warning", statusWarn, message, shouldColorize(os.Stderr)))
			}
			if err := graph.ValidateParams(validation, descriptors, warn); err != nil {
				return err
			}

			colorize := shouldColorize(os.Stdout)
			cmd.Println(renderStatusLine("document", statusOK, fmt.Sprintf("%d stream(s) valid", len(descriptors)), colorize))

			checks := preflight.RunAll(doc.Packaging.TempDir)
			if len(checks) == 0 {
				cmd.Println(renderStatusLine("preflight", statusInfo, "no temp_dir configured, skipped", colorize))
				return nil
			}
			for _, check := range checks {
				kind := statusOK
				if !check.Passed {
					kind = statusError
				}
				cmd.Println(renderStatusLine(check.Name, kind, check.Detail, colorize))
			}
			return nil
		},
	}
	return cmd
}
