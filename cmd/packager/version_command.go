package main

import (
	"github.com/spf13/cobra"

	packager "github.com/theassyrian/shaka-packager"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		Short:                 "Print the packaging core's library version",
		Annotations:           map[string]string{"skipConfigLoad": "true"},
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(packager.LibraryVersion())
			return nil
		},
	}
}
