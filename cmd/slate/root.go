package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var showVersion bool

	rootCmd := &cobra.Command{
		Use:           "slate",
		Short:         "Terminal client for Canvas LMS",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Printf("slate %s\n", Version)
				return nil
			}
			return runApp()
		},
	}

	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "print version")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newGradesCommand())

	return rootCmd
}

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file to edit",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := generateConfig()
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			fmt.Println("Edit it with your Canvas URL and API token, then run slate.")
			return nil
		},
	}
}
