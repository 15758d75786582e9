package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdweave/internal/config"
	"github.com/dgallion1/mdweave/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "mdweave",
	Short: "Convert documents into clean, navigable Markdown",
	Long: `mdweave converts PDF, DOCX, HTML, Markdown, and plain-text documents into
structured Markdown: headings recovered from text patterns and page layout,
a linked table of contents, and noise such as running headers stripped.

Convert a single file, watch a folder for new documents, or list past
conversions. The HTTP API ships as a separate server binary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("mdweave %s\n", version.String()))
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error:")+" "+err.Error())
		os.Exit(1)
	}
}

// cliConfig resolves the effective configuration: environment defaults
// overlaid with the optional config.toml. Flags are applied per command on
// top of this.
func cliConfig(cmd *cobra.Command) config.Config {
	cfg := config.Load()
	if _, err := config.LoadFile(&cfg); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render("config: "+err.Error()))
	}
	return cfg
}
