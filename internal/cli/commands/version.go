package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/evaldbt/internal/cli/output"
)

// BuildInfo is stamped into the binary at build time.
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display evaldbt version and build information.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info.GoVersion = runtime.Version()
			info.Platform = runtime.GOOS + "/" + runtime.GOARCH

			mode := output.ModeText
			if format != "" {
				m, err := output.ParseMode(format)
				if err != nil {
					return err
				}
				mode = m
			}
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			if ok, err := r.Structured(info); ok {
				return err
			}

			r.Printf("evaldbt v%s\n", info.Version)
			r.Println("dbt manifest smell checker built with Go")
			if info.Commit != "" && info.Commit != "unknown" {
				r.Printf("commit %s, built %s\n", info.Commit, info.BuildDate)
			}
			r.Println(r.Styles().Muted.Render(fmt.Sprintf("%s %s", info.GoVersion, info.Platform)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (text|json|yaml)")
	return cmd
}
