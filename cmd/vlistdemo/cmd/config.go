package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aman-cerp/vlist/internal/config"
	"github.com/aman-cerp/vlist/internal/output"
)

// newConfigCmd creates the config command, which prints the effective
// configuration after loading an optional file and applying environment
// overrides.
func newConfigCmd() *cobra.Command {
	var configPath string
	var writePath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or write the effective vlist configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			if writePath != "" {
				if err := cfg.WriteYAML(writePath); err != nil {
					return err
				}
				out := output.New(cmd.OutOrStdout())
				out.Successf("wrote config to %s", writePath)
				return nil
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file to overlay on defaults")
	cmd.Flags().StringVar(&writePath, "write", "", "Write the effective config to this path instead of printing it")

	return cmd
}
