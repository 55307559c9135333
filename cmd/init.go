package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/speclint/speclint/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter " + config.DefaultFile + " in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

const starterConfig = `# speclint configuration.
# threshold is inline,ids,classes,types; selectors above it fail the lint.
threshold: "0,1,3,3"
format: text
ignore: []
`

func RunInit(w io.Writer) error {
	if _, err := os.Stat(config.DefaultFile); err == nil {
		fmt.Fprintln(w, config.DefaultFile+" already exists")
		return nil
	}
	if err := os.WriteFile(config.DefaultFile, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", config.DefaultFile, err)
	}
	fmt.Fprintln(w, config.DefaultFile+" created")
	return nil
}
