package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for loglab.

To load completions:

Bash:
  $ source <(loglab completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ loglab completion bash > /etc/bash_completion.d/loglab
  # macOS:
  $ loglab completion bash > $(brew --prefix)/etc/bash_completion.d/loglab

Zsh:
  $ source <(loglab completion zsh)
  # To load completions for each session, execute once:
  $ loglab completion zsh > "${fpath[1]}/_loglab"

Fish:
  $ loglab completion fish | source
  # To load completions for each session, execute once:
  $ loglab completion fish > ~/.config/fish/completions/loglab.fish
`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			}
			return nil
		},
	}

	return cmd
}
