package commands

import (
	"os"

	"github.com/spf13/cobra"
)

// NewCompletionCommand creates the completion command for shell completions
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for fitlint.

To load completions:

Bash:

  $ source <(fitlint completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ fitlint completion bash > /etc/bash_completion.d/fitlint
  # macOS:
  $ fitlint completion bash > $(brew --prefix)/etc/bash_completion.d/fitlint

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ fitlint completion zsh > "${fpath[1]}/_fitlint"

  # You will need to start a new shell for this setup to take effect.

Fish:

  $ fitlint completion fish | source

  # To load completions for each session, execute once:
  $ fitlint completion fish > ~/.config/fish/completions/fitlint.fish

PowerShell:

  PS> fitlint completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> fitlint completion powershell > fitlint.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			root := cmd.Root()

			switch shell {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
