package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command. The generated scripts
// complete subcommands, flags, and the layout kinds accepted by scene files.
func (c *CLI) completionCommand() *cobra.Command {
	long := fmt.Sprintf(`Generate a shell completion script for %[1]s.

To load completions in the current shell:

Bash:
  $ source <(%[1]s completion bash)

Zsh:
  $ %[1]s completion zsh > "${fpath[1]}/_%[1]s"

  Completion must be enabled once via "autoload -U compinit; compinit"
  in ~/.zshrc, and a new shell started afterwards.

Fish:
  $ %[1]s completion fish | source

PowerShell:
  PS> %[1]s completion powershell | Out-String | Invoke-Expression

To install permanently, redirect the script into your shell's completion
directory (e.g. /etc/bash_completion.d/%[1]s or
~/.config/fish/completions/%[1]s.fish).
`, appName)

	cmd := &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  long,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
