package cli

import (
	"github.com/spf13/cobra"
)

// blueprintExtensions are offered when completing blueprint file arguments.
var blueprintExtensions = []string{"txt", "json", "bp"}

// completeBlueprintFiles restricts file completion to blueprint files.
func completeBlueprintFiles(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return blueprintExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes comma-separated output formats.
func completeFormats(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"svg", "dot", "json"}, cobra.ShellCompDirectiveNoFileComp
}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for factoryflow.

  bash:        source <(factoryflow completion bash)
  zsh:         factoryflow completion zsh > "${fpath[1]}/_factoryflow"
  fish:        factoryflow completion fish | source
  powershell:  factoryflow completion powershell | Out-String | Invoke-Expression

Completion of blueprint arguments offers .txt, .json and .bp files.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
