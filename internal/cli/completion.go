package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/baseline/pkg/integrations/webstatus"
)

var (
	completionLanguages = []string{
		"css\tCSS rules",
		"javascript\tJavaScript rules",
		"typescript\tJavaScript rules",
	}
	completionStatuses = []string{
		webstatus.RawWidely + "\tWidely available",
		webstatus.RawNewly + "\tNewly available",
		webstatus.RawLimited + "\tLimited availability",
	}
	sourceExtensions = []string{"css", "js", "mjs", "cjs", "jsx", "ts", "tsx", "mts", "cts"}
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for baseline.

To load completions:

Bash:
  $ source <(baseline completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ baseline completion bash > /etc/bash_completion.d/baseline
  # macOS:
  $ baseline completion bash > $(brew --prefix)/etc/bash_completion.d/baseline

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ baseline completion zsh > "${fpath[1]}/_baseline"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ baseline completion fish | source

  # To load completions for each session, execute once:
  $ baseline completion fish > ~/.config/fish/completions/baseline.fish

PowerShell:
  PS> baseline completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> baseline completion powershell > baseline.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// registerCompletions completes --language and --status values and offers
// only CSS and script files as document arguments.
func registerCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		if cmd.Flags().Lookup("language") != nil {
			_ = cmd.RegisterFlagCompletionFunc("language", cobra.FixedCompletions(completionLanguages, cobra.ShellCompDirectiveNoFileComp))
			cmd.ValidArgsFunction = completeSourceFiles
		}
		if cmd.Flags().Lookup("status") != nil {
			_ = cmd.RegisterFlagCompletionFunc("status", cobra.FixedCompletions(completionStatuses, cobra.ShellCompDirectiveNoFileComp))
		}
	}
}

func completeSourceFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return sourceExtensions, cobra.ShellCompDirectiveFilterFileExt
}
