package common

import "github.com/spf13/cobra"

type GlobalFlags struct {
	Context      string
	ContextsFile string
	Debug        bool
	NoStatus     bool
	NoColor      bool
	Output       string
}

type InputFlags struct {
	Payload string
	Format  string
}

func BindGlobalFlags(command *cobra.Command, flags *GlobalFlags) {
	command.PersistentFlags().StringVarP(&flags.Context, "context", "c", "", "context name")
	command.PersistentFlags().StringVar(&flags.ContextsFile, "contexts-file", "", "context catalog file (default $CONTENTDESK_CONTEXTS_FILE or ~/.contentdesk/contexts.yaml)")
	command.PersistentFlags().BoolVarP(&flags.Debug, "debug", "d", false, "enable debug output")
	command.PersistentFlags().BoolVarP(&flags.NoStatus, "no-status", "n", false, "hide status output")
	command.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false, "disable color output")
	command.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputAuto, "output format: auto|text|json|yaml")
	RegisterOutputFlagCompletion(command)
}

func BindInputFlags(command *cobra.Command, flags *InputFlags) {
	command.Flags().StringVarP(&flags.Payload, "payload", "f", "", "value file path (use '-' to read from stdin)")
	command.Flags().StringVarP(&flags.Format, "format", "i", OutputJSON, "input format: json|yaml")
	RegisterInputFormatFlagCompletion(command)
}
