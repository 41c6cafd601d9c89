package common

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const completionTimeout = 2 * time.Second

func RegisterOutputFlagCompletion(command *cobra.Command) {
	RegisterFlagValueCompletions(command, "output", []string{OutputAuto, OutputText, OutputJSON, OutputYAML})
}

func RegisterInputFormatFlagCompletion(command *cobra.Command) {
	RegisterFlagValueCompletions(command, "format", []string{OutputJSON, OutputYAML})
}

func RegisterFlagValueCompletions(command *cobra.Command, flagName string, values []string) {
	_ = command.RegisterFlagCompletionFunc(flagName, func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return CompleteValues(values, toComplete)
	})
}

func RegisterContextFlagCompletion(command *cobra.Command, deps CommandDependencies) {
	_ = command.RegisterFlagCompletionFunc("context", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return CompleteValues(contextNames(deps), toComplete)
	})
}

// ContextNameArgCompletion completes the first positional argument with the
// configured context names.
func ContextNameArgCompletion(deps CommandDependencies) cobra.CompletionFunc {
	return positionalCompletion(func(args []string) []string {
		if len(args) > 0 {
			return nil
		}
		return contextNames(deps)
	})
}

// ResourceNameArgCompletion completes the first positional argument with the
// resource names of the active catalog.
func ResourceNameArgCompletion(deps CommandDependencies) cobra.CompletionFunc {
	return positionalCompletion(func(args []string) []string {
		if len(args) > 0 || deps.Orchestrator == nil {
			return nil
		}
		names := make([]string, 0)
		for _, item := range deps.Orchestrator.Resources() {
			names = append(names, item.Name)
		}
		return names
	})
}

// ResourceListArgCompletion completes <name> <list>: resource names first,
// then the list paths declared by that resource.
func ResourceListArgCompletion(deps CommandDependencies) cobra.CompletionFunc {
	resourceNames := ResourceNameArgCompletion(deps)
	return func(command *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return resourceNames(command, args, toComplete)
		}
		if len(args) > 1 || deps.Orchestrator == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		meta, err := deps.Orchestrator.Resource(args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		paths := make([]string, 0, len(meta.Lists))
		for path := range meta.Lists {
			paths = append(paths, path)
		}
		return CompleteValues(paths, toComplete)
	}
}

func positionalCompletion(candidates func(args []string) []string) cobra.CompletionFunc {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return CompleteValues(candidates(args), toComplete)
	}
}

func contextNames(deps CommandDependencies) []string {
	service, err := RequireContexts(deps)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()

	items, err := service.List(ctx)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

// CompleteValues returns the sorted, de-duplicated values starting with
// toComplete. File completion is always disabled.
func CompleteValues(values []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := strings.TrimSpace(toComplete)
	items := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" && strings.HasPrefix(value, prefix) {
			items = append(items, value)
		}
	}
	slices.Sort(items)
	return slices.Compact(items), cobra.ShellCompDirectiveNoFileComp
}
