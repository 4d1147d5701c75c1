package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/wayfarer/internal/config"
	"github.com/JaimeStill/wayfarer/internal/prompts"
)

func stagesCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "stages",
		Short: "List the pipeline stages, their personas and dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")

			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}

			defs := prompts.Defaults()
			if cfg.Pipeline.PromptsFile != "" {
				o, err := prompts.LoadOverrides(cfg.Pipeline.PromptsFile)
				if err != nil {
					return err
				}
				if defs, err = defs.Apply(o); err != nil {
					return err
				}
			}

			return printItinerary(cmd.OutOrStdout(), stagesMarkdown(defs), raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown instead of rendering it")
	return cmd
}

func stagesMarkdown(defs prompts.Definitions) string {
	var sb strings.Builder
	sb.WriteString("| # | Stage | Persona | Uses | Report |\n")
	sb.WriteString("|---|---|---|---|---|\n")

	for i, def := range defs {
		uses := "-"
		if len(def.DependsOn) > 0 {
			names := make([]string, len(def.DependsOn))
			for j, dep := range def.DependsOn {
				names[j] = dep.Title()
			}
			uses = strings.Join(names, ", ")
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n", i+1, def.Stage.Title(), def.Persona.Role, uses, def.Artifact)
	}

	return sb.String()
}

