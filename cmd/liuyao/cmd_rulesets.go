package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/liuyao-engine/internal/ruleset"
)

func newRulesetsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rulesets",
		Short: "List the available rule sets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := root.registry()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range reg.Keys() {
				mark := " "
				if key == ruleset.DefaultKey {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s\n", mark, key)
			}
			return nil
		},
	}
}
