package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halcyonlab/clr-metadata/metadata"
	"github.com/halcyonlab/clr-metadata/token"
)

func newTypesCmd() *cobra.Command {
	var reflection bool

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List type definitions with their tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := openSample()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			m.EnumerateTokens(token.TableTypeDef, func(e metadata.Entity) bool {
				t, ok := e.(*metadata.TypeDef)
				if !ok {
					return false
				}
				name := t.FullName()
				if reflection {
					name = t.ReflectionFullName()
				}
				fmt.Fprintf(out, "0x%08X  %s\n", uint32(metadata.TokenOf(t)), name)
				return true
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&reflection, "reflection", false, "print reflection names (nesting joined with '+')")
	return cmd
}
