package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halcyonlab/clr-metadata/metadata"
	"github.com/halcyonlab/clr-metadata/token"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print module identity, headers and derived state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := openSample()
			if err != nil {
				return err
			}
			printInfo(cmd, m)
			return nil
		},
	}
}

func printInfo(cmd *cobra.Command, m *metadata.Module) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Module:     %s\n", m.Name())
	fmt.Fprintf(out, "Location:   %s\n", m.Location())
	if mvid := m.Mvid(); mvid != nil {
		fmt.Fprintf(out, "Mvid:       %s\n", mvid)
	}
	fmt.Fprintf(out, "Generation: %d\n", m.Generation())
	if a := m.Assembly(); a != nil {
		fmt.Fprintf(out, "Assembly:   %s, Version=%s\n", a.Name, a.Version)
	}

	fmt.Fprintf(out, "Machine:    %s\n", m.Machine())
	fmt.Fprintf(out, "Kind:       %s\n", m.Kind())
	fmt.Fprintf(out, "Runtime:    %s\n", m.RuntimeVersion())
	if m.IsWinMD() {
		fmt.Fprintf(out, "WinMD:      %s\n", m.WinMDKind())
		if clr, ok := m.WinMDCLRVersion(); ok {
			fmt.Fprintf(out, "WinMD CLR:  %s\n", clr)
		}
	}
	fmt.Fprintf(out, "Pointers:   %d bytes\n", m.PointerSize(4, 4))

	flags := m.ComImageFlags()
	fmt.Fprintf(out, "Flags:      0x%08X (il-only=%v 32bit-required=%v 32bit-preferred=%v signed=%v)\n",
		uint32(flags.Value()), flags.IsILOnly(), flags.Is32BitRequired(),
		flags.Is32BitPreferred(), flags.IsStrongNameSigned())

	if ep := m.ManagedEntryPoint(); ep != nil {
		fmt.Fprintf(out, "EntryPoint: %s (managed)\n", ep.Name)
	} else if rva := m.NativeEntryPointRVA(); rva != 0 {
		fmt.Fprintf(out, "EntryPoint: 0x%08X (native)\n", rva)
	}

	fmt.Fprintf(out, "Types:      %d\n", countRows(m, token.TableTypeDef))
	fmt.Fprintf(out, "TypeRefs:   %d\n", countRows(m, token.TableTypeRef))
	fmt.Fprintf(out, "AsmRefs:    %d\n", countRows(m, token.TableAssemblyRef))
	fmt.Fprintf(out, "CustomAttrs:%d\n", m.CustomAttributes().Len())
}

func countRows(m *metadata.Module, table token.Table) int {
	n := 0
	m.EnumerateTokens(table, func(metadata.Entity) bool {
		n++
		return true
	})
	return n
}
