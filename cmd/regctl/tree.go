package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gersonkurz/regkit/internal/regtext"
	"github.com/gersonkurz/regkit/pkg/regtree"
	"github.com/gersonkurz/regkit/pkg/types"
)

var (
	treeDepth  int
	treeValues bool
)

func init() {
	cmd := newTreeCmd()
	cmd.Flags().IntVar(&treeDepth, "depth", 0, "Maximum depth (0 = unlimited)")
	cmd.Flags().BoolVar(&treeValues, "values", false, "Show values too")
	registerParseFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <file.reg>",
		Short: "Display the key tree of a .reg file",
		Long: `The tree command parses a .reg file and renders its key hierarchy.

Example:
  regctl tree settings.reg
  regctl tree settings.reg --values
  regctl tree settings.reg --depth 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, args)
		},
	}
	return cmd
}

// treeStyles carries the render styles; all empty when --no-color is set.
type treeStyles struct {
	key     lipgloss.Style
	removed lipgloss.Style
	value   lipgloss.Style
	typeTag lipgloss.Style
	branch  lipgloss.Style
}

func newTreeStyles() treeStyles {
	if noColor {
		return treeStyles{}
	}
	return treeStyles{
		key:     lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		removed: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Strikethrough(true),
		value:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		typeTag: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		branch:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func runTree(cmd *cobra.Command, args []string) error {
	path := args[0]

	root, err := regtext.ParseFile(path, importOptions(cmd))
	if err != nil {
		return err
	}

	var b strings.Builder
	st := newTreeStyles()
	if root.Path() != "" {
		renderKey(&b, root, "", true, 1, st)
	} else {
		names := root.SubkeyNames()
		for i, name := range names {
			renderKey(&b, root.Subkey(name), "", i == len(names)-1, 1, st)
		}
	}
	fmt.Print(b.String())
	return nil
}

func renderKey(b *strings.Builder, k *regtree.Key, prefix string, last bool, depth int, st treeStyles) {
	connector, childPrefix := "├── ", prefix+"│   "
	if last {
		connector, childPrefix = "└── ", prefix+"    "
	}
	if prefix == "" && k.Parent() == nil {
		connector, childPrefix = "", "    "
		if !last {
			childPrefix = "│   "
		}
	}

	label := st.key.Render(k.Name())
	if k.Removed() {
		label = st.removed.Render(k.Name())
	}
	fmt.Fprintf(b, "%s%s\n", st.branch.Render(prefix+connector), label)

	var lines []string
	if treeValues {
		if dv := k.DefaultValue(); dv != nil {
			lines = append(lines, renderValue(dv, st))
		}
		for _, name := range k.ValueNames() {
			lines = append(lines, renderValue(k.Value(name), st))
		}
	}
	names := k.SubkeyNames()
	for _, line := range lines {
		tick := "│   "
		if len(names) == 0 || (treeDepth > 0 && depth >= treeDepth) {
			tick = "    "
		}
		fmt.Fprintf(b, "%s%s\n", st.branch.Render(childPrefix+tick), line)
	}
	if treeDepth > 0 && depth >= treeDepth {
		return
	}
	for i, name := range names {
		renderKey(b, k.Subkey(name), childPrefix, i == len(names)-1, depth+1, st)
	}
}

func renderValue(v *regtree.Value, st treeStyles) string {
	name := v.Name()
	if name == "" {
		name = "@"
	}
	if v.Removed() {
		return fmt.Sprintf("%s %s", st.removed.Render(name), st.typeTag.Render("(removed)"))
	}
	return fmt.Sprintf("%s = %s %s",
		st.value.Render(name),
		valuePreview(v),
		st.typeTag.Render("("+v.Type().String()+")"))
}

// valuePreview renders a short human-readable form of the payload.
func valuePreview(v *regtree.Value) string {
	switch v.Type() {
	case types.REG_SZ, types.REG_EXPAND_SZ:
		return fmt.Sprintf("%q", v.String(""))
	case types.REG_MULTI_SZ:
		return fmt.Sprintf("%q", v.MultiString(nil))
	case types.REG_ESCAPED_DWORD, types.REG_ESCAPED_QWORD:
		return v.String("")
	case types.REG_DWORD:
		return fmt.Sprintf("0x%08x", v.DWORD(0))
	case types.REG_QWORD:
		return fmt.Sprintf("0x%016x", v.QWORD(0))
	case types.REG_NONE:
		return "<none>"
	default:
		data := v.Bytes()
		if len(data) > 16 {
			return fmt.Sprintf("% 02x... (%d bytes)", data[:16], len(data))
		}
		return fmt.Sprintf("% 02x", data)
	}
}
