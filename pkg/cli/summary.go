package cli

import (
	"fmt"
	"io"

	"github.com/acalanetwork/relver/pkg/domain/model"
	"github.com/fatih/color"
)

var (
	labelColor = color.New(color.FgCyan)
	valueColor = color.New(color.Bold)
)

func scopeColor(scope model.Scope) *color.Color {
	if scope == model.ScopeRuntime {
		return color.New(color.FgYellow, color.Bold)
	}
	return color.New(color.FgMagenta, color.Bold)
}

func printField(w io.Writer, label string, value string, c *color.Color) {
	_, _ = fmt.Fprintf(w, "%s %s\n", labelColor.Sprintf("%-17s", label+":"), c.Sprint(value))
}

// printInspection writes a human-readable summary of an inspection
func printInspection(w io.Writer, in *model.Inspection) {
	printField(w, "chain", string(in.Current.Chain), valueColor)
	printField(w, "version", in.Current.Version.String(), valueColor)
	printField(w, "previous version", in.Previous.String(), valueColor)
	printField(w, "scope", string(in.Scope), scopeColor(in.Scope))
}

func printMatrix(w io.Writer, sel *model.MatrixSelection) {
	networks := make([]string, len(sel.Matrix.Network))
	for i, c := range sel.Matrix.Network {
		networks[i] = string(c)
	}
	printField(w, "network", fmt.Sprint(networks), valueColor)
	if sel.Release != nil {
		printField(w, "version", sel.Release.Version.String(), valueColor)
	}
}
