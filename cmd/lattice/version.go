package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/iw2rmb/lattice"
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

var versionFormat string

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the lattice version",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch strings.ToLower(versionFormat) {
		case "pretty":
			renderVersionPretty(cmd.OutOrStdout())
			return nil
		case "json":
			return renderVersionJSON(cmd.OutOrStdout())
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
	},
}

func renderVersionPretty(out io.Writer) {
	v, ok := lattice.Current()
	if !ok {
		fmt.Fprintf(out, "lattice %s\n", lattice.Version())
		return
	}
	s := versionMajorColor.Sprint(v.Major) + "." + versionMinorColor.Sprint(v.Minor) + "." + versionPatchColor.Sprint(v.Patch)
	if v.Pre != "" {
		s += "-" + v.Pre
	}
	fmt.Fprintf(out, "lattice %s\n", s)
}

func renderVersionJSON(out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Tool    string `json:"tool"`
		Version string `json:"version"`
	}{Tool: "lattice", Version: lattice.Version()})
}
