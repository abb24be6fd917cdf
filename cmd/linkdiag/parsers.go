package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"linkdiag/internal/parsers"
)

var parsersFormat string

func init() {
	parsersCmd.Flags().StringVar(&parsersFormat, "format", "pretty", "output format (pretty|json)")
}

var parsersCmd = &cobra.Command{
	Use:   "parsers",
	Short: "List the available tool output parsers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch strings.ToLower(parsersFormat) {
		case "pretty":
			renderParsersPretty(cmd.OutOrStdout())
			return nil
		case "json":
			return renderParsersJSON(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", parsersFormat)
		}
	},
}

type parserPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Default bool   `json:"default,omitempty"`
}

func renderParsersPretty(out io.Writer) {
	for _, v := range parsers.Variants() {
		mark := " "
		if v.ID == parsers.Default {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %-16s %s\n", mark, v.ID, v.Name)
	}
}

func renderParsersJSON(out io.Writer) error {
	variants := parsers.Variants()
	payload := make([]parserPayload, 0, len(variants))
	for _, v := range variants {
		payload = append(payload, parserPayload{ID: v.ID, Name: v.Name, Default: v.ID == parsers.Default})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
