package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// checkCommand creates the check command for validating WaveJSON inputs
// without rendering.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [input]",
		Short: "Validate a WaveJSON document without rendering",
		Long: `Validate a WaveJSON document without rendering.

The input is parsed with the same relaxed-JSON rules the render command
uses, so duplicate keys, malformed tracks, and syntax errors are reported
with positions. Nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(args[0])
		},
	}
}

func (c *CLI) runCheck(input string) error {
	name, doc, err := readDocument(input)
	if err != nil {
		return err
	}

	longest := 0
	for _, t := range doc.Signal {
		if n := len([]rune(t.Wave)); n > longest {
			longest = n
		}
	}

	fmt.Println(StyleTitle.Render(name))
	printSuccess("%s is valid WaveJSON", input)
	printDetail("tracks: %d", len(doc.Signal))
	if longest > 0 {
		printDetail("longest wave: %d cycles", longest)
	}
	printNewline()
	printNextStep("Render", "wavedrom render "+input)

	return nil
}
