package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/segment"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/wavejson"
)

// segmentCommand creates the segment command, a debugging aid that shows
// how a waveform splits without rendering anything.
func (c *CLI) segmentCommand() *cobra.Command {
	var (
		maxLength int
		filter    bool
	)

	cmd := &cobra.Command{
		Use:   "segment [input]",
		Short: "Split a waveform into segments and print them as JSON",
		Long: `Split a waveform into segments and print them as JSON.

Segments are printed as a JSON array in split order. With --filter the
segments a paginated surface would drop are removed, and each remaining
segment is wrapped with its 1-based part number so the gaps are visible.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSegment(args[0], maxLength, filter)
		},
	}

	cmd.Flags().IntVar(&maxLength, "max-length", 0, "maximum cycles per segment (default: the page surface width)")
	cmd.Flags().BoolVar(&filter, "filter", false, "drop segments the significance filter would skip")

	return cmd
}

// segmentPart pairs a kept segment with its original part number.
type segmentPart struct {
	Part     int               `json:"part"`
	WaveJSON wavejson.Document `json:"wavejson"`
}

func (c *CLI) runSegment(input string, maxLength int, filter bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if maxLength == 0 {
		maxLength = cfg.Surfaces.Page.MaxSegmentWidth
	}

	name, doc, err := readDocument(input)
	if err != nil {
		return err
	}

	segs, err := segment.Split(doc, maxLength)
	if err != nil {
		return err
	}
	c.Logger.Debug("split waveform", "name", name, "segments", len(segs), "max_length", maxLength)

	var out any
	if filter {
		kept := make([]segmentPart, 0, len(segs))
		for i, seg := range segs {
			if i > 0 && !segment.Significant(seg, segs[i-1]) {
				continue
			}
			kept = append(kept, segmentPart{Part: i + 1, WaveJSON: seg})
		}
		out = kept
	} else {
		out = segs
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode segments: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
