package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"flowframe/pkg/scene"
)

// shapeState is the settled geometry of one shape as printed by solve.
type shapeState struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Parent string         `json:"parent,omitempty"`
	Depth  int            `json:"depth"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	W      *float64       `json:"w,omitempty"`
	H      *float64       `json:"h,omitempty"`
	Locked bool           `json:"locked,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

func newSolveCmd(c *cli) *cobra.Command {
	var withMeta bool
	cmd := &cobra.Command{
		Use:   "solve <scenario>",
		Short: "Run a scenario script and print the settled geometry as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := c.scenarioRenderer(cmd)
			src, err := r.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("loading scenario: %w", err)
			}
			res, err := r.Run(args[0], src)
			if err != nil {
				return err
			}
			defer res.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snapshot(res.Store, withMeta))
		},
	}
	cmd.Flags().BoolVar(&withMeta, "meta", false, "include shape metadata")
	return cmd
}

func snapshot(store *scene.Store, withMeta bool) []shapeState {
	var out []shapeState
	store.Walk(func(sh *scene.Shape, depth int) {
		st := shapeState{
			ID:     sh.ID,
			Type:   sh.Type,
			Parent: sh.ParentID,
			Depth:  depth,
			X:      sh.X,
			Y:      sh.Y,
			Locked: sh.Locked,
		}
		if size, ok := sh.Size(); ok {
			st.W, st.H = &size.W, &size.H
		}
		if withMeta && len(sh.Meta) > 0 {
			st.Meta = sh.Meta
		}
		out = append(out, st)
	})
	return out
}
