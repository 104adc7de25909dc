package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/go-drift/virtualcontent/cmd/virtualsim/internal/config"
	"github.com/go-drift/virtualcontent/pkg/dom"
	"github.com/go-drift/virtualcontent/pkg/lorem"
	"github.com/go-drift/virtualcontent/pkg/text"
	"github.com/go-drift/virtualcontent/pkg/virtual"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCommand(s *state) *cobra.Command {
	var (
		realtime bool
		interval time.Duration
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scroll a synthetic document and report each settled position",
		Long: `Run builds a document of fixed-height or lorem ipsum items, loads it in
chunks, then scrolls to each offset of the scroll script and reports the
visible range, the painted boxes and the estimated total height.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := syntheticNodes(s.cfg.Simulation)
			if err != nil {
				return err
			}
			sim := newSimulation(s.cfg, nodes, s.log)
			first, err := sim.load(s.cfg.Simulation.Chunk)
			if err != nil {
				return err
			}

			var reports []frameReport
			if realtime {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				defer cancel()
				reports, err = sim.runRealtime(ctx, interval, s.cfg.Simulation.Scroll)
			} else {
				reports, err = scrollScript(sim, s.cfg.Simulation.Scroll)
			}
			if err != nil {
				return err
			}

			s.log.Info("simulation finished",
				zap.String("mode", s.cfg.Simulation.Mode),
				zap.Int("items", len(nodes)),
				zap.Int("positions", len(reports)),
				zap.Int("frames", sim.doc.FrameCount()),
			)
			return writeReports(cmd.OutOrStdout(), append([]frameReport{first}, reports...))
		},
	}

	flags := cmd.Flags()
	flags.String("mode", "", "item source: fixed or lorem")
	flags.Int("items", 0, "number of items")
	flags.Float64("item-height", 0, "height of each item in fixed mode")
	flags.Uint64("seed", 0, "seed for lorem mode")
	flags.Int("chunk", 0, "items appended per frame while loading")
	flags.String("scroll", "", "scroll offsets, e.g. 0,2510,10000")
	flags.BoolVar(&realtime, "realtime", false, "drive frames from a ticker instead of stepping")
	flags.DurationVar(&interval, "interval", dom.DefaultFrameInterval, "frame interval with --realtime")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "give up after this long with --realtime")
	return cmd
}

// syntheticNodes builds the items of a run.
func syntheticNodes(sim config.SimulationConfig) ([]virtual.Node, error) {
	nodes := make([]virtual.Node, 0, sim.Items)
	switch sim.Mode {
	case config.ModeLorem:
		fonts, err := text.DefaultFontManager()
		if err != nil {
			return nil, err
		}
		gen := lorem.New(sim.Seed)
		style := text.Style{Size: dom.BaseFontSize, LineHeight: dom.DefaultLineHeight}
		for i := range sim.Items {
			el := dom.NewTextElement("p", gen.Paragraph(), fonts, style)
			el.ID = fmt.Sprintf("item-%d", i)
			el.SetMargins(dom.BaseFontSize, dom.BaseFontSize)
			nodes = append(nodes, el)
		}
	default:
		for i := range sim.Items {
			el := dom.NewElement("div", sim.ItemHeight)
			el.ID = fmt.Sprintf("item-%d", i)
			nodes = append(nodes, el)
		}
	}
	return nodes, nil
}

func scrollScript(sim *simulation, offsets []float64) ([]frameReport, error) {
	reports := make([]frameReport, 0, len(offsets))
	for _, y := range offsets {
		r, err := sim.scrollTo(y)
		if err != nil {
			return reports, err
		}
		sim.log.Debug("scrolled",
			zap.Float64("scroll_y", r.ScrollY),
			zap.Int("visible", r.Visible),
			zap.Float64("total_height", r.TotalHeight),
		)
		reports = append(reports, r)
	}
	return reports, nil
}
