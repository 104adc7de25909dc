package cmd

import (
	"fmt"
	"os"

	"github.com/go-drift/virtualcontent/pkg/dom"
	"github.com/go-drift/virtualcontent/pkg/search"
	"github.com/go-drift/virtualcontent/pkg/virtual"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newHTMLCommand(s *state) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "html FILE",
		Short: "Load an HTML document and scroll through it",
		Long: `Html parses FILE, appends the children of its body to the container in
chunks and reports the settled document. With --find, the first element
whose text contains the query is scrolled to the top of the viewport.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			nodes, err := dom.ParseHTML(f, nil)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			sim := newSimulation(s.cfg, nodes, s.log)
			index := search.NewIndex(sim.doc.Container(), nil)
			sim.doc.Container().Observe(index.HandleMutations)

			first, err := sim.load(s.cfg.Simulation.Chunk)
			if err != nil {
				return err
			}
			reports := []frameReport{first}

			out := cmd.OutOrStdout()
			if query != "" {
				hits := index.Search(query)
				s.log.Info("search", zap.String("query", query), zap.Int("hits", len(hits)))
				fmt.Fprintf(out, "%d match(es) for %q\n", len(hits), query)
				if len(hits) > 0 {
					el, ok := hits[0].(virtual.Element)
					if !ok {
						return fmt.Errorf("match %v is not an element", hits[0])
					}
					r, err := sim.scrollToItem(el)
					if err != nil {
						return err
					}
					reports = append(reports, r)
					fmt.Fprintf(out, "first match: %v at %.0f\n", hits[0], r.ScrollY)
				}
			}
			return writeReports(out, reports)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&query, "find", "", "scroll to the first element containing this text")
	flags.Int("chunk", 0, "elements appended per frame while loading")
	return cmd
}
