package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/go-drift/virtualcontent/cmd/virtualsim/internal/config"
	"github.com/go-drift/virtualcontent/pkg/dom"
	"github.com/go-drift/virtualcontent/pkg/graphics"
	"github.com/go-drift/virtualcontent/pkg/virtual"
	"go.uber.org/zap"
)

// frameReport describes the document after frames settle.
type frameReport struct {
	ScrollY     float64
	First       int // index of the first visible item, -1 if none
	Last        int
	Visible     int
	Painted     int
	TotalHeight float64
	Frames      int
}

// simulation is a mounted document plus the bookkeeping the commands
// report on.
type simulation struct {
	doc       *dom.Document
	content   *virtual.Content
	index     map[virtual.Element]int
	nodes     []virtual.Node
	maxFrames int
	log       *zap.Logger
}

func newSimulation(cfg *config.Config, nodes []virtual.Node, log *zap.Logger) *simulation {
	doc := dom.NewDocument(
		graphics.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		dom.WithLogger(log),
		dom.WithContainerOffset(cfg.Viewport.Offset),
	)
	s := &simulation{
		doc:       doc,
		index:     make(map[virtual.Element]int),
		nodes:     nodes,
		maxFrames: cfg.Simulation.MaxFrames,
		log:       log,
	}
	for _, n := range nodes {
		if el, ok := n.(virtual.Element); ok && n.IsElement() {
			s.index[el] = len(s.index)
		}
	}
	s.content = doc.Mount(cfg.EngineOptions()...)
	return s
}

// load appends the nodes chunk by chunk and settles.
func (s *simulation) load(chunk int) (frameReport, error) {
	loader := dom.NewLoader(s.doc, s.nodes, chunk)
	loader.Start()
	start := s.doc.FrameCount()
	// Each chunk costs one frame on top of the settle budget.
	budget := s.maxFrames + (len(s.nodes)/max(chunk, 1) + 1)
	if _, err := s.doc.Settle(budget); err != nil {
		return s.report(start), fmt.Errorf("loading %d items: %w", len(s.nodes), err)
	}
	s.log.Info("document loaded",
		zap.Int("items", loader.Loaded()),
		zap.Int("frames", s.doc.FrameCount()-start),
		zap.Float64("total_height", s.content.TotalHeight()),
	)
	return s.report(start), nil
}

// scrollTo scrolls and settles.
func (s *simulation) scrollTo(y float64) (frameReport, error) {
	start := s.doc.FrameCount()
	s.doc.ScrollTo(y)
	if _, err := s.doc.Settle(s.maxFrames); err != nil {
		return s.report(start), fmt.Errorf("scrolling to %v: %w", y, err)
	}
	return s.report(start), nil
}

// scrollToItem brings el to the viewport top. Estimates above el may change
// as items are measured on the way, so it repeats until the item stays put.
func (s *simulation) scrollToItem(el virtual.Element) (frameReport, error) {
	start := s.doc.FrameCount()
	for range 8 {
		before := s.doc.ScrollY()
		if !s.doc.ScrollToItem(s.content, el) {
			break
		}
		if _, err := s.doc.Settle(s.maxFrames); err != nil {
			return s.report(start), err
		}
		if s.doc.ScrollY() == before {
			break
		}
	}
	return s.report(start), nil
}

func (s *simulation) report(start int) frameReport {
	r := frameReport{
		ScrollY:     s.doc.ScrollY(),
		First:       -1,
		Last:        -1,
		Painted:     len(s.doc.Container().Painted()),
		TotalHeight: s.content.TotalHeight(),
		Frames:      s.doc.FrameCount() - start,
	}
	visible := s.content.VisibleItems()
	r.Visible = len(visible)
	if len(visible) > 0 {
		r.First = s.index[visible[0]]
		r.Last = s.index[visible[len(visible)-1]]
	}
	return r
}

// runRealtime replays offsets against a ticking frame loop. Scrolls are
// handed to the loop with Dispatch; a probe re-dispatches itself until the
// document is idle and then reports.
func (s *simulation) runRealtime(ctx context.Context, interval time.Duration, offsets []float64) ([]frameReport, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- s.doc.Run(ctx, interval) }()

	reports := make([]frameReport, 0, len(offsets))
	for _, y := range offsets {
		done := make(chan frameReport, 1)
		var start int
		var probe func()
		probe = func() {
			if s.doc.Idle() {
				done <- s.report(start)
				return
			}
			s.doc.Dispatch(probe)
		}
		s.doc.Dispatch(func() {
			start = s.doc.FrameCount()
			s.doc.ScrollTo(y)
			s.doc.Dispatch(probe)
		})

		select {
		case r := <-done:
			reports = append(reports, r)
		case <-ctx.Done():
			<-errc
			return reports, ctx.Err()
		}
	}

	cancel()
	if err := <-errc; err != nil && !stderrors.Is(err, context.Canceled) {
		return reports, err
	}
	return reports, nil
}

func writeReports(w io.Writer, reports []frameReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCROLL\tVISIBLE\tFIRST\tLAST\tPAINTED\tTOTAL\tFRAMES")
	for _, r := range reports {
		fmt.Fprintf(tw, "%.0f\t%d\t%d\t%d\t%d\t%.0f\t%d\n",
			r.ScrollY, r.Visible, r.First, r.Last, r.Painted, r.TotalHeight, r.Frames)
	}
	return tw.Flush()
}
