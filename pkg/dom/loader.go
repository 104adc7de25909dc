package dom

import (
	"github.com/go-drift/virtualcontent/pkg/virtual"
	"go.uber.org/zap"
)

// DefaultChunkSize is the number of nodes a Loader appends per frame.
const DefaultChunkSize = 50

// Loader appends nodes to a document's container a chunk per frame, so
// reconciliation passes run while a long document is still loading.
type Loader struct {
	doc     *Document
	nodes   []virtual.Node
	chunk   int
	next    int
	started bool
	onDone  func()
}

// NewLoader returns a loader for nodes. A non-positive chunk uses
// DefaultChunkSize.
func NewLoader(doc *Document, nodes []virtual.Node, chunk int) *Loader {
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	return &Loader{doc: doc, nodes: nodes, chunk: chunk}
}

// OnDone registers fn to run after the last chunk is appended.
func (l *Loader) OnDone(fn func()) { l.onDone = fn }

// Start requests the frame that appends the first chunk. Calling Start
// again has no effect.
func (l *Loader) Start() {
	if l.started {
		return
	}
	l.started = true
	l.doc.RequestFrame(l.frame)
}

// Loaded returns the number of nodes appended so far.
func (l *Loader) Loaded() int { return l.next }

// Done reports whether every node has been appended.
func (l *Loader) Done() bool { return l.next >= len(l.nodes) }

func (l *Loader) frame() {
	end := min(l.next+l.chunk, len(l.nodes))
	l.doc.container.AppendChild(l.nodes[l.next:end]...)
	l.next = end
	l.doc.log.Debug("loaded chunk", zap.Int("loaded", l.next), zap.Int("total", len(l.nodes)))
	if !l.Done() {
		l.doc.RequestFrame(l.frame)
		return
	}
	if l.onDone != nil {
		l.onDone()
	}
}
