// Package dom is a deterministic, in-memory page used to drive
// virtual.Content without a browser.
//
// A [Document] owns a viewport, a scroll offset and a single [Container].
// The container lays its visible [ElementNode] children out as a flex
// column: each takes its margin box in flow and is then shifted by its
// relative top. Invisible elements take no space and cannot be measured.
//
// Browser callbacks are replaced by explicit frames. [Document.Step] runs
// one frame in this order:
//
//  1. work handed over with [Document.Dispatch]
//  2. callbacks queued with [Document.RequestFrame] before the frame began
//  3. [ResizeObserver] deliveries
//
// Mutation records are flushed to container observers after each callback,
// approximating the microtask checkpoint. [Document.Settle] steps until no
// work remains and [Document.Run] steps on a ticker.
package dom
