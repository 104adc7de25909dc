// Package testing provides a harness for testing virtualized content on a
// headless document.
//
// # Quick Start
//
// Create a tester, add items, pump frames, and make assertions:
//
//	func TestScrolling(t *testing.T) {
//	    tester := vctest.NewContentTesterWithT(t)
//	    items := tester.AddUniform(1000, 50)
//	    if err := tester.PumpAndSettle(time.Second); err != nil {
//	        t.Fatal(err)
//	    }
//
//	    tester.ScrollTo(2510)
//	    tester.PumpAndSettle(time.Second)
//	    tester.CheckInvariants(t)
//
//	    if items[0].Visibility() != virtual.Invisible {
//	        t.Error("expected the first item to be virtualized")
//	    }
//	}
//
// # Finders
//
// Locate elements by id, tag or text:
//
//	intro := tester.Find(vctest.ByID("intro")).First()
//	shown := tester.Find(vctest.All(vctest.ByTag("p"), vctest.Visible()))
//
// # Snapshot Testing
//
// Capture and compare what the viewport shows:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/scrolled.snapshot.json")
//
// Update snapshots with:
//
//	VIRTUALSIM_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import vctest "github.com/go-drift/virtualcontent/pkg/testing"
package testing
