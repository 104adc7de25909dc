package dom

import (
	"testing"

	"github.com/go-drift/virtualcontent/pkg/virtual"
)

type foreignElement struct{ virtual.Element }

func TestResizeObserverDelivery(t *testing.T) {
	d := newTestDocument(100)
	var deliveries [][]virtual.Element
	ro := d.NewResizeObserver(func(changed []virtual.Element) {
		deliveries = append(deliveries, changed)
	})
	a, b := element("a", 10), element("b", 20)
	d.Container().AppendChild(a, b)

	ro.Observe(a)
	ro.Observe(b)
	ro.Observe(a)
	ro.Observe(foreignElement{})
	if ro.Len() != 2 {
		t.Fatalf("observed = %d, want 2", ro.Len())
	}

	d.Step()
	if len(deliveries) != 1 || len(deliveries[0]) != 2 {
		t.Fatalf("first observation = %v, want both elements once", deliveries)
	}

	d.Step()
	if len(deliveries) != 1 {
		t.Fatal("unchanged sizes should not be delivered")
	}

	b.SetHeight(25)
	a.SetHeight(15)
	b.SetHeight(20)
	d.Step()
	if len(deliveries) != 2 || len(deliveries[1]) != 1 || deliveries[1][0] != a {
		t.Fatalf("changes = %v, want only a", deliveries)
	}

	ro.Unobserve(a)
	ro.Unobserve(a)
	a.SetHeight(99)
	d.Step()
	if len(deliveries) != 2 || ro.Len() != 1 {
		t.Error("unobserved element should not be delivered")
	}
}
