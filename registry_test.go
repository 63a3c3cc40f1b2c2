package esquery

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestRegistry_RegisterLookup(t *testing.T) {
	r := NewRegistry()
	replaced, err := r.Register(categoryFilter)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if replaced {
		t.Error("first registration reported replaced")
	}

	def, ok := r.Lookup("category")
	if !ok || def != categoryFilter {
		t.Errorf("Lookup = %+v, %v", def, ok)
	}
	if _, ok := r.Lookup("other"); ok {
		t.Error("Lookup of unregistered handle succeeded")
	}

	replaced, err = r.Register(FilterDefinition{SearchHandle: "category", ESFilterType: "term", FieldHandle: "cat"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !replaced {
		t.Error("re-registration not reported as replaced")
	}
	if def, _ := r.Lookup("category"); def.FieldHandle != "cat" {
		t.Errorf("FieldHandle = %q, want cat", def.FieldHandle)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistry_InvalidLeavesRegistryUnchanged(t *testing.T) {
	r := NewRegistry()
	_, _ = r.Register(categoryFilter)

	_, err := r.Register(FilterDefinition{SearchHandle: "x", FieldHandle: "y"})
	var ife *InvalidFilterConfigError
	if !errors.As(err, &ife) || ife.Field != "esFilterType" {
		t.Fatalf("expected missing esFilterType, got %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistry_RemoveAndList(t *testing.T) {
	r := NewRegistry()
	for _, h := range []string{"type", "category", "section"} {
		if _, err := r.Register(FilterDefinition{SearchHandle: h, ESFilterType: "term", FieldHandle: h + "Handle"}); err != nil {
			t.Fatalf("Register(%s): %v", h, err)
		}
	}

	list := r.List()
	if len(list) != 3 {
		t.Fatalf("List len = %d, want 3", len(list))
	}
	for i, want := range []string{"category", "section", "type"} {
		if list[i].SearchHandle != want {
			t.Errorf("List[%d] = %q, want %q", i, list[i].SearchHandle, want)
		}
	}

	if err := r.Remove("section"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := r.Remove("section"); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("second Remove: expected ErrUnknownFilter, got %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

func TestRegistry_Freeze(t *testing.T) {
	r := NewRegistry()
	_, _ = r.Register(categoryFilter)
	r.Freeze()

	if !r.Frozen() {
		t.Error("Frozen() = false after Freeze")
	}
	if _, err := r.Register(FilterDefinition{SearchHandle: "a", ESFilterType: "term", FieldHandle: "b"}); !errors.Is(err, ErrRegistryFrozen) {
		t.Errorf("Register after Freeze: got %v", err)
	}
	if err := r.Remove("category"); !errors.Is(err, ErrRegistryFrozen) {
		t.Errorf("Remove after Freeze: got %v", err)
	}
	if _, ok := r.Lookup("category"); !ok {
		t.Error("Lookup failed on frozen registry")
	}
}

func TestRegistry_DefaultIsSingleton(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry returned different instances")
	}
}

func TestRegistry_ConcurrentReadWrite(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = r.Register(FilterDefinition{
					SearchHandle: fmt.Sprintf("f%d", i),
					ESFilterType: "term",
					FieldHandle:  fmt.Sprintf("field%d", j),
				})
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Lookup(fmt.Sprintf("f%d", i))
				_ = r.List()
			}
		}(i)
	}
	wg.Wait()

	if r.Len() != 8 {
		t.Errorf("Len = %d, want 8", r.Len())
	}
}
