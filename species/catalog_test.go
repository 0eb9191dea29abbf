package species

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() == 0 {
		t.Fatal("embedded catalog empty")
	}
	if got := c.Name(1); got != "Sproutle" {
		t.Errorf("Name(1) = %q", got)
	}
	if got := c.Name(999); got != Unknown {
		t.Errorf("Name(999) = %q, want %q", got, Unknown)
	}
	all := c.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("All() not sorted at %d", i)
		}
	}
}

func TestLoad(t *testing.T) {
	in := "id,name,base_hp,width,height,depth\n7,Mossback,70,2.6,1.8,3.0\n"
	c, err := Load(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, ok := c.Get(7)
	if !ok {
		t.Fatal("species 7 missing")
	}
	want := Species{ID: 7, Name: "Mossback", BaseHP: 70, Width: 2.6, Height: 1.8, Depth: 3.0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("species mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDuplicate(t *testing.T) {
	in := "id,name,base_hp,width,height,depth\n1,A,1,1,1,1\n1,B,1,1,1,1\n"
	if _, err := Load(strings.NewReader(in)); err == nil {
		t.Error("expected duplicate id error")
	}
}
