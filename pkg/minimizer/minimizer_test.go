package minimizer

import "testing"

func TestSimplifyIdentity(t *testing.T) {
	r := Simplify(1, []int{1}, nil)
	if r.IsConstant || len(r.Products) != 1 {
		t.Fatalf("unexpected result: %+v", r)
	}
	if r.Products[0].CareMask != 1 || r.Products[0].ValueBits != 1 {
		t.Fatalf("expected literal I, got %+v", r.Products[0])
	}
}

func TestSimplifyInverter(t *testing.T) {
	r := Simplify(1, []int{0}, nil)
	if r.IsConstant || len(r.Products) != 1 {
		t.Fatalf("unexpected result: %+v", r)
	}
	if r.Products[0].CareMask != 1 || r.Products[0].ValueBits != 0 {
		t.Fatalf("expected literal !I, got %+v", r.Products[0])
	}
}

func TestSimplifyAND(t *testing.T) {
	r := Simplify(2, []int{3}, nil)
	if r.IsConstant || len(r.Products) != 1 {
		t.Fatalf("unexpected result: %+v", r)
	}
	if r.Products[0].CareMask != 3 || r.Products[0].ValueBits != 3 {
		t.Fatalf("expected I0&I1, got %+v", r.Products[0])
	}
}

func TestSimplifyAllDontCareCollapsesToTrue(t *testing.T) {
	r := Simplify(3, []int{0, 7}, []int{1, 2, 3, 4, 5, 6})
	if !r.IsConstant || !r.ConstantValue {
		t.Fatalf("expected constant true, got %+v", r)
	}
}

func TestSimplifyEmptyOnIsFalse(t *testing.T) {
	r := Simplify(2, nil, []int{0, 1, 2, 3})
	if !r.IsConstant || r.ConstantValue {
		t.Fatalf("expected constant false, got %+v", r)
	}
}

func TestSimplifySoundness(t *testing.T) {
	// depends only on bit 1 (O = !I1): on = {0,1}, off = {2,3}.
	r := Simplify(2, []int{0, 1}, nil)
	if r.IsConstant {
		t.Fatalf("did not expect a constant: %+v", r)
	}
	for _, on := range []int{0, 1} {
		covered := false
		for _, p := range r.Products {
			if p.ValueBits == on&p.CareMask {
				covered = true
			}
		}
		if !covered {
			t.Fatalf("on-minterm %d not covered by %+v", on, r.Products)
		}
	}
	for _, off := range []int{2, 3} {
		for _, p := range r.Products {
			if p.ValueBits == off&p.CareMask {
				t.Fatalf("off-minterm %d covered by %+v", off, p)
			}
		}
	}
}
