package helper

import "testing"

func TestHelper_FindIpP(t *testing.T) {

	input := "10.0.0.10:4646"
	expected := "10.0.0.10"

	ip := FindIP(input)
	if ip != expected {
		t.Fatalf("expected %s got %s", expected, ip)
	}
}

func TestHelper_Max(t *testing.T) {

	expected := 13.12

	max := Max(13.12, 2.01, 6.4, 13.11, 1.01, 0.11)
	if max != expected {
		t.Fatalf("expected %v got %v", expected, max)
	}
}

func TestHelper_Min(t *testing.T) {

	expected := 1.01

	min := Min(13.12, 2.01, 6.4, 13.11, 1.01, 1.02)
	if min != expected {
		t.Fatalf("expected %v got %v", expected, min)
	}
}

func TestHelper_HasConfigChanged(t *testing.T) {
	type pair struct {
		A int
		B string
	}

	same1 := pair{A: 1, B: "x"}
	same2 := pair{A: 1, B: "x"}

	changed, err := HasConfigChanged(same1, same2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Fatalf("expected identical structs to report unchanged")
	}

	diff := pair{A: 2, B: "x"}
	changed, err = HasConfigChanged(same1, diff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Fatalf("expected differing structs to report changed")
	}
}
