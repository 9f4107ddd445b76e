package fexgen

import "testing"

func TestVersioned_ReturnsPointerToValue(t *testing.T) {
	p := Versioned(3)
	if p == nil {
		t.Fatal("Versioned returned nil")
	}
	if *p != 3 {
		t.Fatalf("got %d, want 3", *p)
	}
}

func TestVersioned_DistinctCallsDoNotAlias(t *testing.T) {
	a := Versioned(1)
	b := Versioned(2)
	if a == b {
		t.Fatal("Versioned should return distinct pointers per call")
	}
	if *a == *b {
		t.Fatal("values should differ")
	}
}

func TestNamespace_ZeroValueIsUnversionedGlobal(t *testing.T) {
	var ns Namespace
	if ns.Version != nil {
		t.Fatal("zero-value Namespace should be unversioned")
	}
	if ns.GenerateGuestSymtable || ns.IndirectGuestCalls {
		t.Fatal("zero-value Namespace should have no flags set")
	}
	if ns.LoadHostEndpointVia != "" {
		t.Fatal("zero-value Namespace should use the default loader")
	}
}

func TestFunction_ZeroValueHasNoAnnotations(t *testing.T) {
	var fn Function
	if fn.ReturnsGuestPointer || fn.CustomHostImpl || fn.CallbackStub || fn.CallbackGuest || fn.CustomGuestEntrypoint {
		t.Fatal("zero-value Function should carry no annotations")
	}
}
