package main

import "testing"

func TestParseBands(t *testing.T) {
	bands, err := parseBands("4000:13,8000:12, 16000:11")
	if err != nil {
		t.Fatalf("parseBands: %v", err)
	}
	if len(bands) != 3 {
		t.Fatalf("parsed %d bands, want 3", len(bands))
	}
	if bands[0].Radius != 4000 || bands[0].Zoom != 13 {
		t.Fatalf("first band = %+v, want 4000:13", bands[0])
	}
	if bands[2].Radius != 16000 || bands[2].Zoom != 11 {
		t.Fatalf("third band = %+v, want 16000:11", bands[2])
	}
}

func TestParseBands_Invalid(t *testing.T) {
	cases := []string{
		"",
		"4000",
		"4000:13:2",
		"abc:13",
		"4000:xy",
		"-4000:13",
		"0:13",
	}
	for _, spec := range cases {
		if _, err := parseBands(spec); err == nil {
			t.Fatalf("parseBands(%q) succeeded, want error", spec)
		}
	}
}
