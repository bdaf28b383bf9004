package main

import (
	"testing"

	"checkers/internal/core"
)

func TestParseMoveArgs(t *testing.T) {
	cases := []struct {
		args     []string
		from, to core.Square
	}{
		{[]string{"2", "1", "3", "2"}, core.Square{Row: 2, Col: 1}, core.Square{Row: 3, Col: 2}},
		{[]string{"2,1-3,2"}, core.Square{Row: 2, Col: 1}, core.Square{Row: 3, Col: 2}},
		{[]string{"3,2x5,0"}, core.Square{Row: 3, Col: 2}, core.Square{Row: 5, Col: 0}},
	}
	for _, tc := range cases {
		from, to, err := parseMoveArgs(tc.args)
		if err != nil || from != tc.from || to != tc.to {
			t.Errorf("parseMoveArgs(%v) = %v, %v, %v", tc.args, from, to, err)
		}
	}

	for _, bad := range [][]string{nil, {"2", "1"}, {"2,1-8,0"}, {"2 1 3 x"}, {"2", "1", "3", "x"}} {
		if _, _, err := parseMoveArgs(bad); err == nil {
			t.Errorf("parseMoveArgs(%v) accepted", bad)
		}
	}
}
