package main

import (
	"strings"
	"testing"
)

func TestMySQLIdent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "users", "`users`"},
		{"reserved word", "order", "`order`"},
		{"embedded backtick doubled", "we`ird", "`we``ird`"},
		{"spaces kept", "two words", "`two words`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mysqlIdent(tt.in); got != tt.want {
				t.Errorf("mysqlIdent(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildInsert(t *testing.T) {
	got := buildInsert("product", []string{"id", "name"}, 3)
	want := "INSERT INTO `product` (`id`, `name`) VALUES (?, ?), (?, ?), (?, ?)"
	if got != want {
		t.Errorf("buildInsert() = %q, want %q", got, want)
	}
}

func TestBuildInsertPlaceholderCount(t *testing.T) {
	// A full batch of 1000 rows over 4 columns
	got := buildInsert("t", []string{"a", "b", "c", "d"}, 1000)
	if n := strings.Count(got, "?"); n != 4000 {
		t.Errorf("placeholder count = %d, want 4000", n)
	}
	if n := strings.Count(got, "("); n != 1001 { // 1000 value groups + column list
		t.Errorf("group count = %d, want 1001", n)
	}
}
