package row

import "testing"

func TestCellDefensive(t *testing.T) {
	r := Row{"2024-05-01", "founder application", "  Acme Corp  "}

	if got := r.Cell(2); got != "Acme Corp" {
		t.Fatalf("Cell(2) = %q, want trimmed %q", got, "Acme Corp")
	}
	if got := r.Cell(40); got != "" {
		t.Fatalf("Cell past end = %q, want empty", got)
	}
	if got := r.Cell(-1); got != "" {
		t.Fatalf("Cell(-1) = %q, want empty", got)
	}
	if r.Has(3) {
		t.Fatal("Has(3) on short row should be false")
	}
	if !r.Has(0) {
		t.Fatal("Has(0) should be true")
	}
}

func TestTeamCount(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want int
	}{
		{name: "plain", cell: "2", want: 2},
		{name: "empty", cell: "", want: 0},
		{name: "non numeric", cell: "three", want: 0},
		{name: "negative", cell: "-1", want: 0},
		{name: "clamped", cell: "50", want: MaxTeamMembers},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := Row{"", "", "", "", "", "", tc.cell}
			if got := r.TeamCount(); got != tc.want {
				t.Fatalf("TeamCount() with cell %q = %d, want %d", tc.cell, got, tc.want)
			}
		})
	}
}

func TestTeamMemberCols(t *testing.T) {
	name, role := TeamMemberCols(0)
	if name != ColTeamStart || role != ColTeamStart+1 {
		t.Fatalf("member 0 cols = (%d, %d)", name, role)
	}
	name, role = TeamMemberCols(2)
	if name != ColTeamStart+4 || role != ColTeamStart+5 {
		t.Fatalf("member 2 cols = (%d, %d)", name, role)
	}
}
