package paging

import "testing"

func TestParseParams(t *testing.T) {
	tests := []struct {
		page, limit string
		want        Params
	}{
		{"", "", Params{Page: 1, Limit: 10}},
		{"3", "25", Params{Page: 3, Limit: 25}},
		{"0", "0", Params{Page: 1, Limit: 10}},
		{"2", "-5", Params{Page: 2, Limit: 1}},
		{"-2", "500", Params{Page: 1, Limit: 100}},
		{"abc", "x", Params{Page: 1, Limit: 10}},
	}

	for _, tt := range tests {
		if got := ParseParams(tt.page, tt.limit); got != tt.want {
			t.Errorf("ParseParams(%q, %q) = %+v, want %+v", tt.page, tt.limit, got, tt.want)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 3, Limit: 10}).Offset(); got != 20 {
		t.Errorf("expected offset 20, got %d", got)
	}
}

func TestNewResult(t *testing.T) {
	r := NewResult([]int{1, 2}, 12, Params{Page: 1, Limit: 2})
	if r.TotalPages != 6 || !r.HasNextPage {
		t.Errorf("unexpected result %+v", r)
	}

	last := NewResult([]int{11, 12}, 12, Params{Page: 6, Limit: 2})
	if last.HasNextPage {
		t.Error("last page should not report a next page")
	}

	empty := NewResult[int](nil, 0, Params{Page: 1, Limit: 10})
	if empty.Items == nil || len(empty.Items) != 0 {
		t.Error("items should be an empty, non-nil slice")
	}
}
