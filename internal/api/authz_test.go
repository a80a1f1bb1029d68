package api

import "testing"

func TestRolePolicyAllows(t *testing.T) {
	policy := DefaultRolePolicy()

	cases := []struct {
		role string
		op   Operation
		want bool
	}{
		{"admin", OpSubmitEvent, true},
		{"admin", OpReadTask, true},
		{"delivery_agent", OpSubmitEvent, true},
		{"auditor", OpReadTask, true},
		{"auditor", OpSubmitEvent, false},
		{"intern", OpReadTask, false},
		{"", OpReadTask, false},
	}

	for _, tc := range cases {
		if got := policy.Allows(tc.role, tc.op); got != tc.want {
			t.Errorf("Allows(%q, %q) = %v, want %v", tc.role, tc.op, got, tc.want)
		}
	}
}
