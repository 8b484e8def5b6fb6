package domain

import "testing"

func TestAccountType_Satisfies(t *testing.T) {
	cases := []struct {
		caller   AccountType
		required AccountType
		want     bool
	}{
		{AccountUser, AccountUser, true},
		{AccountUser, AccountModerator, false},
		{AccountUser, AccountAdmin, false},
		{AccountModerator, AccountUser, true},
		{AccountModerator, AccountModerator, true},
		{AccountModerator, AccountAdmin, false},
		{AccountAdmin, AccountUser, true},
		{AccountAdmin, AccountModerator, true},
		{AccountAdmin, AccountAdmin, true},
	}
	for _, tc := range cases {
		if got := tc.caller.Satisfies(tc.required); got != tc.want {
			t.Errorf("%s.Satisfies(%s) = %v, want %v", tc.caller, tc.required, got, tc.want)
		}
	}
}

func TestAccountType_IsValid(t *testing.T) {
	for _, valid := range []AccountType{AccountUser, AccountModerator, AccountAdmin} {
		if !valid.IsValid() {
			t.Errorf("%s should be valid", valid)
		}
	}
	for _, invalid := range []AccountType{"", "root", "superuser"} {
		if invalid.IsValid() {
			t.Errorf("%q should be invalid", invalid)
		}
	}
}
