package dto

import "testing"

func TestValidate_StaffLoginRequest(t *testing.T) {
	cases := []struct {
		name       string
		req        StaffLoginRequest
		wantFields []string
	}{
		{
			name:       "valid",
			req:        StaffLoginRequest{Email: "a@b.com", Password: "secret1"},
			wantFields: nil,
		},
		{
			name:       "missing both",
			req:        StaffLoginRequest{},
			wantFields: []string{"email", "password"},
		},
		{
			name:       "malformed email",
			req:        StaffLoginRequest{Email: "not-an-email", Password: "secret1"},
			wantFields: []string{"email"},
		},
		{
			name:       "missing password",
			req:        StaffLoginRequest{Email: "a@b.com"},
			wantFields: []string{"password"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := Validate(tc.req)
			if len(fields) != len(tc.wantFields) {
				t.Fatalf("Validate() = %v, want fields %v", fields, tc.wantFields)
			}
			for i, want := range tc.wantFields {
				if fields[i].Field != want {
					t.Errorf("field[%d] = %q, want %q", i, fields[i].Field, want)
				}
				if fields[i].Message == "" {
					t.Errorf("field[%d] has empty message", i)
				}
			}
		})
	}
}

func TestValidate_TechnicianLoginRequest(t *testing.T) {
	if fields := Validate(TechnicianLoginRequest{Username: "tech01", Password: "p"}); fields != nil {
		t.Errorf("Validate() = %v, want nil", fields)
	}

	fields := Validate(TechnicianLoginRequest{})
	if len(fields) != 2 {
		t.Fatalf("Validate() = %v, want username and password errors", fields)
	}
	if fields[0].Field != "username" || fields[1].Field != "password" {
		t.Errorf("fields = %v, want [username password]", fields)
	}
}

func TestValidate_UserUpdateRequestOptionalFields(t *testing.T) {
	if fields := Validate(UserUpdateRequest{}); fields != nil {
		t.Errorf("empty patch should be valid, got %v", fields)
	}

	bad := "not-an-email"
	fields := Validate(UserUpdateRequest{Email: &bad})
	if len(fields) != 1 || fields[0].Field != "email" {
		t.Errorf("Validate() = %v, want a single email error", fields)
	}
}
