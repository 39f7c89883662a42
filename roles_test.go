package authcore

import "testing"

func TestAuthorizeRoles(t *testing.T) {
	cases := []struct {
		name    string
		p       *Principal
		allowed []string
		wantOK  bool
	}{
		{"admin allowed", &Principal{Role: "admin"}, []string{"admin"}, true},
		{"user rejected for admin route", &Principal{Role: "user"}, []string{"admin"}, false},
		{"one of several", &Principal{Role: "user"}, []string{"admin", "user"}, true},
		{"case sensitive", &Principal{Role: "Admin"}, []string{"admin"}, false},
		{"nil principal", nil, []string{"admin"}, false},
		{"empty allowed set", &Principal{Role: "admin"}, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := AuthorizeRoles(tc.p, tc.allowed...)
			if tc.wantOK {
				if err != nil {
					t.Fatalf("expected pass, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected rejection")
			}
			if AsError(err).Status != 403 {
				t.Fatalf("expected 403, got %d", AsError(err).Status)
			}
		})
	}
}

func TestAuthorizeRolesMessageNamesRole(t *testing.T) {
	err := AuthorizeRoles(&Principal{Role: "user"}, "admin")
	if err == nil {
		t.Fatal("expected rejection")
	}
	want := "Role (user) is not allowed to access this resource"
	if AsError(err).Message != want {
		t.Fatalf("got %q, want %q", AsError(err).Message, want)
	}
}
