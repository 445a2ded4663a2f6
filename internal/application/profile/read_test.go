package profile

import (
	"context"
	"testing"

	"github.com/DHJariwala/is601-user-management/internal/domain"
)

func TestReadProfile_Access(t *testing.T) {
	t.Parallel()

	svc, users, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "a@x.com", "user", domain.StateActive)

	cases := []struct {
		name    string
		actor   Actor
		wantErr string
	}{
		{"self", Actor{ID: "u1", Role: "user"}, ""},
		{"other user", Actor{ID: "u2", Role: "user"}, "forbidden"},
		{"manager", Actor{ID: "m1", Role: "manager"}, ""},
		{"admin", Actor{ID: "a1", Role: "admin"}, ""},
		{"anonymous", Actor{ID: "", Role: "anonymous"}, "forbidden"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.ReadProfile(context.Background(), tc.actor, "u1")
			if tc.wantErr != "" {
				requireDomainCode(t, err, tc.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if got.ID != "u1" {
				t.Fatalf("wrong record %+v", got)
			}
		})
	}
}

func TestReadProfile_Redacts(t *testing.T) {
	t.Parallel()

	svc, users, _, _ := newSvcForTest(t)
	u := seedUser(users, "u1", "a@x.com", "user", domain.StatePending)
	u.PasswordHash = "hashed:pw"
	users.put(u)

	got, err := svc.ReadProfile(context.Background(), Actor{ID: "u1", Role: "user"}, "u1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.PasswordHash != "" || got.VerifyToken != "" {
		t.Fatalf("secrets leaked: %+v", got)
	}
}

func TestReadProfile_DeletedInvisible(t *testing.T) {
	t.Parallel()

	svc, users, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "a@x.com", "user", domain.StateDeleted)

	_, err := svc.ReadProfile(context.Background(), Actor{ID: "a1", Role: "admin"}, "u1")
	requireDomainCode(t, err, "user_not_found")
}

func TestList(t *testing.T) {
	t.Parallel()

	svc, users, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "a@x.com", "user", domain.StateActive)
	seedUser(users, "u2", "b@x.com", "user", domain.StateActive)
	seedUser(users, "gone", "c@x.com", "user", domain.StateDeleted)

	_, _, err := svc.List(context.Background(), Actor{ID: "m1", Role: "manager"}, 0, 10)
	requireDomainCode(t, err, "insufficient_role")

	got, total, err := svc.List(context.Background(), Actor{ID: "a1", Role: "admin"}, 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("deleted account leaked into listing: total=%d len=%d", total, len(got))
	}
	for _, u := range got {
		if u.PasswordHash != "" || u.VerifyToken != "" {
			t.Fatalf("secrets leaked in listing: %+v", u)
		}
	}
}

func TestList_ClampsPaging(t *testing.T) {
	t.Parallel()

	svc, users, _, _ := newSvcForTest(t)
	seedUser(users, "u1", "a@x.com", "user", domain.StateActive)
	admin := Actor{ID: "a1", Role: "admin"}

	if _, _, err := svc.List(context.Background(), admin, -5, 0); err != nil {
		t.Fatalf("list with out-of-range paging: %v", err)
	}
	if _, _, err := svc.List(context.Background(), admin, 0, 5000); err != nil {
		t.Fatalf("list with oversized limit: %v", err)
	}
}

func TestAuditRead_SeesDeleted(t *testing.T) {
	t.Parallel()

	svc, users, _, _ := newSvcForTest(t)
	seedUser(users, "gone", "a@x.com", "user", domain.StateDeleted)

	_, err := svc.AuditRead(context.Background(), Actor{ID: "m1", Role: "manager"}, "gone")
	requireDomainCode(t, err, "insufficient_role")

	got, err := svc.AuditRead(context.Background(), Actor{ID: "a1", Role: "admin"}, "gone")
	if err != nil {
		t.Fatalf("audit read: %v", err)
	}
	if got.State != domain.StateDeleted {
		t.Fatalf("state = %q", got.State)
	}
}
