package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DHJariwala/is601-user-management/internal/application/profile"
	"github.com/DHJariwala/is601-user-management/internal/domain"
	"github.com/DHJariwala/is601-user-management/internal/infrastructure/memory"
	"github.com/DHJariwala/is601-user-management/internal/transport/http/middleware"
)

// mustJSONBody marshals v to JSON and returns an io.Reader for a request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadData decodes the {"data": ...} envelope from r into out.
func mustReadData(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	wrapped := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw, &wrapped); err != nil || len(wrapped.Data) == 0 {
		t.Fatalf("expected data envelope; body=%s", string(raw))
	}
	if err := json.Unmarshal(wrapped.Data, out); err != nil {
		t.Fatalf("decode data failed; body=%s err=%v", string(raw), err)
	}
}

// mustReadJSONMap decodes a flat JSON object from the recorder body.
func mustReadJSONMap(t *testing.T, rr *httptest.ResponseRecorder, out *map[string]string) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode body failed; body=%s err=%v", rr.Body.String(), err)
	}
}

// mustReadErrorCode extracts error.code from an error response body.
func mustReadErrorCode(t *testing.T, r io.Reader) string {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var out struct {
		Error struct {
			Code string            `json:"code"`
			Meta map[string]string `json:"meta"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode error body failed; body=%s err=%v", string(raw), err)
	}
	if out.Error.Code == "" {
		t.Fatalf("expected error.code in body; body=%s", string(raw))
	}
	return out.Error.Code
}

// withUserCtx injects user_id + role into the request context, the way the
// auth middleware would after verifying a bearer token.
func withUserCtx(req *http.Request, userID, role string) *http.Request {
	ctx := middleware.WithUser(req.Context(), userID, role)
	return req.WithContext(ctx)
}

// withURLParam injects a chi URL param (e.g. /users/{id}) into the request context.
func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx, ok := req.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, val)

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", domain.ErrMissingField("password")
	}
	return "hash:" + password, nil
}

func (fakeHasher) Compare(hash string, password string) error {
	if hash != "hash:"+password {
		return domain.ErrForbidden()
	}
	return nil
}

// newTestUserHandler wires the handler against the in-memory repo so tests
// exercise the full decode -> authorize -> mutate -> respond path.
func newTestUserHandler(t *testing.T) (*UserHandler, *memory.UserRepo) {
	t.Helper()

	repo := memory.NewUserRepo()
	svc := profile.NewService(repo, fakeHasher{}, memory.NewNoopPublisher(), profile.Config{
		VerifyEmailBaseURL: "http://localhost/verify-email/",
	})
	return NewUserHandler(svc), repo
}

// seedUser inserts an account straight into the repo, bypassing registration.
func seedUser(t *testing.T, repo *memory.UserRepo, id, email, role string, state domain.State) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: "hash:Secret12",
		Role:         role,
		State:        state,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if state == domain.StatePending {
		u.VerifyToken = "token-" + id
	}
	if state == domain.StateDeleted {
		u.DeletedAt = &now
	}

	created, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
	return created
}
