package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
)

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func TestSignupAndSigninFlow(t *testing.T) {
	ts, _ := startTestServer(t)

	signup := SignupRequest{
		FirstName: "Alice",
		LastName:  "Liddell",
		Email:     "alice@example.com",
		Password:  "secret123",
	}

	resp := postJSON(t, ts.URL+"/api/signup", signup)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status: %d", resp.StatusCode)
	}

	var created UserResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	if created.ID == "" || created.Email != "alice@example.com" {
		t.Fatalf("unexpected signup response: %+v", created)
	}

	// Duplicate signup conflicts.
	resp = postJSON(t, ts.URL+"/api/signup", signup)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate signup status: %d", resp.StatusCode)
	}

	// Unknown user.
	resp = postJSON(t, ts.URL+"/api/signin", SigninRequest{Email: "nobody@example.com", Password: "x"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown user signin status: %d", resp.StatusCode)
	}

	// Wrong password.
	resp = postJSON(t, ts.URL+"/api/signin", SigninRequest{Email: "alice@example.com", Password: "wrong"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password signin status: %d", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/api/signin", SigninRequest{Email: "alice@example.com", Password: "secret123"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signin status: %d", resp.StatusCode)
	}

	var signin SigninResponse
	if err := json.NewDecoder(resp.Body).Decode(&signin); err != nil {
		t.Fatalf("decode signin response: %v", err)
	}
	if signin.Token == "" || signin.User.ID != created.ID {
		t.Fatalf("unexpected signin response: %+v", signin)
	}
}

func TestSignupValidation(t *testing.T) {
	ts, _ := startTestServer(t)

	resp := postJSON(t, ts.URL+"/api/signup", SignupRequest{FirstName: "Alice"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", resp.StatusCode)
	}
}

func TestReadEndpointsRequireAuth(t *testing.T) {
	ts, _ := startTestServer(t)

	for _, path := range []string{"/api/users", "/api/messages"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s, got %d", path, resp.StatusCode)
		}
	}
}

func TestListUsersAndMessages(t *testing.T) {
	ts, _ := startTestServer(t)

	postJSON(t, ts.URL+"/api/signup", SignupRequest{
		FirstName: "Alice", LastName: "Liddell", Email: "alice@example.com", Password: "secret123",
	})
	resp := postJSON(t, ts.URL+"/api/signin", SigninRequest{Email: "alice@example.com", Password: "secret123"})

	var signin SigninResponse
	if err := json.NewDecoder(resp.Body).Decode(&signin); err != nil {
		t.Fatalf("decode signin response: %v", err)
	}

	get := func(path string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
		if err != nil {
			t.Fatalf("build request: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+signin.Token)
		r, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		t.Cleanup(func() { _ = r.Body.Close() })
		return r
	}

	resp = get("/api/users")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("users status: %d", resp.StatusCode)
	}
	var users []UserResponse
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 1 || users[0].Email != "alice@example.com" {
		t.Fatalf("unexpected users: %+v", users)
	}

	resp = get("/api/messages")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("messages status: %d", resp.StatusCode)
	}
	var msgs []MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected empty log, got %+v", msgs)
	}
}
