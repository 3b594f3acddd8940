package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIdentity = Identity{
	Identifier:  "ana",
	Email:       "ana@x.com",
	Password:    "p1",
	DisplayName: "Ana Maria Lopez",
}

func TestLMSProvisionSuccess(t *testing.T) {
	var got lmsCreateUserRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 42})
	}))
	defer server.Close()

	p := NewLMSProvisioner(server.URL, time.Second)
	out := p.Provision(context.Background(), testIdentity, Role{Name: "instructor"})

	assert.True(t, out.Success)
	assert.Equal(t, LMS, out.Platform)
	assert.Equal(t, "42", out.RemoteID)
	assert.Equal(t, http.StatusCreated, out.StatusCode)
	assert.Nil(t, out.Err)

	assert.Equal(t, "ana", got.UserName)
	assert.Equal(t, "ana@x.com", got.UserEmail)
	assert.Equal(t, "instructor", got.Role)
}

func TestLMSProvisionRejectedStructuredError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "user already exists"})
	}))
	defer server.Close()

	p := NewLMSProvisioner(server.URL, time.Second)
	out := p.Provision(context.Background(), testIdentity, Role{Name: "user"})

	assert.False(t, out.Success)
	require.NotNil(t, out.Err)
	assert.Equal(t, ErrorRejected, out.Err.Kind)
	assert.Equal(t, "user already exists", out.Err.Message)
	assert.Equal(t, http.StatusConflict, out.StatusCode)
}

func TestLMSProvisionRejectedRawTextFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	p := NewLMSProvisioner(server.URL, time.Second)
	out := p.Provision(context.Background(), testIdentity, Role{Name: "user"})

	assert.False(t, out.Success)
	require.NotNil(t, out.Err)
	assert.Equal(t, ErrorRejected, out.Err.Kind)
	assert.Equal(t, "upstream exploded", out.Err.Message)
}

func TestLMSProvisionUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	p := NewLMSProvisioner(server.URL, time.Second)
	out := p.Provision(context.Background(), testIdentity, Role{Name: "user"})

	assert.False(t, out.Success)
	require.NotNil(t, out.Err)
	assert.Equal(t, ErrorUnreachable, out.Err.Kind)
	assert.NotEmpty(t, out.Err.Message)
}

func TestLMSProvisionTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	p := NewLMSProvisioner(server.URL, 50*time.Millisecond)
	start := time.Now()
	out := p.Provision(context.Background(), testIdentity, Role{Name: "user"})

	assert.Less(t, time.Since(start), time.Second, "timeout did not bound the call")
	assert.False(t, out.Success)
	require.NotNil(t, out.Err)
	assert.Equal(t, ErrorTimeout, out.Err.Kind)
}

func TestEcommerceProvisionSuccess(t *testing.T) {
	var got ecommerceCreateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"id": "cust-9"})
	}))
	defer server.Close()

	p := NewEcommerceProvisioner(server.URL, time.Second)
	out := p.Provision(context.Background(), testIdentity, Role{Name: "buyer"})

	assert.True(t, out.Success)
	assert.Equal(t, Ecommerce, out.Platform)
	assert.Equal(t, "cust-9", out.RemoteID)

	assert.Equal(t, "ana", got.Name)
	assert.Equal(t, "buyer", got.Role)
}

func TestDMSProvisionSuccess(t *testing.T) {
	var gotAuth string
	var gotCreate dmsCreateUserRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
		var req dmsTokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "svc", req.Username)
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	})
	mux.HandleFunc("/api/users/", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotCreate))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 7})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := NewDMSProvisioner(server.URL, ServiceCredential{Username: "svc", Password: "pw"}, time.Second)
	out := p.Provision(context.Background(), testIdentity, Role{Groups: []int{2}})

	assert.True(t, out.Success)
	assert.Equal(t, "7", out.RemoteID)
	assert.Equal(t, "Token tok-1", gotAuth)
	assert.Equal(t, "ana", gotCreate.Username)
	assert.Equal(t, "Ana Maria", gotCreate.FirstName)
	assert.Equal(t, "Lopez", gotCreate.LastName)
	assert.True(t, gotCreate.IsActive)
	assert.Equal(t, []int{2}, gotCreate.Groups)
}

func TestDMSTokenExchangeFailureSkipsCreate(t *testing.T) {
	var createCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "bad credentials"})
	})
	mux.HandleFunc("/api/users/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&createCalls, 1)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := NewDMSProvisioner(server.URL, ServiceCredential{Username: "svc", Password: "pw"}, time.Second)
	out := p.Provision(context.Background(), testIdentity, Role{Groups: []int{1}})

	assert.False(t, out.Success)
	require.NotNil(t, out.Err)
	assert.Equal(t, ErrorRejected, out.Err.Kind)
	assert.Contains(t, out.Err.Message, "token exchange failed")
	assert.Contains(t, out.Err.Message, "bad credentials")
	assert.Zero(t, atomic.LoadInt32(&createCalls), "create must not run after a failed token exchange")
}

func TestDMSMissingTokenInExchangeResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := NewDMSProvisioner(server.URL, ServiceCredential{Username: "svc", Password: "pw"}, time.Second)
	out := p.Provision(context.Background(), testIdentity, Role{Groups: []int{1}})

	assert.False(t, out.Success)
	require.NotNil(t, out.Err)
	assert.Equal(t, ErrorRejected, out.Err.Kind)
}

func TestDMSGroupsDefaultWhenEmpty(t *testing.T) {
	var gotCreate dmsCreateUserRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	})
	mux.HandleFunc("/api/users/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotCreate))
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 8})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := NewDMSProvisioner(server.URL, ServiceCredential{Username: "svc", Password: "pw"}, time.Second)
	out := p.Provision(context.Background(), testIdentity, Role{})

	assert.True(t, out.Success)
	assert.Equal(t, []int{1}, gotCreate.Groups)
}

func TestParseRemoteError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"nope"}`, "nope"},
		{"error field", `{"error":"bad"}`, "bad"},
		{"detail field", `{"detail":"denied"}`, "denied"},
		{"message wins over error", `{"message":"m","error":"e"}`, "m"},
		{"raw text", "plain failure", "plain failure"},
		{"empty body", "", "request failed with status 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseRemoteError(500, []byte(tt.body))
			assert.Equal(t, ErrorRejected, got.Kind)
			assert.Equal(t, tt.want, got.Message)
		})
	}
}

func TestParseRemoteID(t *testing.T) {
	assert.Equal(t, "42", parseRemoteID([]byte(`{"id":42}`)))
	assert.Equal(t, "abc", parseRemoteID([]byte(`{"id":"abc"}`)))
	assert.Equal(t, "7", parseRemoteID([]byte(`{"userId":7}`)))
	assert.Equal(t, "", parseRemoteID([]byte(`{}`)))
	assert.Equal(t, "", parseRemoteID([]byte(`not json`)))
}

func TestParsePlatform(t *testing.T) {
	for _, valid := range []string{"lms", "ecommerce", "dms"} {
		p, err := Parse(valid)
		require.NoError(t, err)
		assert.Equal(t, Platform(valid), p)
	}

	_, err := Parse("crm")
	assert.Error(t, err)
}
