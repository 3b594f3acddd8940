package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// DefaultTimeout bounds a single provisioning attempt when no explicit
// timeout is configured.
const DefaultTimeout = 60 * time.Second

// Provisioner translates a generic "create an account" intent into one
// external platform's protocol. Implementations classify every failure into
// the outcome; they never return errors or panic past this boundary.
type Provisioner interface {
	Platform() Platform
	Provision(ctx context.Context, identity Identity, role Role) ProvisioningOutcome
}

// callWithTimeout races the platform call against a timer. The call itself
// is not cancelled on expiry; its eventual result is simply discarded and
// the attempt reported as a timeout.
func callWithTimeout(p Platform, timeout time.Duration, call func() ProvisioningOutcome) ProvisioningOutcome {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	done := make(chan ProvisioningOutcome, 1)
	go func() {
		done <- call()
	}()

	select {
	case outcome := <-done:
		return outcome
	case <-time.After(timeout):
		return failureOutcome(p, 0, ErrorTimeout,
			fmt.Sprintf("no response from %s within %s", p, timeout))
	}
}

// postJSON issues a POST with a JSON body and returns the status and raw
// response body. A returned error means the request never produced an HTTP
// response (network-level failure).
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload interface{}) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// parseRemoteID pulls the created identifier out of a success body. The
// platforms disagree on the field name and on whether it is a string or a
// number.
func parseRemoteID(body []byte) string {
	var envelope map[string]interface{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	for _, key := range []string{"id", "userId", "user_id"} {
		switch v := envelope[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return ""
}

// groupsOrDefault renders the DMS group set, defaulting to the lowest
// privilege group when the role mapping produced none.
func groupsOrDefault(groups []int) []int {
	if len(groups) == 0 {
		return []int{1}
	}
	return groups
}
