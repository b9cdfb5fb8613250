package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AdminClient updates user credentials through the auth provider's admin
// API using the service role key. It never sees or stores password hashes.
type AdminClient struct {
	BaseURL        string
	ServiceRoleKey string
	HTTPClient     *http.Client
}

func NewAdminClient(baseURL, serviceRoleKey string) *AdminClient {
	return &AdminClient{
		BaseURL:        baseURL,
		ServiceRoleKey: serviceRoleKey,
		HTTPClient:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *AdminClient) UpdatePassword(userID, newPassword string) error {
	body, err := json.Marshal(map[string]string{"password": newPassword})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/auth/v1/admin/users/%s", c.BaseURL, userID)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.ServiceRoleKey)
	req.Header.Set("apikey", c.ServiceRoleKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("admin password update failed, status %s: %s", resp.Status, respBody)
	}
	return nil
}
