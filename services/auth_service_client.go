// services/auth_service_client.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"campus-tour-system/utils"
)

// AuthServiceClient validates session tokens against the campus auth
// service. Only the SSE path needs it: EventSource cannot set headers, so
// identity arrives as a query token instead of gateway headers.
type AuthServiceClient struct {
	BaseURL string
	Token   string
}

type ValidateResponse struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

func NewAuthServiceClient(baseURL, serviceToken string) *AuthServiceClient {
	return &AuthServiceClient{BaseURL: baseURL, Token: serviceToken}
}

// ValidateToken calls /auth/validate and returns the resolved identity.
func (c *AuthServiceClient) ValidateToken(accessToken string) (*ValidateResponse, error) {
	url := fmt.Sprintf("%s/auth/validate", c.BaseURL)

	body, _ := json.Marshal(map[string]string{"access_token": accessToken})
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := utils.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		log.Printf("[AUTH] /auth/validate returned %d: %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("auth validation failed: %d", resp.StatusCode)
	}

	var out ValidateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
