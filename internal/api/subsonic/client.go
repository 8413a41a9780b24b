package subsonic

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	gosubsonic "github.com/delucks/go-subsonic"
)

const (
	apiVersion = "1.16.1"
	clientName = "flacsort"
)

// Authenticate authenticates the client with the subsonic-compatible server
func (c *Client) Authenticate() error {
	// Ping the server to get the salt
	pingURL := fmt.Sprintf("%s/rest/ping.view?v=%s&c=%s&f=json", c.URL, apiVersion, clientName)
	resp, err := http.Get(pingURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pingResponse struct {
		SubsonicResponse struct {
			Status string `json:"status"`
			Salt   string `json:"salt"`
		} `json:"subsonic-response"`
	}

	if err := json.Unmarshal(body, &pingResponse); err != nil {
		return err
	}

	if pingResponse.SubsonicResponse.Status != "ok" {
		// Try with auth
		pingURL = fmt.Sprintf("%s/rest/ping.view?u=%s&p=%s&v=%s&c=%s&f=json", c.URL, c.Username, c.Password, apiVersion, clientName)
		resp, err = http.Get(pingURL)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if err := json.Unmarshal(body, &pingResponse); err != nil {
			return err
		}

		if pingResponse.SubsonicResponse.Status != "ok" {
			return fmt.Errorf("ping failed: %s", pingResponse.SubsonicResponse.Status)
		}
	}

	c.Salt = pingResponse.SubsonicResponse.Salt
	c.Token = getSaltedPassword(c.Password, c.Salt)

	c.Client = gosubsonic.Client{
		Client:       http.DefaultClient,
		BaseUrl:      c.URL,
		User:         c.Username,
		ClientName:   clientName,
		PasswordAuth: true,
	}
	return c.Client.Authenticate(c.Password)
}

// StartScan asks the server to rescan its media library
func (c *Client) StartScan() error {
	scanURL := fmt.Sprintf("%s/rest/startScan.view?u=%s&t=%s&s=%s&v=%s&c=%s&f=json",
		c.URL, c.Username, c.Token, c.Salt, apiVersion, clientName)

	req, err := http.NewRequest("GET", scanURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to start scan: status code %d, body: %s", resp.StatusCode, string(body))
	}

	var scanResponse struct {
		SubsonicResponse struct {
			Status string `json:"status"`
			Error  struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		} `json:"subsonic-response"`
	}

	if err := json.Unmarshal(body, &scanResponse); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if scanResponse.SubsonicResponse.Status == "failed" {
		return fmt.Errorf("failed to start scan: %s (code %d)", scanResponse.SubsonicResponse.Error.Message, scanResponse.SubsonicResponse.Error.Code)
	}

	return nil
}

// getSaltedPassword returns the salted password token for subsonic auth
func getSaltedPassword(password string, salt string) string {
	hasher := md5.New()
	hasher.Write([]byte(password + salt))
	return hex.EncodeToString(hasher.Sum(nil))
}
