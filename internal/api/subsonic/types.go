package subsonic

import (
	gosubsonic "github.com/delucks/go-subsonic"
)

// Client holds the subsonic client and the credentials used to build it
type Client struct {
	URL      string
	Username string
	Password string
	Client   gosubsonic.Client
	Salt     string
	Token    string
}

// NewClient creates a new subsonic client
func NewClient(url, username, password string) *Client {
	return &Client{
		URL:      url,
		Username: username,
		Password: password,
	}
}
