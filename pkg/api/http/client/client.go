package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/voidshard/conveyor/pkg/api/http/common"
	"github.com/voidshard/conveyor/pkg/structs"
)

type Client struct {
	url  *url.URL
	http *http.Client

	token string
	user  string
}

func New(address string) (*Client, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, err
	}
	return &Client{url: u, http: &http.Client{}}, nil
}

// SetToken sets a bearer token sent with every request
func (c *Client) SetToken(token string) {
	c.token = token
}

// SetUser sets the identity header sent with every request, for servers behind an auth proxy
func (c *Client) SetUser(user string) {
	c.user = user
}

func (c *Client) Jobs(ctx context.Context, q *structs.Query) (*structs.JobList, error) {
	addr := c.addr(common.API_JOBS)
	setQueryString(addr, q)
	var out structs.JobList
	return &out, c.do(ctx, http.MethodGet, addr, nil, &out)
}

func (c *Client) Job(ctx context.Context, id string) (*structs.JobView, error) {
	addr := c.addr(route(common.API_JOB, "id", id))
	var out structs.JobView
	return &out, c.do(ctx, http.MethodGet, addr, nil, &out)
}

func (c *Client) Cancel(ctx context.Context, id string) (*structs.JobView, error) {
	addr := c.addr(route(common.API_CANCEL, "id", id))
	var out structs.JobView
	return &out, c.do(ctx, http.MethodPost, addr, nil, &out)
}

// SendUpdate sends an executor update for a job. With async the server queues the update
// and returns before it is applied.
func (c *Client) SendUpdate(ctx context.Context, id string, u *structs.Update, async bool) (*common.UpdateResponse, error) {
	addr := c.addr(route(common.API_SERVICE_RESPONSE, "id", id))
	if async {
		addr.RawQuery = url.Values{common.ParamAsync: []string{"true"}}.Encode()
	}
	var out common.UpdateResponse
	return &out, c.do(ctx, http.MethodPost, addr, u, &out)
}

func (c *Client) addr(path string) *url.URL {
	return &url.URL{Scheme: c.url.Scheme, Host: c.url.Host, Path: strings.TrimSuffix(c.url.Path, "/") + path}
}

// route fills in a {name} variable of a route template
func route(tmpl, name, value string) string {
	return strings.Replace(tmpl, fmt.Sprintf("{%s}", name), url.PathEscape(value), 1)
}
