package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/voidshard/conveyor/pkg/api/http/common"
	cerr "github.com/voidshard/conveyor/pkg/errors"
	"github.com/voidshard/conveyor/pkg/structs"
)

// do sends in (if any) as JSON to addr and unmarshals the response into out
func (c *Client) do(ctx context.Context, method string, addr *url.URL, in interface{}, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, addr.String(), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.user != "" {
		req.Header.Set(common.HeaderUser, c.user)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return toError(resp.StatusCode, data)
	}
	return json.Unmarshal(data, out)
}

// toError turns an error response back into the error kind the server started with
func toError(status int, data []byte) error {
	var e common.ErrorResponse
	msg := string(data)
	if json.Unmarshal(data, &e) == nil {
		if e.Message != "" {
			msg = e.Message
		} else if e.Description != "" {
			msg = e.Description
		}
	}

	switch status {
	case http.StatusBadRequest:
		return cerr.Validation("%s", msg)
	case http.StatusUnauthorized:
		return cerr.Unauthorized("%s", msg)
	case http.StatusNotFound:
		return cerr.NotFound("%s", msg)
	case http.StatusConflict:
		return cerr.TerminalState("%s", msg)
	}
	return cerr.Server(fmt.Errorf("status code %d", status), "%s", msg)
}

// setQueryString sets the query string of a URL based on a Query object
func setQueryString(u *url.URL, q *structs.Query) {
	if q == nil {
		return
	}
	v := url.Values{}
	if q.Limit > 0 {
		v.Set(common.ParamLimit, strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set(common.ParamOffset, strconv.Itoa(q.Offset))
	}
	for _, s := range q.Statuses {
		v.Add(common.ParamStatuses, string(s))
	}
	u.RawQuery = v.Encode()
}
