package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/voidshard/conveyor/internal/mocks/pkg/signer_mock"
	"github.com/voidshard/conveyor/pkg/api"
	"github.com/voidshard/conveyor/pkg/api/http/server"
	"github.com/voidshard/conveyor/pkg/database"
	cerr "github.com/voidshard/conveyor/pkg/errors"
	"github.com/voidshard/conveyor/pkg/structs"
)

func newTestClient(t *testing.T) (*Client, api.API) {
	svc, err := api.New(&api.Options{
		Database: &database.Options{URL: "sqlite://:memory:"},
		Signer:   signer_mock.NewMockSigner(gomock.NewController(t)),
	})
	require.NoError(t, err)

	ts := httptest.NewServer(server.NewServer(nil).Router(svc))
	t.Cleanup(func() {
		ts.Close()
		svc.Close()
	})

	c, err := New(ts.URL)
	require.NoError(t, err)
	return c, svc
}

func TestClientLifecycle(t *testing.T) {
	c, svc := newTestClient(t)
	ctx := context.Background()

	j, err := svc.Submit(ctx, &structs.SubmitRequest{Owner: "joe", RequestURL: "http://localhost:3000/req"})
	require.NoError(t, err)

	c.SetUser("joe")

	out, err := c.SendUpdate(ctx, j.ID, &structs.Update{Progress: structs.NewProgress(10)}, false)
	require.NoError(t, err)
	assert.Equal(t, structs.RUNNING, out.Status)
	assert.Equal(t, 10, out.Progress)

	out, err = c.SendUpdate(ctx, j.ID, &structs.Update{Item: &structs.Link{Href: "s3://bucket/out.nc", Type: "application/x-netcdf"}}, true)
	require.NoError(t, err)
	assert.NotEmpty(t, out.TaskID)

	v, err := c.Job(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, j.ID, v.JobID)
	assert.Equal(t, 10, v.Progress)
	hrefs := []string{}
	for _, l := range v.Links {
		hrefs = append(hrefs, l.Href)
	}
	assert.Contains(t, hrefs, "http://localhost:3000/service-results/bucket/out.nc")

	list, err := c.Jobs(ctx, &structs.Query{Statuses: []structs.Status{structs.RUNNING}})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)

	v, err = c.Cancel(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, structs.CANCELED, v.Status)

	_, err = c.SendUpdate(ctx, j.ID, &structs.Update{Status: structs.SUCCESSFUL}, false)
	assert.ErrorIs(t, err, cerr.ErrTerminalState)
}

func TestClientErrors(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	_, err := c.Job(ctx, "abc")
	assert.ErrorIs(t, err, cerr.ErrUnauthorized)

	c.SetUser("joe")

	_, err = c.Job(ctx, "abc")
	assert.ErrorIs(t, err, cerr.ErrValidation)
	assert.Contains(t, err.Error(), "Invalid format for Job ID 'abc'")

	_, err = c.Job(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, cerr.ErrNotFound)
}

func TestRoute(t *testing.T) {
	assert.Equal(t, "/jobs/a%20b/cancel", route("/jobs/{id}/cancel", "id", "a b"))
}
