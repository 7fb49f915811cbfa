package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/voidshard/conveyor/internal/mocks/pkg/signer_mock"
	"github.com/voidshard/conveyor/pkg/database"
	"github.com/voidshard/conveyor/pkg/queue"
	"github.com/voidshard/conveyor/pkg/structs"
)

func TestNewDefaults(t *testing.T) {
	svc, err := New(nil)
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.ResultURL(context.Background(), "bucket", "key", "alice")
	assert.Error(t, err)
}

func TestNewSQLiteDirect(t *testing.T) {
	ctrl := gomock.NewController(t)
	sg := signer_mock.NewMockSigner(ctrl)

	svc, run, err := NewWorker(&Options{
		Database: &database.Options{URL: "sqlite://:memory:"},
		Queue:    &queue.Options{},
		Signer:   sg,
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- run() }()

	ctx := context.Background()
	j, err := svc.Submit(ctx, &structs.SubmitRequest{Owner: "alice", RequestURL: "http://localhost:3000/req"})
	require.NoError(t, err)

	_, err = svc.EnqueueUpdate(ctx, j.ID, &structs.Update{Progress: structs.NewProgress(40)})
	require.NoError(t, err)

	v, err := svc.Status(ctx, j.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, structs.RUNNING, v.Status)
	assert.Equal(t, 40, v.Progress)

	assert.NoError(t, svc.Close())
	assert.NoError(t, <-done)
}

func TestOpenQueue(t *testing.T) {
	qu, err := openQueue(&queue.Options{URL: ""})
	require.NoError(t, err)
	_, ok := qu.(*queue.Direct)
	assert.True(t, ok)
}
