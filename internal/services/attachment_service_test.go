package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/showcase/internal/logging"
	"github.com/yukikurage/showcase/internal/models"
)

func TestAttachmentService_StoredNameIsPrefixed(t *testing.T) {
	env := setupTestEnv(t, models.KindTeam)

	a, err := env.attachments.StoredName("logo.png")
	require.NoError(t, err)
	b, err := env.attachments.StoredName("logo.png")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(a, "_logo.png"))
	assert.NotEqual(t, a, b)

	_, err = env.attachments.StoredName("../..")
	assert.ErrorIs(t, err, ErrInvalidFilename)
}

func TestAttachmentService_StoreOpenRemove(t *testing.T) {
	env := setupTestEnv(t, models.KindTeam)
	ctx := context.Background()

	name, err := env.attachments.Store(ctx, Upload{Filename: "logo.png", Content: strings.NewReader("img"), Size: 3})
	require.NoError(t, err)

	rc, err := env.attachments.Open(ctx, name)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	env.attachments.Remove(ctx, name)
	_, err = env.attachments.Open(ctx, name)
	assert.ErrorIs(t, err, ErrAttachmentNotFound)

	_, err = env.attachments.Open(ctx, "../secret")
	assert.ErrorIs(t, err, ErrAttachmentNotFound)
}

func TestAttachmentService_Resolve(t *testing.T) {
	env := setupTestEnv(t, models.KindTeam)

	_, err := env.attachments.Resolve("../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidFilename)

	other := NewAttachmentService(&failingStorage{}, logging.Nop())
	_, err = other.Resolve("a.png")
	assert.ErrorIs(t, err, ErrAttachmentNotFound)
}

func TestAttachmentService_StoreFailure(t *testing.T) {
	s := NewAttachmentService(&failingStorage{}, logging.Nop())

	_, err := s.Store(context.Background(), Upload{Filename: "a.png", Content: strings.NewReader("a"), Size: 1})
	assert.ErrorIs(t, err, ErrStorageFailure)
}
