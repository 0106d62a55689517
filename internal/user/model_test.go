package user

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStatus(t *testing.T) {
	t.Parallel()

	u := &User{}
	assert.Equal(t, "approved", u.Status())

	u.IsSuspended = true
	assert.Equal(t, "pending", u.Status())
}

func TestUserJSON_HidesSecrets(t *testing.T) {
	t.Parallel()

	token := "123456"
	u := &User{
		ID:           uuid.New(),
		Name:         "Ada Bookman",
		Email:        "ada@example.com",
		PasswordHash: "$argon2id$...",
		ResetToken:   &token,
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "argon2id")
	assert.NotContains(t, string(data), "123456")
	assert.Contains(t, string(data), "ada@example.com")
}
