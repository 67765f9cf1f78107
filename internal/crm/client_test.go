package crm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xisxz/agente-vendas/internal/model"
)

func TestNewClient(t *testing.T) {
	t.Run("requires a base url", func(t *testing.T) {
		_, err := NewClient(Config{})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("applies defaults", func(t *testing.T) {
		c, err := NewClient(Config{BaseURL: "http://crm.local"})
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, c.config.Timeout)
		assert.Equal(t, 200*time.Millisecond, c.config.RetryDelay)
	})
}

func TestPersonPayload(t *testing.T) {
	t.Run("full lead", func(t *testing.T) {
		payload := personPayload(&model.Lead{
			Name:               "Ana Silva",
			Email:              "ana@acme.com",
			Phone:              "11999990000",
			Company:            "Acme Ltda",
			Location:           "Sao Paulo",
			Source:             "referral",
			QualificationScore: 8,
		})

		assert.Equal(t, "Ana Silva", payload["name"])
		assert.Equal(t, []string{"ana@acme.com"}, payload["email"])
		assert.Equal(t, []string{"11999990000"}, payload["phone"])
		assert.Equal(t, "Acme Ltda", payload["org_name"])

		custom := payload["custom_fields"].(map[string]interface{})
		assert.Equal(t, "Sao Paulo", custom["location"])
		assert.Equal(t, "referral", custom["source"])
		assert.Equal(t, 8.0, custom["qualification_score"])
	})

	t.Run("empty fields are omitted", func(t *testing.T) {
		payload := personPayload(&model.Lead{Name: "Ana"})
		assert.Equal(t, "Ana", payload["name"])
		assert.NotContains(t, payload, "email")
		assert.NotContains(t, payload, "phone")
		assert.NotContains(t, payload, "org_name")
		assert.NotContains(t, payload, "custom_fields")
	})
}

func TestSyncLead_FoldsErrorsIntoResult(t *testing.T) {
	// Nothing is listening on this port; sync must report, not fail.
	c, err := NewClient(Config{
		BaseURL:    "http://127.0.0.1:1",
		Timeout:    100 * time.Millisecond,
		RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result := c.SyncLead(ctx, &model.Lead{ID: 1, Name: "Ana"})
	assert.False(t, result.Synced)
	assert.NotEmpty(t, result.Error)
	assert.Nil(t, result.CRMID)
}
