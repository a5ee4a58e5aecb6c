package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "minutes-whisper/internal/api/errors"
	"minutes-whisper/internal/app/api/provider"
	"minutes-whisper/internal/app/testutil"
)

func newProviderService(t *testing.T) (*ProviderServiceImpl, *provider.DefaultProviderMetrics) {
	t.Helper()
	registry := provider.NewProviderRegistry()

	local := testutil.NewScriptedProvider("whisper_cpp")
	remote := testutil.NewScriptedProvider("openai")
	remote.HealthErr = errors.New("401 unauthorized")

	require.NoError(t, registry.RegisterProvider("local", local))
	require.NoError(t, registry.RegisterProvider("remote", remote))

	stats := provider.NewProviderMetrics()
	return NewProviderService(registry, stats), stats
}

func TestListProviders(t *testing.T) {
	svc, _ := newProviderService(t)

	providers, err := svc.ListProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 2)

	assert.Equal(t, "local", providers[0].ID)
	assert.True(t, providers[0].IsDefault)
	assert.Equal(t, "healthy", providers[0].HealthStatus)
	assert.True(t, providers[0].Available)

	assert.Equal(t, "remote", providers[1].ID)
	assert.False(t, providers[1].IsDefault)
	assert.Equal(t, "unhealthy", providers[1].HealthStatus)
}

func TestGetProviderStatus(t *testing.T) {
	svc, _ := newProviderService(t)

	status, err := svc.GetProviderStatus(context.Background(), "remote")
	require.NoError(t, err)
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "401 unauthorized", status.ErrorMessage)

	_, err = svc.GetProviderStatus(context.Background(), "missing")
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.KindNotFound, apiErr.Kind)
}

func TestGetProviderStats(t *testing.T) {
	svc, stats := newProviderService(t)
	stats.RecordSuccess("whisper_cpp", 100, 30)
	stats.RecordFailure("whisper_cpp", "timeout")

	resp, err := svc.GetProviderStats(context.Background(), "local")
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalRequests)
	assert.Equal(t, int64(1), resp.FailedRequests)
	assert.Equal(t, 0.5, resp.SuccessRate)
	assert.Equal(t, 30.0, resp.TotalAudioDuration)
	assert.Equal(t, int64(1), resp.ErrorBreakdown["timeout"])
	assert.NotNil(t, resp.LastUsed)

	resp, err = svc.GetProviderStats(context.Background(), "remote")
	require.NoError(t, err)
	assert.Zero(t, resp.TotalRequests)
	assert.Nil(t, resp.LastUsed)
}
