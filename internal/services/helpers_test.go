package service_test

import (
	"testing"

	cacheMocks "github.com/aaravmahajanofficial/storefront/internal/cache/mocks"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func requireAppError(t *testing.T, err error, code string) *appErrors.AppError {
	t.Helper()

	require.Error(t, err)

	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok, "expected an AppError, got %T", err)
	require.Equal(t, code, appErr.Code)

	return appErr
}

// newColdCache always misses and accepts any write.
func newColdCache() *cacheMocks.Cache {
	c := new(cacheMocks.Cache)
	c.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Maybe()
	c.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	c.On("Delete", mock.Anything, mock.Anything).Return(nil).Maybe()

	return c
}
