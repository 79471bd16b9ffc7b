package client_test

import (
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	mockauth "github.com/adamwoolhether/assetstore/auth/mocks"
	"github.com/adamwoolhether/assetstore/client"
	"github.com/adamwoolhether/assetstore/errs"
)

func mockClient(t *testing.T, provider *mockauth.MockProvider) *client.Client {
	t.Helper()

	c, err := client.Build(provider, client.WithRateLimitDelay(0), client.WithLogger(testLogger))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return c
}

func TestClient_ExpiredToken_NoSession(t *testing.T) {
	m := newMarketplace(t)
	ctrl := gomock.NewController(t)

	provider := mockauth.NewMockProvider(ctrl)
	provider.EXPECT().Endpoints().Return(m.endpoints()).AnyTimes()
	provider.EXPECT().IsTokenExpired().Return(true).Times(2)
	provider.EXPECT().Session().Times(0)

	c := mockClient(t, provider)

	if _, err := c.GetAsset(t.Context(), testUID); !errors.Is(err, errs.ErrTokenExpired) {
		t.Fatalf("exp ErrTokenExpired, got: %v", err)
	}
	if _, err := c.DownloadAsset(t.Context(), testUID, t.TempDir()); !errors.Is(err, errs.ErrTokenExpired) {
		t.Fatalf("exp ErrTokenExpired, got: %v", err)
	}
	if n := m.requestCount(); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
}

func TestClient_SessionFailure(t *testing.T) {
	testCases := map[string]struct {
		sessionErr error
		expKind    error
	}{
		"plainError":    {sessionErr: errors.New("keychain locked"), expKind: errs.ErrAuthentication},
		"taxonomyError": {sessionErr: errs.New(errs.ErrNetwork, "token service down"), expKind: errs.ErrNetwork},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			m := newMarketplace(t)
			ctrl := gomock.NewController(t)

			provider := mockauth.NewMockProvider(ctrl)
			provider.EXPECT().Endpoints().Return(m.endpoints()).AnyTimes()
			provider.EXPECT().IsTokenExpired().Return(false)
			provider.EXPECT().Session().Return(nil, tc.sessionErr)

			c := mockClient(t, provider)

			_, err := c.GetCollection(t.Context())
			if !errors.Is(err, tc.expKind) {
				t.Fatalf("exp %v, got: %v", tc.expKind, err)
			}
			if !errors.Is(err, tc.sessionErr) {
				t.Errorf("exp session error to remain visible, got: %v", err)
			}
		})
	}
}

func TestClient_UsesProviderSession(t *testing.T) {
	m := newMarketplace(t)
	ctrl := gomock.NewController(t)

	provider := mockauth.NewMockProvider(ctrl)
	provider.EXPECT().Endpoints().Return(m.endpoints()).AnyTimes()
	provider.EXPECT().IsTokenExpired().Return(false).Times(2)
	provider.EXPECT().Session().Return(m.server.Client(), nil).Times(2)

	c := mockClient(t, provider)

	for range 2 {
		if _, err := c.GetAsset(t.Context(), testUID); err != nil {
			t.Fatalf("GetAsset: %v", err)
		}
	}
}
