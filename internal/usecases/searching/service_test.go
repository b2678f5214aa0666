package searching

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront/mocks"
	"github.com/vfg2006/storefront-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSearcher := mocks.NewMockProductSearcher(ctrl)
	service := NewService(mockSearcher)

	mockSearcher.EXPECT().SearchProducts(gomock.Any(), "caneta").
		Return([]domain.SearchProduct{{ID: 1, Name: "Caneta"}}, nil)

	resp, err := service.Search(context.Background(), "tab-1", "caneta")
	require.NoError(t, err)
	assert.True(t, resp.Applied)
	assert.Len(t, resp.Results, 1)

	current := service.Current("tab-1")
	assert.Equal(t, "caneta", current.Query)
	assert.Len(t, current.Results, 1)

	// Outra sessão não enxerga o resultado
	assert.Empty(t, service.Current("tab-2").Results)
}

func TestService_Search_EmptyQueryClearsWithoutRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSearcher := mocks.NewMockProductSearcher(ctrl)
	service := NewService(mockSearcher)

	mockSearcher.EXPECT().SearchProducts(gomock.Any(), "lápis").
		Return([]domain.SearchProduct{{ID: 2}}, nil)

	_, err := service.Search(context.Background(), "", "lápis")
	require.NoError(t, err)

	resp, err := service.Search(context.Background(), "", "   ")
	require.NoError(t, err)
	assert.True(t, resp.Applied)
	assert.Empty(t, resp.Results)
	assert.Empty(t, service.Current("").Results)
}

func TestService_Search_StaleResponseIsDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSearcher := mocks.NewMockProductSearcher(ctrl)
	service := NewService(mockSearcher)

	release := make(chan struct{})
	started := make(chan struct{})

	// A primeira busca ("c") fica presa até a segunda ("ca") terminar
	mockSearcher.EXPECT().SearchProducts(gomock.Any(), "c").
		DoAndReturn(func(context.Context, string) ([]domain.SearchProduct, error) {
			close(started)
			<-release
			return []domain.SearchProduct{{ID: 1, Name: "Cola"}, {ID: 2, Name: "Caneta"}}, nil
		})
	mockSearcher.EXPECT().SearchProducts(gomock.Any(), "ca").
		Return([]domain.SearchProduct{{ID: 2, Name: "Caneta"}}, nil)

	staleResp := make(chan *domain.SearchResponse, 1)
	go func() {
		resp, _ := service.Search(context.Background(), "tab", "c")
		staleResp <- resp
	}()

	<-started

	latest, err := service.Search(context.Background(), "tab", "ca")
	require.NoError(t, err)
	assert.True(t, latest.Applied)

	close(release)
	stale := <-staleResp
	assert.False(t, stale.Applied)

	current := service.Current("tab")
	assert.Equal(t, "ca", current.Query)
	require.Len(t, current.Results, 1)
	assert.Equal(t, "Caneta", current.Results[0].Name)
}

func TestService_Search_TransportFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSearcher := mocks.NewMockProductSearcher(ctrl)
	service := NewService(mockSearcher)

	mockSearcher.EXPECT().SearchProducts(gomock.Any(), "x").Return(nil, errors.New("connection refused"))

	resp, err := service.Search(context.Background(), "tab", "x")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.True(t, resp.Applied)
	assert.Empty(t, resp.Results)
	assert.NotNil(t, resp.Results)
}

func TestService_SessionsExpireAndAreCapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	service := NewService(mocks.NewMockProductSearcher(ctrl)).WithClock(func() time.Time { return now })
	service.maxSessions = 3

	ctx := context.Background()

	// Consultas vazias não chamam o backend, só criam a sessão
	for i := 0; i < 3; i++ {
		_, err := service.Search(ctx, fmt.Sprintf("tab-%d", i), "")
		require.NoError(t, err)
		now = now.Add(time.Second)
	}
	assert.Equal(t, 3, service.Sessions())

	// No limite, a sessão menos usada dá lugar à nova
	_, err := service.Search(ctx, "tab-0", "")
	require.NoError(t, err)
	_, err = service.Search(ctx, "tab-3", "")
	require.NoError(t, err)
	assert.Equal(t, 3, service.Sessions())

	service.mu.Lock()
	_, keptRecent := service.sessions["tab-0"]
	_, keptOldest := service.sessions["tab-1"]
	service.mu.Unlock()
	assert.True(t, keptRecent)
	assert.False(t, keptOldest)

	// Sessões paradas além do TTL somem quando outra sessão é criada
	now = now.Add(sessionIdleTTL + time.Minute)
	_, err = service.Search(ctx, "tab-new", "")
	require.NoError(t, err)
	assert.Equal(t, 1, service.Sessions())

	// Consultar uma sessão desconhecida não cria entrada
	assert.Empty(t, service.Current("ghost").Results)
	assert.Equal(t, 1, service.Sessions())
}
