package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/procurement/internal/notification"
)

func TestService_Notify(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *notification.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *notification.MockRepository) {
				m.EXPECT().
					CreateNotification(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, n *notification.Notification) error {
						assert.NotEmpty(t, n.ID)
						assert.Equal(t, "purchase_created", n.Type)
						assert.Equal(t, "p1", n.PurchaseID)
						assert.False(t, n.Read)
						assert.False(t, n.CreatedAt.IsZero())
						return nil
					})
			},
		},
		{
			name: "RepoError",
			setupMock: func(m *notification.MockRepository) {
				m.EXPECT().
					CreateNotification(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := notification.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := notification.NewService(repo)
			err := svc.Notify(context.Background(), "purchase_created", "New", "msg", "p1")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_List_EmptyIsNotNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := notification.NewMockRepository(ctrl)
	repo.EXPECT().ListNotifications(gomock.Any(), 50).Return(nil, nil)

	got, err := notification.NewService(repo).List(context.Background(), 50)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
