package apiclient

import (
	"context"
	"net/http"

	"github.com/noah-isme/clinic-admin-api/internal/dto"
)

// Dashboard fetches the admin summary. clinicID narrows a super-admin session;
// tenant users are pinned to their own clinic by the server.
func (c *Client) Dashboard(ctx context.Context, clinicID string) (*dto.DashboardResponse, error) {
	var query map[string]string
	if clinicID != "" {
		query = map[string]string{"clinicId": clinicID}
	}
	env, err := NewResource[dto.DashboardResponse](c, "/dashboard").do(ctx, http.MethodGet, "", nil, query)
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return &dto.DashboardResponse{}, nil
	}
	return env.Data, nil
}
