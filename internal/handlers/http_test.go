package handlers_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/infosegura/loteria-server/internal/errors"
	"github.com/infosegura/loteria-server/internal/handlers"
	"github.com/infosegura/loteria-server/internal/services"
)

func TestToAPIError_ApplicationErrors(t *testing.T) {
	tests := []struct {
		name       string
		inputErr   error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found kind",
			inputErr:   errors.NotFound("room not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   handlers.ErrCodeNotFound,
		},
		{
			name:       "validation kind",
			inputErr:   &errors.Error{Kind: errors.ErrValidation, Message: "bad field"},
			wantStatus: http.StatusBadRequest,
			wantCode:   handlers.ErrCodeValidation,
		},
		{
			name:       "conflict kind",
			inputErr:   errors.Conflict("already exists"),
			wantStatus: http.StatusConflict,
			wantCode:   handlers.ErrCodeConflict,
		},
		{
			name:       "wrapped storage failure",
			inputErr:   errors.Wrap(stderrors.New("database is locked"), errors.ErrInternal, "failed to save room"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   handlers.ErrCodeInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := handlers.ToAPIError(tt.inputErr)
			if apiErr.Status != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, apiErr.Status)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, apiErr.Code)
			}
		})
	}
}

func TestToAPIError_ServiceErrors(t *testing.T) {
	tests := []struct {
		inputErr   error
		wantStatus int
	}{
		{services.ErrRoomNotFound, http.StatusNotFound},
		{services.ErrPlayerNotFound, http.StatusNotFound},
		{services.ErrNameInUse, http.StatusConflict},
		{services.ErrRoomFull, http.StatusConflict},
		{services.ErrInvalidMode, http.StatusBadRequest},
	}

	for _, tt := range tests {
		if apiErr := handlers.ToAPIError(tt.inputErr); apiErr.Status != tt.wantStatus {
			t.Errorf("ToAPIError(%v) status = %d, want %d", tt.inputErr, apiErr.Status, tt.wantStatus)
		}
	}
}

func TestToAPIError_UnknownError(t *testing.T) {
	apiErr := handlers.ToAPIError(stderrors.New("boom"))
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("expected 500 for unknown errors, got %d", apiErr.Status)
	}
}
