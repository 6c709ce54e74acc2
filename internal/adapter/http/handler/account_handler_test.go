package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

type accountServiceStub struct {
	createFn    func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getByCodeFn func(ctx context.Context, companyID, code string) (*domain.Account, error)
	listFn      func(ctx context.Context, companyID string, filter domain.AccountFilter) ([]*domain.Account, error)
	deleteFn    func(ctx context.Context, actor domain.Actor, id string) error
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	return s.getByCodeFn(ctx, companyID, code)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, companyID string, filter domain.AccountFilter) ([]*domain.Account, error) {
	return s.listFn(ctx, companyID, filter)
}

func (s *accountServiceStub) DeleteAccount(ctx context.Context, actor domain.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{ID: "acc-1", CompanyID: input.Actor.CompanyID, Code: input.Code, Name: input.Name, Type: input.Type, Active: true}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{Code: "1100", Name: "Bank", Type: "ASSET", IsCash: true})
	req := withActor(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body)))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Actor != testActor || captured.Code != "1100" || !captured.IsCash {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" || resp.Type != "ASSET" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for invalid payload")
			return nil, nil
		},
	})

	tests := []string{"{invalid json", `{"code":"1100","currency":"IDR"}`}
	for _, body := range tests {
		req := withActor(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(body)))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", body, rec.Code)
		}
	}
}

func TestAccountHandler_Create_DomainErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.ErrDuplicateAccountCode, http.StatusConflict},
		{domain.ErrInvalidAccountType, http.StatusBadRequest},
		{errors.New("db error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		handler := NewAccountHandler(&accountServiceStub{
			createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
				return nil, tt.err
			},
		})

		body, _ := json.Marshal(dto.CreateAccountRequest{Code: "1100", Name: "Bank", Type: "ASSET"})
		req := withActor(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body)))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		if rec.Code != tt.status {
			t.Fatalf("%v: expected %d, got %d", tt.err, tt.status, rec.Code)
		}
	}
}

func TestAccountHandler_Create_NoActor(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAccountHandler_GetByCode(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getByCodeFn: func(ctx context.Context, companyID, code string) (*domain.Account, error) {
			if companyID != "co-1" {
				t.Fatalf("expected actor company, got %s", companyID)
			}
			if code == "9999" {
				return nil, domain.ErrAccountNotFound
			}
			return &domain.Account{ID: "acc-1", Code: code}, nil
		},
	})

	req := withURLParams(withActor(httptest.NewRequest(http.MethodGet, "/accounts/1100", nil)), "code", "1100")
	rec := httptest.NewRecorder()
	handler.GetByCode(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = withURLParams(withActor(httptest.NewRequest(http.MethodGet, "/accounts/9999", nil)), "code", "9999")
	rec = httptest.NewRecorder()
	handler.GetByCode(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List(t *testing.T) {
	var captured domain.AccountFilter
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, companyID string, filter domain.AccountFilter) ([]*domain.Account, error) {
			captured = filter
			return []*domain.Account{{ID: "a1"}, {ID: "a2"}}, nil
		},
	})

	req := withActor(httptest.NewRequest(http.MethodGet, "/accounts?type=ASSET&include_deleted=true&limit=10", nil))
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Type != domain.AccountTypeAsset || !captured.IncludeDeleted || captured.Limit != 10 {
		t.Fatalf("unexpected filter %+v", captured)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("expected 2 accounts, got %d", resp.Total)
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		deleteFn: func(ctx context.Context, actor domain.Actor, id string) error {
			if id != "acc-1" {
				return domain.ErrAccountNotFound
			}
			return nil
		},
	})

	req := withURLParams(withActor(httptest.NewRequest(http.MethodDelete, "/accounts/acc-1", nil)), "id", "acc-1")
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	req = withURLParams(withActor(httptest.NewRequest(http.MethodDelete, "/accounts/other", nil)), "id", "other")
	rec = httptest.NewRecorder()
	handler.Delete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
