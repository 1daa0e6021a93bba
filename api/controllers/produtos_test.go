package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	productsvc "github.com/ipa-digital/safra-backend/internal/products"
	"github.com/ipa-digital/safra-backend/pkg/logger"
	"github.com/ipa-digital/safra-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestAdjustProdutoEstoque(t *testing.T) {
	logg := testLogger()

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/produtos/abc/estoque", strings.NewReader(`{"delta":5}`))
		req = withURLParam(req, "id", "abc")
		rec := httptest.NewRecorder()
		AdjustProdutoEstoque(&stubProdutoService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad id, got %d", rec.Code)
		}
	})

	t.Run("missing delta", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/produtos/7/estoque", strings.NewReader(`{}`))
		req = withURLParam(req, "id", "7")
		rec := httptest.NewRecorder()
		AdjustProdutoEstoque(&stubProdutoService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing delta, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubProdutoService{}
		req := httptest.NewRequest(http.MethodPatch, "/api/produtos/7/estoque", strings.NewReader(`{"delta":-3}`))
		req = withURLParam(req, "id", "7")
		rec := httptest.NewRecorder()
		AdjustProdutoEstoque(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.adjustedID != 7 || stub.adjustedDelta != -3 {
			t.Fatalf("expected AdjustStock(7, -3), got (%d, %d)", stub.adjustedID, stub.adjustedDelta)
		}

		var envelope struct {
			Data productsvc.ProductDTO `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if envelope.Data.Nome != "Adubo Orgânico" {
			t.Fatalf("unexpected product in envelope: %+v", envelope.Data)
		}
	})
}

func TestListProdutosSwitchesToSearch(t *testing.T) {
	stub := &stubProdutoService{}
	req := httptest.NewRequest(http.MethodGet, "/api/produtos?busca=adubo", nil)
	rec := httptest.NewRecorder()
	ListProdutos(stub, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.searchedTerm != "adubo" {
		t.Fatalf("expected search term to reach the service, got %q", stub.searchedTerm)
	}
	if stub.listed {
		t.Fatalf("expected the paged listing to be skipped when busca is set")
	}
}

func TestListProdutosRejectsBadPage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/produtos?page=zero", nil)
	rec := httptest.NewRecorder()
	ListProdutos(&stubProdutoService{}, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric page, got %d", rec.Code)
	}
}

type stubProdutoService struct {
	adjustedID    int64
	adjustedDelta int
	searchedTerm  string
	listed        bool
}

func (s *stubProdutoService) Create(ctx context.Context, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubProdutoService) GetByID(ctx context.Context, id int64) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubProdutoService) List(ctx context.Context, params pagination.Params) (*productsvc.ProductPage, error) {
	s.listed = true
	return &productsvc.ProductPage{Meta: pagination.MetaFor(params, 0)}, nil
}

func (s *stubProdutoService) ListByCategoria(ctx context.Context, categoria string) ([]productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubProdutoService) SearchByNome(ctx context.Context, termo string) ([]productsvc.ProductDTO, error) {
	s.searchedTerm = termo
	return []productsvc.ProductDTO{}, nil
}

func (s *stubProdutoService) Update(ctx context.Context, id int64, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubProdutoService) AdjustStock(ctx context.Context, id int64, delta int) (*productsvc.ProductDTO, error) {
	s.adjustedID = id
	s.adjustedDelta = delta
	return &productsvc.ProductDTO{ID: id, Nome: "Adubo Orgânico"}, nil
}

func (s *stubProdutoService) Delete(ctx context.Context, id int64) error {
	panic("unimplemented")
}
