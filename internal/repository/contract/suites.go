// Package contract defines storage-agnostic repository test suites. A backend
// passes by providing factories; the suites only exercise the repository
// interfaces and the domain errors they promise.
package contract

import (
	"context"
	"errors"
	"testing"

	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/repository"
)

type ProductFactory func(t *testing.T) (repository.ProductRepository, func())

type TxFactory func(t *testing.T) (tx repository.TxManager, products repository.ProductRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func published(v bool) *bool { return &v }

func seedProduct(sku string) model.Product {
	return model.Product{
		SKU:          sku,
		Title:        "Test Product " + sku,
		CategoryCode: "C001",
		Description:  "contract seed",
		IsPublished:  published(true),
	}
}

func RunProductRepositoryContract(t *testing.T, makeRepo ProductFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()

		p := seedProduct("CT-001")
		p.Attributes = []model.Attribute{{NameCode: "A001", ValueCode: "V001"}}
		created, err := repo.Create(ctx, []model.Product{p})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if len(created) != 1 {
			t.Fatalf("expected 1 created, got %d", len(created))
		}

		got, err := repo.GetBySKU(ctx, "CT-001")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.SKU != "CT-001" || got.Title != p.Title {
			t.Fatalf("mismatch: %+v", got)
		}
		if len(got.Attributes) != 1 || got.Attributes[0].NameCode != "A001" {
			t.Fatalf("attributes not resolved: %+v", got.Attributes)
		}
		if got.Attributes[0].Name == "" || got.Attributes[0].Value == "" {
			t.Fatalf("lookup names not joined: %+v", got.Attributes[0])
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetBySKU(context.Background(), "CT-MISSING")
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		var skuErr *repository.SKUNotFoundError
		if !errors.As(err, &skuErr) || skuErr.SKU != "CT-MISSING" {
			t.Fatalf("expected attributed error, got %v", err)
		}
	})

	t.Run("duplicate_sku_named", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()

		if _, err := repo.Create(ctx, []model.Product{seedProduct("CT-DUP")}); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		_, err := repo.Create(ctx, []model.Product{seedProduct("CT-DUP")})
		var exists *repository.SKUAlreadyExistsError
		if !errors.As(err, &exists) || exists.SKU != "CT-DUP" {
			t.Fatalf("expected SKUAlreadyExistsError for CT-DUP, got %v", err)
		}
	})

	t.Run("list_and_count_with_filters", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()

		seed := []model.Product{seedProduct("CT-A"), seedProduct("CT-B"), seedProduct("CT-C")}
		if _, err := repo.Create(ctx, seed); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		total, err := repo.Count(ctx, model.ProductFilters{})
		if err != nil || total != 3 {
			t.Fatalf("count: got %d, err %v", total, err)
		}

		items, err := repo.List(ctx, model.ProductFilters{}, repository.Page{Limit: 2, Offset: 0})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("limit not applied: got %d", len(items))
		}

		one, err := repo.List(ctx, model.ProductFilters{SKU: "CT-B"}, repository.Page{Limit: 10, Offset: 0})
		if err != nil || len(one) != 1 || one[0].SKU != "CT-B" {
			t.Fatalf("sku filter: got %+v, err %v", one, err)
		}
	})

	t.Run("update_full_replaces_attributes", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()

		p := seedProduct("CT-UPD")
		p.Attributes = []model.Attribute{{NameCode: "A001", ValueCode: "V001"}}
		if _, err := repo.Create(ctx, []model.Product{p}); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		p.Title = "Renamed"
		p.Attributes = []model.Attribute{{NameCode: "A002", ValueCode: "V003"}}
		updated, err := repo.UpdateFull(ctx, []model.Product{p})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if updated[0].Title != "Renamed" {
			t.Fatalf("title not updated: %+v", updated[0])
		}
		if len(updated[0].Attributes) != 1 || updated[0].Attributes[0].NameCode != "A002" {
			t.Fatalf("attributes not replaced: %+v", updated[0].Attributes)
		}
	})

	t.Run("update_unknown_sku", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.UpdateFull(context.Background(), []model.Product{seedProduct("CT-GHOST")})
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("partial_update_leaves_other_fields", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()

		if _, err := repo.Create(ctx, []model.Product{seedProduct("CT-PATCH")}); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		title := "Patched"
		updated, err := repo.UpdatePartial(ctx, []model.ProductPatch{{SKU: "CT-PATCH", Title: &title}})
		if err != nil {
			t.Fatalf("patch failed: %v", err)
		}
		if updated[0].Title != "Patched" {
			t.Fatalf("title not patched: %+v", updated[0])
		}
		if updated[0].Description != "contract seed" {
			t.Fatalf("untouched field changed: %+v", updated[0])
		}
	})

	t.Run("delete_returns_skus", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()

		if _, err := repo.Create(ctx, []model.Product{seedProduct("CT-DEL")}); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		deleted, err := repo.Delete(ctx, []string{"CT-DEL"})
		if err != nil || len(deleted) != 1 || deleted[0] != "CT-DEL" {
			t.Fatalf("delete: got %v, err %v", deleted, err)
		}
		if _, err := repo.GetBySKU(ctx, "CT-DEL"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("product still present after delete")
		}
	})
}

// RunTxManagerContract verifies a failing unit of work leaves no rows behind.
func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, products, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()

		sentinel := errors.New("forced failure")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := products.Create(ctx, []model.Product{seedProduct("CT-TX")}); err != nil {
				return err
			}
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel, got %v", err)
		}
		if _, err := products.GetBySKU(ctx, "CT-TX"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("row leaked out of rolled-back tx")
		}
	})

	t.Run("commit_on_success", func(t *testing.T) {
		tx, products, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()

		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := products.Create(ctx, []model.Product{seedProduct("CT-TX-OK")})
			return err
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}
		if _, err := products.GetBySKU(ctx, "CT-TX-OK"); err != nil {
			t.Fatalf("committed row not visible: %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("ping failed: %v", err)
		}
	})
}
