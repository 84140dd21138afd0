package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/application/usecase"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
	"github.com/jhoicas/autopartes-api/internal/testutil/memstore"
)

const repuestoID = "eeeeeeee-eeee-eeee-eeee-eeeeeeeeeeee"

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestCatalog_NombresUnicosYOrdenados(t *testing.T) {
	db := memstore.New()
	uc := usecase.NewCatalogUseCase(db.Categories(), db.Brands())
	ctx := context.Background()

	_, err := uc.CreateCategory(ctx, dto.CreateNamedRequest{Name: " Suspensión "})
	require.NoError(t, err)
	_, err = uc.CreateCategory(ctx, dto.CreateNamedRequest{Name: "Filtros"})
	require.NoError(t, err)
	_, err = uc.CreateCategory(ctx, dto.CreateNamedRequest{Name: "SUSPENSIÓN"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.CreateCategory(ctx, dto.CreateNamedRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Filtros", list[0].Name)
	assert.Equal(t, "Suspensión", list[1].Name)

	_, err = uc.CreateBrand(ctx, dto.CreateNamedRequest{Name: "Monroe"})
	require.NoError(t, err)
	_, err = uc.CreateBrand(ctx, dto.CreateNamedRequest{Name: "monroe"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	brands, err := uc.ListBrands(ctx)
	require.NoError(t, err)
	assert.Len(t, brands, 1)
}

func TestProductCreate_CategoriaInexistente(t *testing.T) {
	uc, db := newProductUseCase()
	ctx := context.Background()
	missing := "00000000-0000-0000-0000-00000000abcd"

	_, err := uc.Create(ctx, actorID, dto.CreateProductRequest{Code: "BUJ-01", Description: "Bujía", CategoryID: &missing, InitialStock: 2})
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
	assert.Zero(t, db.MovementCount(), "el stock inicial se revierte con el producto")

	cat, err := usecase.NewCatalogUseCase(db.Categories(), db.Brands()).CreateCategory(ctx, dto.CreateNamedRequest{Name: "Encendido"})
	require.NoError(t, err)
	out, err := uc.Create(ctx, actorID, dto.CreateProductRequest{Code: "BUJ-01", Description: "Bujía", CategoryID: &cat.ID})
	require.NoError(t, err)
	assert.Equal(t, cat.ID, *out.CategoryID)
}

func newVehicleModelUseCase() (*usecase.VehicleModelUseCase, *memstore.DB) {
	db := memstore.New()
	db.SeedProduct(repuestoID, "AMO-T01", 6)
	return usecase.NewVehicleModelUseCase(db.VehicleModels(), db.Store().Products), db
}

func TestVehicleModelCreate_DuplicadoYRangoInvalido(t *testing.T) {
	uc, _ := newVehicleModelUseCase()
	ctx := context.Background()
	in := dto.CreateVehicleModelRequest{Make: "Chevrolet", Model: "Aveo", YearFrom: intPtr(2004), Engine: "1.6L"}

	out, err := uc.Create(ctx, in)
	require.NoError(t, err)
	assert.True(t, out.Active)
	assert.Nil(t, out.YearTo)

	in.Make = "CHEVROLET"
	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Mismo vehículo con otro motor es un modelo distinto.
	in.Engine = "1.4L"
	_, err = uc.Create(ctx, in)
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateVehicleModelRequest{Make: "Ford", Model: "Fiesta", YearFrom: intPtr(2012), YearTo: intPtr(2008)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetByID(ctx, "00000000-0000-0000-0000-00000000abcd")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVehicleModelList_FiltraPorAnioYEstado(t *testing.T) {
	uc, _ := newVehicleModelUseCase()
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateVehicleModelRequest{Make: "Toyota", Model: "Corolla", YearFrom: intPtr(2003), YearTo: intPtr(2008)})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateVehicleModelRequest{Make: "Toyota", Model: "Corolla", YearFrom: intPtr(2009)})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateVehicleModelRequest{Make: "Ford", Model: "Ka"})
	require.NoError(t, err)

	all, err := uc.List(ctx, repository.VehicleModelFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ford", all[0].Make)
	assert.Equal(t, 2009, *all[1].YearFrom, "año de inicio descendente dentro del mismo modelo")

	byYear, err := uc.List(ctx, repository.VehicleModelFilter{Make: "toy", Year: intPtr(2015)})
	require.NoError(t, err)
	require.Len(t, byYear, 1)
	assert.Equal(t, 2009, *byYear[0].YearFrom)

	inactive, err := uc.List(ctx, repository.VehicleModelFilter{Active: boolPtr(false)})
	require.NoError(t, err)
	assert.Empty(t, inactive)
}

func TestVehicleModelAssociate_CreaActualizaYElimina(t *testing.T) {
	uc, _ := newVehicleModelUseCase()
	ctx := context.Background()
	model, err := uc.Create(ctx, dto.CreateVehicleModelRequest{Make: "Hyundai", Model: "Accent", YearFrom: intPtr(2006), YearTo: intPtr(2011)})
	require.NoError(t, err)

	out, err := uc.Associate(ctx, dto.AssociateRequest{ProductID: repuestoID, VehicleModelID: model.ID, Notes: "Trasero"})
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.False(t, out.Original)

	out, err = uc.Associate(ctx, dto.AssociateRequest{ProductID: repuestoID, VehicleModelID: model.ID, Original: boolPtr(true)})
	require.NoError(t, err)
	assert.False(t, out.Created)
	assert.True(t, out.Original)
	assert.Equal(t, "Trasero", out.Notes, "notas vacías conservan las anteriores")

	products, err := uc.CompatibleProducts(ctx, model.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "AMO-T01", products[0].Code)
	assert.True(t, products[0].Original)

	_, err = uc.Associate(ctx, dto.AssociateRequest{ProductID: "00000000-0000-0000-0000-00000000abcd", VehicleModelID: model.ID})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = uc.Associate(ctx, dto.AssociateRequest{ProductID: repuestoID, VehicleModelID: "00000000-0000-0000-0000-00000000abcd"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.Dissociate(ctx, repuestoID, model.ID))
	assert.ErrorIs(t, uc.Dissociate(ctx, repuestoID, model.ID), domain.ErrNotFound)
	products, err = uc.CompatibleProducts(ctx, model.ID)
	require.NoError(t, err)
	assert.Empty(t, products)

	_, err = uc.CompatibleProducts(ctx, "00000000-0000-0000-0000-00000000abcd")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
