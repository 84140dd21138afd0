package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autopartes-api/internal/application/auth"
	"github.com/jhoicas/autopartes-api/internal/application/currency"
	"github.com/jhoicas/autopartes-api/internal/application/inventory"
	"github.com/jhoicas/autopartes-api/internal/application/purchasing"
	"github.com/jhoicas/autopartes-api/internal/application/sales"
	"github.com/jhoicas/autopartes-api/internal/application/usecase"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CurrencyUC    *currency.UseCase
	ProductUC     *usecase.ProductUseCase
	CustomerUC    *usecase.CustomerUseCase
	SupplierUC    *usecase.SupplierUseCase
	CatalogUC     *usecase.CatalogUseCase
	VehicleUC     *usecase.VehicleModelUseCase
	Ledger        *inventory.StockLedger
	Replenishment *inventory.ReplenishmentUseCase
	PurchaseUC    *purchasing.UseCase
	SaleUC        *sales.UseCase
	JWTSecret     string
	Log           *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	log := logger.OrNop(deps.Log)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/login", authHandler.Login)

	currencyHandler := NewCurrencyHandler(deps.CurrencyUC, log)
	productHandler := NewProductHandler(deps.ProductUC, log)
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.ProductUC, deps.Replenishment, log)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC, log)
	saleHandler := NewSaleHandler(deps.SaleUC, log)
	partyHandler := NewPartyHandler(deps.CustomerUC, deps.SupplierUC, log)
	catalogHandler := NewCatalogHandler(deps.CatalogUC, deps.VehicleUC, log)

	authn := AuthMiddleware(deps.JWTSecret)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleSeller, entity.RoleViewer)
	operators := RequireRole(entity.RoleAdmin, entity.RoleSeller)
	admin := RequireRole(entity.RoleAdmin)

	api.Get("/auth/perfil", authn, anyRole, authHandler.Profile)

	// Divisas: las consultas son públicas; convertir requiere sesión y los cambios, administrador.
	divisas := api.Group("/divisas")
	divisas.Get("/", currencyHandler.List)
	divisas.Get("/principal", currencyHandler.GetBase)
	divisas.Post("/convertir", authn, anyRole, currencyHandler.Convert)
	divisas.Get("/:id", currencyHandler.GetByID)
	divisas.Put("/:id/tasa", authn, admin, currencyHandler.UpdateRate)
	divisas.Put("/:id/estado", authn, admin, currencyHandler.SetActive)
	divisas.Put("/:id/principal", authn, admin, currencyHandler.DesignateBase)

	productos := api.Group("/productos", authn)
	productos.Get("/", anyRole, productHandler.List)
	productos.Get("/:id", anyRole, productHandler.GetByID)
	productos.Post("/", operators, productHandler.Create)
	productos.Put("/:id", operators, productHandler.Update)

	categorias := api.Group("/categorias", authn)
	categorias.Get("/", anyRole, catalogHandler.ListCategories)
	categorias.Post("/", operators, catalogHandler.CreateCategory)

	marcas := api.Group("/marcas", authn)
	marcas.Get("/", anyRole, catalogHandler.ListBrands)
	marcas.Post("/", operators, catalogHandler.CreateBrand)

	// Modelos de vehículo: consultas públicas; /asociar se registra antes que /:id.
	modelos := api.Group("/modelos-vehiculos")
	modelos.Get("/", catalogHandler.ListVehicleModels)
	modelos.Post("/", authn, admin, catalogHandler.CreateVehicleModel)
	modelos.Post("/asociar", authn, operators, catalogHandler.Associate)
	modelos.Delete("/asociar/:productoId/:modeloId", authn, admin, catalogHandler.Dissociate)
	modelos.Get("/:id", catalogHandler.GetVehicleModel)
	modelos.Get("/:id/productos", catalogHandler.CompatibleProducts)

	inventario := api.Group("/inventario", authn)
	inventario.Post("/movimientos", operators, inventoryHandler.RegisterMovement)
	inventario.Get("/movimientos/:productId", anyRole, inventoryHandler.Movements)
	inventario.Get("/conciliacion/:productId", operators, inventoryHandler.Reconcile)
	inventario.Get("/alertas/stock-bajo", operators, inventoryHandler.LowStock)
	inventario.Get("/reposicion", operators, inventoryHandler.GetReplenishmentList)

	clientes := api.Group("/clientes", authn)
	clientes.Get("/", anyRole, partyHandler.ListCustomers)
	clientes.Get("/:id", anyRole, partyHandler.GetCustomer)
	clientes.Post("/", operators, partyHandler.CreateCustomer)

	proveedores := api.Group("/proveedores", authn)
	proveedores.Get("/", anyRole, partyHandler.ListSuppliers)
	proveedores.Get("/:id", anyRole, partyHandler.GetSupplier)
	proveedores.Post("/", operators, partyHandler.CreateSupplier)

	compras := api.Group("/compras", authn)
	compras.Get("/", anyRole, purchaseHandler.List)
	compras.Get("/:id", anyRole, purchaseHandler.Get)
	compras.Post("/", operators, purchaseHandler.Create)
	compras.Put("/:id/completar", operators, purchaseHandler.Complete)
	compras.Put("/:id/estado", operators, purchaseHandler.SetState)
	compras.Delete("/:id", operators, purchaseHandler.Delete)

	ventas := api.Group("/ventas", authn)
	ventas.Get("/", anyRole, saleHandler.List)
	ventas.Get("/:id", anyRole, saleHandler.Get)
	ventas.Post("/", operators, saleHandler.Create)
	ventas.Put("/:id/completar", operators, saleHandler.Complete)
	ventas.Put("/:id/anular", operators, saleHandler.Void)
	ventas.Post("/:id/devolucion", operators, saleHandler.Return)
	ventas.Put("/:id/estado", operators, saleHandler.SetState)
}
