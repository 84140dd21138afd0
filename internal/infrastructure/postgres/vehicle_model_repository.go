package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
)

var _ repository.VehicleModelRepository = (*VehicleModelRepo)(nil)

const vehicleModelColumns = `id, make, model, year_from, year_to, engine, notes, active, created_at, updated_at`

// VehicleModelRepo implementación de VehicleModelRepository.
type VehicleModelRepo struct {
	q Querier
}

// NewVehicleModelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVehicleModelRepository(q Querier) *VehicleModelRepo {
	return &VehicleModelRepo{q: q}
}

func (r *VehicleModelRepo) Create(ctx context.Context, m *entity.VehicleModel) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO vehicle_models (id, make, model, year_from, year_to, engine, notes, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.Make, m.Model, m.YearFrom, m.YearTo, m.Engine, m.Notes, m.Active, m.CreatedAt, m.UpdatedAt,
	)
	return translate("create vehicle model", err)
}

func (r *VehicleModelRepo) GetByID(ctx context.Context, id string) (*entity.VehicleModel, error) {
	m, err := scanVehicleModel(r.q.QueryRow(ctx, `SELECT `+vehicleModelColumns+` FROM vehicle_models WHERE id = $1`, id))
	return nilIfNoRows(m, "get vehicle model", err)
}

// FindSame compara años nulos como iguales (IS NOT DISTINCT FROM).
func (r *VehicleModelRepo) FindSame(ctx context.Context, m *entity.VehicleModel) (*entity.VehicleModel, error) {
	found, err := scanVehicleModel(r.q.QueryRow(ctx, `
		SELECT `+vehicleModelColumns+` FROM vehicle_models
		WHERE lower(make) = lower($1) AND lower(model) = lower($2)
		  AND year_from IS NOT DISTINCT FROM $3 AND year_to IS NOT DISTINCT FROM $4
		  AND lower(engine) = lower($5)
		LIMIT 1`, m.Make, m.Model, m.YearFrom, m.YearTo, m.Engine))
	return nilIfNoRows(found, "find vehicle model", err)
}

func (r *VehicleModelRepo) List(ctx context.Context, f repository.VehicleModelFilter) ([]*entity.VehicleModel, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+vehicleModelColumns+` FROM vehicle_models
		WHERE ($1 = '' OR make ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR model ILIKE '%' || $2 || '%')
		  AND ($3::int IS NULL OR ((year_from IS NULL OR year_from <= $3) AND (year_to IS NULL OR year_to >= $3)))
		  AND ($4::bool IS NULL OR active = $4)
		ORDER BY make, model, year_from DESC NULLS LAST`, f.Make, f.Model, f.Year, f.Active)
	if err != nil {
		return nil, translate("list vehicle models", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.VehicleModel, error) {
		return scanVehicleModel(row)
	})
	if err != nil {
		return nil, translate("scan vehicle models", err)
	}
	return list, nil
}

// UpsertCompatibility usa xmax = 0 para distinguir inserción de actualización.
func (r *VehicleModelRepo) UpsertCompatibility(ctx context.Context, c *entity.Compatibility) (bool, error) {
	var created bool
	err := r.q.QueryRow(ctx, `
		INSERT INTO product_vehicle_models (product_id, vehicle_model_id, notes, is_original)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, vehicle_model_id)
		DO UPDATE SET notes = EXCLUDED.notes, is_original = EXCLUDED.is_original, updated_at = now()
		RETURNING (xmax = 0)`, c.ProductID, c.VehicleModelID, c.Notes, c.Original,
	).Scan(&created)
	if err != nil {
		return false, translate("upsert compatibility", err)
	}
	return created, nil
}

func (r *VehicleModelRepo) GetCompatibility(ctx context.Context, productID, modelID string) (*entity.Compatibility, error) {
	c := entity.Compatibility{ProductID: productID, VehicleModelID: modelID}
	err := r.q.QueryRow(ctx, `
		SELECT notes, is_original FROM product_vehicle_models
		WHERE product_id = $1 AND vehicle_model_id = $2`, productID, modelID,
	).Scan(&c.Notes, &c.Original)
	return nilIfNoRows(&c, "get compatibility", err)
}

func (r *VehicleModelRepo) DeleteCompatibility(ctx context.Context, productID, modelID string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM product_vehicle_models WHERE product_id = $1 AND vehicle_model_id = $2`, productID, modelID)
	if err != nil {
		return false, translate("delete compatibility", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *VehicleModelRepo) ListCompatibleProducts(ctx context.Context, modelID string) ([]entity.CompatibleProduct, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+`, pvm.notes, pvm.is_original
		FROM products p
		JOIN product_vehicle_models pvm ON pvm.product_id = p.id
		WHERE pvm.vehicle_model_id = $1
		ORDER BY p.code`, modelID)
	if err != nil {
		return nil, translate("list compatible products", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.CompatibleProduct, error) {
		var cp entity.CompatibleProduct
		p := &cp.Product
		err := row.Scan(
			&p.ID, &p.Code, &p.Description, &p.CategoryID, &p.BrandID, &p.PurchaseCost, &p.SalePrice,
			&p.AverageCost, &p.StockOnHand, &p.StockMinimum, &p.SupplierIDs, &p.CreatedAt, &p.UpdatedAt,
			&cp.Notes, &cp.Original,
		)
		return cp, err
	})
	if err != nil {
		return nil, translate("scan compatible products", err)
	}
	return list, nil
}

func scanVehicleModel(row pgx.Row) (*entity.VehicleModel, error) {
	var m entity.VehicleModel
	err := row.Scan(&m.ID, &m.Make, &m.Model, &m.YearFrom, &m.YearTo, &m.Engine, &m.Notes, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
