package currency

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/application/ports"
	"github.com/jhoicas/autopartes-api/internal/domain"
	domcurrency "github.com/jhoicas/autopartes-api/internal/domain/currency"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
	"github.com/jhoicas/autopartes-api/pkg/logger"
	"github.com/jhoicas/autopartes-api/pkg/money"
)

// UseCase consultas de divisas, conversión de montos y cambios de tasa/estado/divisa principal.
// Las lecturas pasan por la caché si está configurada; las escrituras van en transacción
// y luego invalidan la caché.
type UseCase struct {
	txRunner ports.TxRunner
	reader   repository.CurrencyReader
	cache    ports.CurrencyCache
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. cache puede ser nil.
func NewUseCase(txRunner ports.TxRunner, repo repository.CurrencyReader, cache ports.CurrencyCache, log *logger.Logger) *UseCase {
	uc := &UseCase{txRunner: txRunner, reader: repo, log: logger.OrNop(log), now: time.Now}
	if cache != nil {
		uc.cache = cache
		uc.reader = cache
	}
	return uc
}

// List devuelve las divisas (solo activas si activeOnly).
func (uc *UseCase) List(ctx context.Context, activeOnly bool) ([]dto.CurrencyResponse, error) {
	list, err := uc.reader.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CurrencyResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToCurrencyResponse(c))
	}
	return out, nil
}

// Get resuelve una divisa por ID (UUID) o por código.
func (uc *UseCase) Get(ctx context.Context, idOrCode string) (*entity.Currency, error) {
	return Resolve(ctx, uc.reader, idOrCode)
}

// GetBase devuelve la divisa principal.
func (uc *UseCase) GetBase(ctx context.Context) (*entity.Currency, error) {
	base, err := uc.reader.GetBase(ctx)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, domain.ErrCurrencyNotFound
	}
	return base, nil
}

// Convert convierte un monto entre dos divisas con las tasas vigentes.
func (uc *UseCase) Convert(ctx context.Context, in dto.ConvertRequest) (*dto.ConvertResponse, error) {
	if in.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	from, err := uc.Get(ctx, in.From)
	if err != nil {
		return nil, err
	}
	to, err := uc.Get(ctx, in.To)
	if err != nil {
		return nil, err
	}
	conv, err := domcurrency.Convert(in.Amount, from, to)
	if err != nil {
		return nil, err
	}
	rounded := conv.Rounded()
	return &dto.ConvertResponse{
		Amount:          in.Amount,
		From:            from.Code,
		To:              to.Code,
		ConvertedAmount: rounded,
		AppliedRate:     conv.AppliedRate,
		Formatted:       money.Format(rounded, to.Code, to.Symbol),
	}, nil
}

// UpdateRate cambia la tasa de una divisa no principal.
func (uc *UseCase) UpdateRate(ctx context.Context, id string, rate decimal.Decimal) (*dto.CurrencyResponse, error) {
	return uc.mutate(ctx, id, "tasa actualizada", func(c *entity.Currency, now time.Time) error {
		return c.UpdateRate(rate, now)
	})
}

// SetActive activa o desactiva una divisa (la principal no se puede desactivar).
func (uc *UseCase) SetActive(ctx context.Context, id string, active bool) (*dto.CurrencyResponse, error) {
	return uc.mutate(ctx, id, "estado actualizado", func(c *entity.Currency, now time.Time) error {
		return c.SetActive(active, now)
	})
}

func (uc *UseCase) mutate(ctx context.Context, id, msg string, apply func(*entity.Currency, time.Time) error) (*dto.CurrencyResponse, error) {
	var updated *entity.Currency
	err := uc.txRunner.Run(ctx, func(store ports.Store) error {
		c, err := store.Currencies.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := apply(c, uc.now()); err != nil {
			return err
		}
		if err := store.Currencies.Update(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	uc.log.Info().
		Str("currency_id", updated.ID).
		Str("code", updated.Code).
		Str("rate", updated.ExchangeRate().String()).
		Bool("active", updated.Active).
		Msg(msg)
	out := ToCurrencyResponse(updated)
	return &out, nil
}

// DesignateBase convierte la divisa id en la principal y reexpresa todas las tasas respecto a ella.
func (uc *UseCase) DesignateBase(ctx context.Context, id string) ([]dto.CurrencyResponse, error) {
	var all []*entity.Currency
	err := uc.txRunner.Run(ctx, func(store ports.Store) error {
		var err error
		all, err = store.Currencies.ListForUpdate(ctx)
		if err != nil {
			return err
		}
		if err := domcurrency.Rebase(all, id, uc.now()); err != nil {
			return err
		}
		// La base anterior se persiste antes que la nueva para no violar el índice único de is_base.
		for _, c := range all {
			if c.ID != id {
				if err := store.Currencies.Update(ctx, c); err != nil {
					return err
				}
			}
		}
		for _, c := range all {
			if c.ID == id {
				return store.Currencies.Update(ctx, c)
			}
		}
		return domain.ErrCurrencyNotFound
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	uc.log.Info().Str("currency_id", id).Msg("divisa principal designada")

	out := make([]dto.CurrencyResponse, 0, len(all))
	for _, c := range all {
		out = append(out, ToCurrencyResponse(c))
	}
	return out, nil
}

// Format formatea un monto en la divisa indicada (id o código).
func (uc *UseCase) Format(ctx context.Context, amount decimal.Decimal, idOrCode string) (string, error) {
	c, err := uc.Get(ctx, idOrCode)
	if err != nil {
		return "", err
	}
	return money.Format(amount, c.Code, c.Symbol), nil
}

func (uc *UseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de divisas")
	}
}

// Resolve busca una divisa por ID (si es UUID) o por código. Devuelve ErrCurrencyNotFound si no existe.
func Resolve(ctx context.Context, r repository.CurrencyReader, idOrCode string) (*entity.Currency, error) {
	if idOrCode == "" {
		return nil, domain.ErrCurrencyNotFound
	}
	var (
		c   *entity.Currency
		err error
	)
	if _, perr := uuid.Parse(idOrCode); perr == nil {
		c, err = r.GetByID(ctx, idOrCode)
	} else {
		c, err = r.GetByCode(ctx, entity.NormalizeCurrencyCode(idOrCode))
	}
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCurrencyNotFound
	}
	return c, nil
}

// ForOrder resuelve la divisa de una orden nueva y la principal. Con code vacío devuelve (nil, nil, nil):
// la orden queda en la divisa principal sin snapshot. Una divisa inactiva no se acepta.
func ForOrder(ctx context.Context, r repository.CurrencyReader, code string) (orderCur, base *entity.Currency, err error) {
	if code == "" {
		return nil, nil, nil
	}
	orderCur, err = Resolve(ctx, r, code)
	if err != nil {
		return nil, nil, err
	}
	if !orderCur.Active {
		return nil, nil, domain.ErrInvalidCurrencyOperation
	}
	base, err = r.GetBase(ctx)
	if err != nil {
		return nil, nil, err
	}
	if base == nil {
		return nil, nil, domain.ErrCurrencyNotFound
	}
	return orderCur, base, nil
}

// ToCurrencyResponse mapea la entidad al DTO.
func ToCurrencyResponse(c *entity.Currency) dto.CurrencyResponse {
	return dto.CurrencyResponse{
		ID:           c.ID,
		Code:         c.Code,
		Name:         c.Name,
		Symbol:       c.Symbol,
		ExchangeRate: c.ExchangeRate(),
		IsBase:       c.IsBase(),
		Active:       c.Active,
		UpdatedAt:    c.UpdatedAt,
	}
}
