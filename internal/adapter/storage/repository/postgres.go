package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/storage"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/port"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Repository struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var orderColumns = []string{
	"id", "number", "customer_id", "subtotal", "discount", "shipping_fee", "tax_rate", "tax", "total",
	"promotion_id", "branch_id", "status", "payment_method", "payment_status", "shipping_address",
	"dest_lat", "dest_lng", "delivery_proof", "cancel_reason",
	"confirmed_at", "packed_at", "shipped_at", "delivered_at", "completed_at", "cancelled_at",
	"version", "created_at", "updated_at",
}

func (or *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	order.Version = 1

	err := pgx.BeginFunc(ctx, or.db, func(tx pgx.Tx) error {
		lat, lng := coordinates(order.Destination)
		statement := or.db.QueryBuilder.Insert("orders").
			Columns(orderColumns...).
			Values(
				order.ID, order.Number, order.CustomerID, order.Subtotal, order.Discount, order.ShippingFee,
				order.TaxRate, order.Tax, order.Total, order.PromotionID, order.BranchID, order.Status,
				order.PaymentMethod, order.PaymentStatus, order.ShippingAddress, lat, lng,
				order.DeliveryProof, order.CancelReason,
				order.ConfirmedAt, order.PackedAt, order.ShippedAt, order.DeliveredAt, order.CompletedAt,
				order.CancelledAt, order.Version, order.CreatedAt, order.UpdatedAt,
			)
		if err := exec(ctx, tx, statement); err != nil {
			return err
		}

		lines := or.db.QueryBuilder.Insert("order_lines").
			Columns("order_id", "position", "product_id", "quantity", "unit_price", "discount", "subtotal",
				"name", "sku", "image_url")
		for i, l := range order.Lines {
			lines = lines.Values(order.ID, i, l.ProductID, l.Quantity, l.UnitPrice, l.Discount, l.Subtotal,
				l.Snapshot.Name, l.Snapshot.SKU, l.Snapshot.ImageURL)
		}
		if err := exec(ctx, tx, lines); err != nil {
			return err
		}

		return or.insertHistory(ctx, tx, order.History)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return order, nil
}

func (or *Repository) ReadOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return or.readOrder(ctx, or.db, orderID, false)
}

func (or *Repository) ListOrdersByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	statement := or.db.QueryBuilder.
		Select("id").
		From("orders").
		Where(sq.Eq{"customer_id": customerID}).
		OrderBy("created_at DESC")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := or.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	list := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		order, err := or.readOrder(ctx, or.db, id, false)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
	}

	return list, nil
}

// UpdateOrder locks the order row for the duration of updateFn.
func (or *Repository) UpdateOrder(ctx context.Context, orderID string,
	updateFn port.UpdateOrderFn) (*domain.Order, error) {
	var result *domain.Order

	err := pgx.BeginFunc(ctx, or.db, func(tx pgx.Tx) error {
		order, err := or.readOrder(ctx, tx, orderID, true)
		if err != nil {
			return err
		}
		stored := len(order.History)

		if err := updateFn(order); err != nil {
			return err
		}

		lat, lng := coordinates(order.Destination)
		statement := or.db.QueryBuilder.Update("orders").
			SetMap(map[string]any{
				"subtotal":       order.Subtotal,
				"discount":       order.Discount,
				"tax":            order.Tax,
				"total":          order.Total,
				"branch_id":      order.BranchID,
				"status":         order.Status,
				"payment_status": order.PaymentStatus,
				"dest_lat":       lat,
				"dest_lng":       lng,
				"delivery_proof": order.DeliveryProof,
				"cancel_reason":  order.CancelReason,
				"confirmed_at":   order.ConfirmedAt,
				"packed_at":      order.PackedAt,
				"shipped_at":     order.ShippedAt,
				"delivered_at":   order.DeliveredAt,
				"completed_at":   order.CompletedAt,
				"cancelled_at":   order.CancelledAt,
				"updated_at":     order.UpdatedAt,
				"version":        sq.Expr("version + 1"),
			}).
			Where(sq.Eq{"id": orderID})
		if err := exec(ctx, tx, statement); err != nil {
			return err
		}
		order.Version++

		for _, l := range order.Lines {
			line := or.db.QueryBuilder.Update("order_lines").
				Set("quantity", l.Quantity).
				Set("discount", l.Discount).
				Set("subtotal", l.Subtotal).
				Where(sq.Eq{"order_id": orderID, "product_id": l.ProductID})
			if err := exec(ctx, tx, line); err != nil {
				return err
			}
		}

		if err := or.insertHistory(ctx, tx, order.History[stored:]); err != nil {
			return err
		}

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (or *Repository) readOrder(ctx context.Context, q querier, orderID string, forUpdate bool) (*domain.Order, error) {
	statement := or.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID})
	if forUpdate {
		statement = statement.Suffix("FOR UPDATE")
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order := domain.Order{}
	var lat, lng *float64
	err = q.QueryRow(ctx, sql, args...).Scan(
		&order.ID, &order.Number, &order.CustomerID, &order.Subtotal, &order.Discount, &order.ShippingFee,
		&order.TaxRate, &order.Tax, &order.Total, &order.PromotionID, &order.BranchID, &order.Status,
		&order.PaymentMethod, &order.PaymentStatus, &order.ShippingAddress, &lat, &lng,
		&order.DeliveryProof, &order.CancelReason,
		&order.ConfirmedAt, &order.PackedAt, &order.ShippedAt, &order.DeliveredAt, &order.CompletedAt,
		&order.CancelledAt, &order.Version, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	if lat != nil && lng != nil {
		order.Destination = &domain.Coordinates{Lat: *lat, Lng: *lng}
	}

	if order.Lines, err = or.readLines(ctx, q, orderID); err != nil {
		return nil, err
	}
	if order.History, err = or.readHistory(ctx, q, orderID); err != nil {
		return nil, err
	}

	return &order, nil
}

func (or *Repository) readLines(ctx context.Context, q querier, orderID string) ([]domain.OrderLine, error) {
	statement := or.db.QueryBuilder.
		Select("product_id", "quantity", "unit_price", "discount", "subtotal", "name", "sku", "image_url").
		From("order_lines").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("position")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.OrderLine, error) {
		l := domain.OrderLine{}
		err := row.Scan(&l.ProductID, &l.Quantity, &l.UnitPrice, &l.Discount, &l.Subtotal,
			&l.Snapshot.Name, &l.Snapshot.SKU, &l.Snapshot.ImageURL)
		return l, err
	})
}

func (or *Repository) readHistory(ctx context.Context, q querier, orderID string) ([]domain.StatusHistoryEntry, error) {
	statement := or.db.QueryBuilder.
		Select("id", "order_id", "from_status", "to_status", "actor_id", "actor_role", "note", "created_at").
		From("order_status_history").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("created_at", "id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StatusHistoryEntry, error) {
		h := domain.StatusHistoryEntry{}
		var createdAt time.Time
		err := row.Scan(&h.ID, &h.OrderID, &h.From, &h.To, &h.ActorID, &h.ActorRole, &h.Note, &createdAt)
		h.CreatedAt = createdAt.UTC()
		return h, err
	})
}

func (or *Repository) insertHistory(ctx context.Context, q querier, entries []domain.StatusHistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	statement := or.db.QueryBuilder.Insert("order_status_history").
		Columns("id", "order_id", "from_status", "to_status", "actor_id", "actor_role", "note", "created_at")
	for _, h := range entries {
		statement = statement.Values(h.ID, h.OrderID, h.From, h.To, h.ActorID, h.ActorRole, h.Note, h.CreatedAt)
	}
	return exec(ctx, q, statement)
}

func exec(ctx context.Context, q querier, statement sq.Sqlizer) error {
	sql, args, err := statement.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	_, err = q.Exec(ctx, sql, args...)
	return err
}

func coordinates(c *domain.Coordinates) (*float64, *float64) {
	if c == nil {
		return nil, nil
	}
	return &c.Lat, &c.Lng
}
