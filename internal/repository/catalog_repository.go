package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/coworking-reservation/internal/model"
)

// CatalogRepo stores customers and rooms.  Rows are validated by
// model.NewCustomer / model.NewRoom before they reach this layer.
type CatalogRepo struct{ DB *sql.DB }

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{DB: db} }

// CreateCustomer inserts c and returns it with its generated ID.
func (r *CatalogRepo) CreateCustomer(ctx context.Context, c model.Customer) (model.Customer, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO customers (first_name, last_name) VALUES (?, ?)",
		c.FirstName, c.LastName)
	if err != nil {
		return model.Customer{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Customer{}, err
	}
	c.ID = uint64(id)
	return c, nil
}

// GetCustomer fetches a customer by id.
func (r *CatalogRepo) GetCustomer(ctx context.Context, id uint64) (model.Customer, error) {
	var c model.Customer
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, first_name, last_name FROM customers WHERE id = ?", id,
	).Scan(&c.ID, &c.FirstName, &c.LastName)
	return c, notFound(err, ErrCustomerNotFound)
}

// ListCustomers returns every customer ordered by last name, then first
// name.
func (r *CatalogRepo) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, first_name, last_name FROM customers ORDER BY last_name, first_name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateRoom inserts room and returns it with its generated ID.
func (r *CatalogRepo) CreateRoom(ctx context.Context, room model.Room) (model.Room, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO rooms (name, capacity) VALUES (?, ?)", room.Name, room.Capacity)
	if err != nil {
		return model.Room{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Room{}, err
	}
	room.ID = uint64(id)
	return room, nil
}

// GetRoom fetches a room by id.
func (r *CatalogRepo) GetRoom(ctx context.Context, id uint64) (model.Room, error) {
	var room model.Room
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, capacity FROM rooms WHERE id = ?", id,
	).Scan(&room.ID, &room.Name, &room.Capacity)
	return room, notFound(err, ErrRoomNotFound)
}

// ListRooms returns every room ordered by id.
func (r *CatalogRepo) ListRooms(ctx context.Context) ([]model.Room, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, capacity FROM rooms ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRooms(rows)
}

// Counts reports how many customers and rooms are registered.  A
// reservation needs at least one of each.
func (r *CatalogRepo) Counts(ctx context.Context) (customers, rooms int, err error) {
	err = r.DB.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM customers), (SELECT COUNT(*) FROM rooms)",
	).Scan(&customers, &rooms)
	return customers, rooms, err
}

// CustomerExistsTx reports whether the customer exists, as seen by tx.
func (r *CatalogRepo) CustomerExistsTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	return exists(ctx, tx, "SELECT 1 FROM customers WHERE id = ?", id)
}

// RoomExistsTx reports whether the room exists, as seen by tx.
func (r *CatalogRepo) RoomExistsTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	return exists(ctx, tx, "SELECT 1 FROM rooms WHERE id = ?", id)
}

func exists(ctx context.Context, q querier, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

func scanRooms(rows *sql.Rows) ([]model.Room, error) {
	out := make([]model.Room, 0)
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Capacity); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}
