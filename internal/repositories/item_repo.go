package repositories

import (
	"context"
	"fmt"
	"strings"

	"basetrack/internal/models"

	"github.com/jackc/pgx/v5"
)

// listPageSize is the step used when draining the full collection. Paging
// past the first page matters: inventories routinely exceed a single
// 1000-row response and silent truncation would corrupt the stats.
const listPageSize = 1000

// ItemMovement is the partial update applied to an item when a request
// reaches APPROVED. Nil fields are left unchanged. SetPersonInCharge
// distinguishes "clear the custodian" (true with nil PersonInCharge) from
// "leave as is" (false).
type ItemMovement struct {
	CurrentLocation   *string
	SetPersonInCharge bool
	PersonInCharge    *string
	LastMovement      *string
	EquipmentStatus   *string
}

type ItemRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	CreateBatch(ctx context.Context, items []*models.InventoryItem) error
	GetByID(ctx context.Context, id string) (*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	ApplyMovement(ctx context.Context, id string, movement *ItemMovement) error
	ListAll(ctx context.Context) ([]*models.InventoryItem, error)
	ListByBase(ctx context.Context, base string) ([]*models.InventoryItem, error)
	DeleteByBase(ctx context.Context, base string) error
	DeleteAll(ctx context.Context) error
}

type itemRepo struct {
	db Database
}

func NewItemRepository(db Database) ItemRepository {
	return &itemRepo{db: db}
}

const itemColumns = `id, no, description, maker, range, type_model, serial_no, unit_price,
		purchase_date, po_no, quantity, asset_no, location, equipment_status,
		document_status, date_of_qf, hsem_category, physical_status, remarks,
		current_location, person_in_charge, last_movement, base`

func (r *itemRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`
	_, err := r.db.Exec(ctx, query, itemArgs(item)...)
	return err
}

// CreateBatch inserts imported rows in one round trip per batch.
func (r *itemRepo) CreateBatch(ctx context.Context, items []*models.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, itemArgs(item)...)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("inserting imported item: %w", err)
		}
	}
	return nil
}

func (r *itemRepo) GetByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	item := &models.InventoryItem{}
	if err := scanItem(r.db.QueryRow(ctx, query, id), item); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepo) Update(ctx context.Context, item *models.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET no = $2, description = $3, maker = $4, range = $5, type_model = $6,
			serial_no = $7, unit_price = $8, purchase_date = $9, po_no = $10,
			quantity = $11, asset_no = $12, location = $13, equipment_status = $14,
			document_status = $15, date_of_qf = $16, hsem_category = $17,
			physical_status = $18, remarks = $19, current_location = $20,
			person_in_charge = $21, last_movement = $22, base = $23
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, itemArgs(item)...)
	return err
}

// ApplyMovement updates only the tracking fields a request approval touches.
func (r *itemRepo) ApplyMovement(ctx context.Context, id string, movement *ItemMovement) error {
	var sets []string
	args := []interface{}{id}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if movement.CurrentLocation != nil {
		add("current_location", *movement.CurrentLocation)
	}
	if movement.SetPersonInCharge {
		add("person_in_charge", movement.PersonInCharge)
	}
	if movement.LastMovement != nil {
		add("last_movement", *movement.LastMovement)
	}
	if movement.EquipmentStatus != nil {
		add("equipment_status", *movement.EquipmentStatus)
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE inventory_items SET %s WHERE id = $1`, strings.Join(sets, ", "))
	_, err := r.db.Exec(ctx, query, args...)
	return err
}

// ListAll drains the whole collection in listPageSize steps so callers
// never see a truncated snapshot.
func (r *itemRepo) ListAll(ctx context.Context) ([]*models.InventoryItem, error) {
	var all []*models.InventoryItem
	offset := 0

	for {
		page, err := r.listPage(ctx, "", listPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < listPageSize {
			return all, nil
		}
		offset += listPageSize
	}
}

func (r *itemRepo) ListByBase(ctx context.Context, base string) ([]*models.InventoryItem, error) {
	var all []*models.InventoryItem
	offset := 0

	for {
		page, err := r.listPage(ctx, base, listPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < listPageSize {
			return all, nil
		}
		offset += listPageSize
	}
}

func (r *itemRepo) listPage(ctx context.Context, base string, limit, offset int) ([]*models.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items`
	args := []interface{}{}
	if base != "" {
		query += ` WHERE base = $1`
		args = append(args, base)
	}
	query += fmt.Sprintf(` ORDER BY id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		item := &models.InventoryItem{}
		if err := scanItem(rows, item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *itemRepo) DeleteByBase(ctx context.Context, base string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM inventory_items WHERE base = $1`, base)
	return err
}

func (r *itemRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM inventory_items`)
	return err
}

func itemArgs(item *models.InventoryItem) []interface{} {
	return []interface{}{
		item.ID, item.No, item.Description, item.Maker, item.Range, item.TypeModel,
		item.SerialNo, item.UnitPrice, item.PurchaseDate, item.PONo, item.Quantity,
		item.AssetNo, item.Location, item.EquipmentStatus, item.DocumentStatus,
		item.DateOfQF, item.HSEMCategory, item.PhysicalStatus, item.Remarks,
		item.CurrentLocation, item.PersonInCharge, item.LastMovement, item.Base,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner, item *models.InventoryItem) error {
	return row.Scan(
		&item.ID, &item.No, &item.Description, &item.Maker, &item.Range, &item.TypeModel,
		&item.SerialNo, &item.UnitPrice, &item.PurchaseDate, &item.PONo, &item.Quantity,
		&item.AssetNo, &item.Location, &item.EquipmentStatus, &item.DocumentStatus,
		&item.DateOfQF, &item.HSEMCategory, &item.PhysicalStatus, &item.Remarks,
		&item.CurrentLocation, &item.PersonInCharge, &item.LastMovement, &item.Base,
	)
}
