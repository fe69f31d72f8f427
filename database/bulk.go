package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/lib/pq"
)

// InitBulkDB opens a raw PostgreSQL connection for COPY-based bulk loads.
// Only used on the postgres driver; backup restores fall back to the gorm
// syncer everywhere else.
func InitBulkDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	var connStr string

	if dbURL != "" {
		connStr = dbURL
		log.Println("Using DATABASE_URL environment variable for bulk-load connection")
	} else {
		connStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"))
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Printf("Failed to open bulk-load connection: %v", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		log.Printf("Failed to ping bulk-load connection: %v", err)
		db.Close()
		return nil, err
	}
	log.Println("PostgreSQL bulk-load connection established")
	return db, nil
}

// BulkRestorer applies a whole snapshot with COPY, the fast path for
// backup restores on PostgreSQL. Same contract as RelationalSyncer.Sync:
// delete children before parents, insert parents before children, one
// transaction.
type BulkRestorer struct {
	DB *sql.DB
}

// Restore loads the snapshot into the relational mirror via pq.CopyIn.
func (b *BulkRestorer) Restore(snap *Snapshot) error {
	if b.DB == nil {
		return fmt.Errorf("bulk-load connection not configured")
	}
	tx, err := b.DB.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				log.Printf("Failed to rollback bulk restore: %v", rbErr)
			}
		}
	}()

	for _, table := range []string{
		"audit_logs", "installments", "sales", "repairs",
		"laptops", "customers", "registration_requests", "users",
	} {
		if _, err = tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	copyAll := func(table string, columns []string, rows [][]interface{}) error {
		if len(rows) == 0 {
			return nil
		}
		stmt, err := tx.Prepare(pq.CopyIn(table, columns...))
		if err != nil {
			return err
		}
		for _, row := range rows {
			if _, err := stmt.Exec(row...); err != nil {
				stmt.Close()
				return err
			}
		}
		if _, err := stmt.Exec(); err != nil {
			stmt.Close()
			return err
		}
		return stmt.Close()
	}

	userRows := make([][]interface{}, 0, len(snap.Users))
	for _, u := range snap.Users {
		userRows = append(userRows, []interface{}{
			u.ID, u.Username, u.Email, u.PasswordHash, string(u.Role), u.IsActive, u.CreatedAt,
		})
	}
	if err = copyAll("users",
		[]string{"id", "username", "email", "password_hash", "role", "is_active", "created_at"},
		userRows); err != nil {
		return err
	}

	regRows := make([][]interface{}, 0, len(snap.RegistrationRequests))
	for _, r := range snap.RegistrationRequests {
		regRows = append(regRows, []interface{}{
			r.ID, r.Username, r.Email, r.PasswordHash, r.Token, r.Status, r.ExpiresAt, r.CreatedAt,
		})
	}
	if err = copyAll("registration_requests",
		[]string{"id", "username", "email", "password_hash", "token", "status", "expires_at", "created_at"},
		regRows); err != nil {
		return err
	}

	customerRows := make([][]interface{}, 0, len(snap.Customers))
	for _, c := range snap.Customers {
		customerRows = append(customerRows, []interface{}{
			c.ID, c.Name, c.Email, c.Phone, c.Address, c.PreferredBrands, c.Notes, c.CreatedAt,
		})
	}
	if err = copyAll("customers",
		[]string{"id", "name", "email", "phone", "address", "preferred_brands", "notes", "created_at"},
		customerRows); err != nil {
		return err
	}

	laptopRows := make([][]interface{}, 0, len(snap.Laptops))
	for _, l := range snap.Laptops {
		laptopRows = append(laptopRows, []interface{}{
			l.ID, l.Brand, l.Model, l.Processor, l.RAM, l.Storage, l.GraphicsCard,
			l.ScreenSize, l.Price, l.Cost, l.Quantity, l.LowStockThreshold,
			l.Category, l.Supplier, l.WarrantyMonths, l.SerialNumber, l.CreatedAt,
		})
	}
	if err = copyAll("laptops",
		[]string{"id", "brand", "model", "processor", "ram", "storage", "graphics_card",
			"screen_size", "price", "cost", "quantity", "low_stock_threshold",
			"category", "supplier", "warranty_months", "serial_number", "created_at"},
		laptopRows); err != nil {
		return err
	}

	repairRows := make([][]interface{}, 0, len(snap.Repairs))
	for _, r := range snap.Repairs {
		repairRows = append(repairRows, []interface{}{
			r.ID, r.LaptopBrand, r.LaptopModel, r.CustomerID, r.SerialNumber,
			r.Issue, r.Status, r.Cost, r.CreatedAt,
		})
	}
	if err = copyAll("repairs",
		[]string{"id", "laptop_brand", "laptop_model", "customer_id", "serial_number",
			"issue", "status", "cost", "created_at"},
		repairRows); err != nil {
		return err
	}

	saleRows := make([][]interface{}, 0, len(snap.Sales))
	for _, sl := range snap.Sales {
		saleRows = append(saleRows, []interface{}{
			sl.ID, sl.LaptopID, sl.CustomerID, sl.UserID, sl.Quantity, sl.UnitPrice,
			sl.TotalAmount, sl.PaymentMethod, sl.Status, sl.SaleDate, sl.WarrantyExpiry, sl.CreatedAt,
		})
	}
	if err = copyAll("sales",
		[]string{"id", "laptop_id", "customer_id", "user_id", "quantity", "unit_price",
			"total_amount", "payment_method", "status", "sale_date", "warranty_expiry", "created_at"},
		saleRows); err != nil {
		return err
	}

	instRows := make([][]interface{}, 0, len(snap.Installments))
	for _, in := range snap.Installments {
		instRows = append(instRows, []interface{}{
			in.ID, in.SaleID, in.CustomerID, in.TotalAmount, in.MonthlyAmount,
			in.Months, in.PaidMonths, in.NextDueDate, in.Status, in.CreatedAt,
		})
	}
	if err = copyAll("installments",
		[]string{"id", "sale_id", "customer_id", "total_amount", "monthly_amount",
			"months", "paid_months", "next_due_date", "status", "created_at"},
		instRows); err != nil {
		return err
	}

	auditRows := make([][]interface{}, 0, len(snap.AuditLogs))
	for _, a := range snap.AuditLogs {
		auditRows = append(auditRows, []interface{}{
			a.ID, a.UserID, a.Username, a.Action, a.Details, a.CreatedAt,
		})
	}
	if err = copyAll("audit_logs",
		[]string{"id", "user_id", "username", "action", "details", "created_at"},
		auditRows); err != nil {
		return err
	}

	return tx.Commit()
}
