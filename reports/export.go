package reports

import (
	"time"

	"github.com/xuri/excelize/v2"

	"laptoppos/database"
)

// ExportWorkbook renders the inventory, sales and customer views as one
// XLSX workbook for download.
func ExportWorkbook(snap *database.Snapshot, now time.Time) ([]byte, error) {
	f := excelize.NewFile()

	if err := writeSheet(f, "Inventory",
		[]string{"ID", "Brand", "Model", "Processor", "RAM", "Storage", "Price", "Cost", "Quantity", "Low Stock At", "Category", "Supplier", "Warranty (months)", "Serial"},
		func() [][]interface{} {
			rows := make([][]interface{}, 0, len(snap.Laptops))
			for _, l := range snap.Laptops {
				rows = append(rows, []interface{}{
					l.ID, l.Brand, l.Model, l.Processor, l.RAM, l.Storage,
					l.Price, l.Cost, l.Quantity, l.LowStockThreshold,
					l.Category, l.Supplier, l.WarrantyMonths, l.SerialNumber,
				})
			}
			return rows
		}()); err != nil {
		return nil, err
	}

	profits := SaleProfits(snap.Sales, snap.Laptops)
	if err := writeSheet(f, "Sales",
		[]string{"ID", "Laptop", "Customer", "Seller", "Quantity", "Unit Price", "Total", "Profit", "Payment", "Status", "Date", "Warranty Until"},
		func() [][]interface{} {
			rows := make([][]interface{}, 0, len(profits))
			for _, sp := range profits {
				s := sp.Sale
				rows = append(rows, []interface{}{
					s.ID, s.LaptopID, s.CustomerID, s.UserID, s.Quantity,
					s.UnitPrice, s.TotalAmount, sp.Profit, s.PaymentMethod,
					s.Status, s.SaleDate.Format("2006-01-02"),
					s.WarrantyExpiry.Format("2006-01-02"),
				})
			}
			return rows
		}()); err != nil {
		return nil, err
	}

	insights := CustomerInsights(snap.Customers, snap.Sales, snap.Laptops, now)
	if err := writeSheet(f, "Customers",
		[]string{"ID", "Name", "Email", "Phone", "Tier", "Purchases", "Total Spent", "Last Purchase", "Preferred Brands", "Active"},
		func() [][]interface{} {
			rows := make([][]interface{}, 0, len(insights))
			for _, ci := range insights {
				lastPurchase := ""
				if ci.LastPurchase != nil {
					lastPurchase = ci.LastPurchase.Format("2006-01-02")
				}
				brands := ""
				for i, b := range ci.PreferredBrands {
					if i > 0 {
						brands += ", "
					}
					brands += b
				}
				rows = append(rows, []interface{}{
					ci.Customer.ID, ci.Customer.Name, ci.Customer.Email,
					ci.Customer.Phone, ci.Tier, ci.TotalPurchases,
					ci.TotalSpent, lastPurchase, brands, ci.Active,
				})
			}
			return rows
		}()); err != nil {
		return nil, err
	}

	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
