package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/dukkan-shop/dukkan-backend/config"
	"github.com/dukkan-shop/dukkan-backend/internal/app/model"
	"github.com/dukkan-shop/dukkan-backend/internal/app/repository"
	"github.com/dukkan-shop/dukkan-backend/internal/db"
)

// Imports a product catalog from an xlsx workbook. The expected column
// layout matches the dashboard's export:
// productNumber | sku | name | brand | category | price | discount | stock | threshold | tags | description
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := readProductsFromXLSX(filePath, categoryRepo)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d (skipped %d rows)\n", len(products), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	duplicates := 0
	for i := range products {
		existing, err := productRepo.FindByProductNumber(products[i].ProductNumber)
		if err != nil && err != gorm.ErrRecordNotFound {
			log.Fatal("Failed to check existing product:", err)
		}
		if existing != nil {
			duplicates++
			continue
		}
		if err := productRepo.Create(&products[i]); err != nil {
			log.Fatal("Failed to create product:", err)
		}
		imported++

		if imported%100 == 0 {
			fmt.Printf("Imported %d products...\n", imported)
		}
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  Imported:   %d\n", imported)
	fmt.Printf("  Duplicates: %d\n", duplicates)
}

func readProductsFromXLSX(filePath string, categoryRepo repository.CategoryRepository) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	// category name -> ID, resolved once per file
	categoryIDs := make(map[string]uint)
	categories, err := categoryRepo.FindAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load categories: %w", err)
	}
	for _, category := range categories {
		categoryIDs[category.Name] = category.ID
	}

	var products []model.Product
	seen := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 8 {
			skipped++
			continue
		}

		productNumber := strings.TrimSpace(cell(row, 0))
		sku := strings.TrimSpace(cell(row, 1))
		name := strings.TrimSpace(cell(row, 2))
		brand := strings.TrimSpace(cell(row, 3))
		categoryName := strings.TrimSpace(cell(row, 4))

		if productNumber == "" || sku == "" || name == "" || categoryName == "" {
			skipped++
			continue
		}
		if seen[productNumber] {
			skipped++
			continue
		}

		categoryID, ok := categoryIDs[categoryName]
		if !ok {
			fmt.Printf("Row %d: unknown category %q, skipping\n", i+1, categoryName)
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(cell(row, 5)), 64)
		if err != nil || price <= 0 {
			skipped++
			continue
		}
		discount, _ := strconv.ParseFloat(strings.TrimSpace(cell(row, 6)), 64)
		stock, err := strconv.Atoi(strings.TrimSpace(cell(row, 7)))
		if err != nil || stock < 0 {
			skipped++
			continue
		}
		threshold, _ := strconv.Atoi(strings.TrimSpace(cell(row, 8)))

		var tags []string
		for _, tag := range strings.Split(cell(row, 9), ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}

		product := model.Product{
			ProductNumber:           productNumber,
			SKU:                     sku,
			Name:                    name,
			Brand:                   brand,
			CategoryID:              categoryID,
			CategoryName:            categoryName,
			Price:                   price,
			DiscountPercentage:      discount,
			StockQuantity:           stock,
			InventoryAlertThreshold: threshold,
			Description:             strings.TrimSpace(cell(row, 10)),
			Tags:                    model.StringList(tags),
		}
		if discount > 0 {
			derived := price - price*discount/100
			product.PriceAfterDiscount = &derived
		}

		seen[productNumber] = true
		products = append(products, product)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows:     %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows:   %d\n", skipped)

	return products, skipped, nil
}

// cell reads a column that may be absent on short rows
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
