package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ikkim/motoparts-backend/config"
	"github.com/ikkim/motoparts-backend/internal/app/repository"
	"github.com/ikkim/motoparts-backend/internal/app/service"
	"github.com/ikkim/motoparts-backend/internal/db"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> [--yes]")
	}

	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && os.Args[2] == "--yes"

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

	productService := service.NewProductService(repository.NewProductRepository(db.GetDB()))

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	result, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", result.TotalRows)
	fmt.Printf("  Valid products: %d\n", len(result.Products))
	fmt.Printf("  Skipped rows: %d\n", len(result.Skipped))
	for _, s := range result.Skipped {
		fmt.Printf("    row %d: %s\n", s.Row, s.Reason)
	}

	if len(result.Products) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	if !assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	fmt.Printf("Starting bulk import with batch size: %d\n", service.ImportBatchSize)
	imported, err := productService.ImportProducts(result.Products)
	if err != nil {
		log.Fatal("Failed to import products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", imported)
}
