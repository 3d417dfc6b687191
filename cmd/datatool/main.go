package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/config"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/consultation"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/db"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/exporter"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/importer"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/patient"
)

func main() {
	runImport := flag.Bool("import", false, "import the CSV files given as arguments")
	exportPath := flag.String("export", "", "write a ZIP export to the given path")
	flag.Parse()

	if *runImport == (*exportPath != "") {
		log.Fatal("specify exactly one of -import <files...> or -export <path>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := db.EnsureSchema(ctx, database); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	patientRepo := patient.NewRepository(database)
	consultationRepo := consultation.NewRepository(database)

	if *exportPath != "" {
		runExport(ctx, patientRepo, consultationRepo, *exportPath)
		return
	}

	files := flag.Args()
	if len(files) == 0 {
		log.Fatal("no input files given")
	}

	var readers []importer.NamedReader
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", path, err)
		}
		defer f.Close()
		readers = append(readers, importer.NamedReader{Name: path, Reader: f})
	}

	reconciler := importer.NewReconciler(patientRepo, consultationRepo, nil, nil)
	summary := reconciler.RunFiles(ctx, readers)

	log.Printf("Imported %d patients, %d consultations", summary.PatientsImported, summary.ConsultationsImported)
	for _, e := range summary.Errors {
		log.Printf("  error: %s", e)
	}
	if len(summary.Errors) > 0 {
		log.Printf("Finished with %d row/file errors (rows above were skipped)", len(summary.Errors))
	}
}

func runExport(ctx context.Context, patients *patient.Repository, consultations *consultation.Repository, path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()

	exp := exporter.New(patients, consultations)
	if err := exp.WriteArchive(ctx, f); err != nil {
		os.Remove(path)
		log.Fatalf("Export failed: %v", err)
	}
	log.Printf("✓ Export written to %s", path)
}
