// Seeds sections, groups and questions from a YAML definition.
//
// Usage: go run scripts/seed_questionnaire.go -file configs/questionnaire.example.yaml

package main

import (
	"context"
	"flag"
	"interrogator/internal/config"
	"interrogator/internal/repository"
	"interrogator/internal/service"
	"interrogator/pkg/database"
	"interrogator/pkg/logger"
	"log"
	"os"

	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	file := flag.String("file", "configs/questionnaire.example.yaml", "questionnaire definition")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, true)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	def, err := service.ParseQuestionnaire(f)
	if err != nil {
		log.Fatal(err)
	}

	svc := service.NewInterrogator(db, repository.NewQuestionTypeRepository(db, nil, 0))
	sections, err := svc.Import(context.Background(), def)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	for _, s := range sections {
		logger.Log.Info("section seeded", zap.Uint("id", s.ID), zap.String("slug", s.Slug))
	}
}
