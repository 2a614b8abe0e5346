package repository

import (
	"testing"

	"bakeshop-pos/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRecipeDB(t *testing.T) RecipeRepository {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.RecipeDocument{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := NewRecipeRepo(db)
	if err := repo.Ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	return repo
}

func TestRecipeGetUnknownProductIsEmptyNotError(t *testing.T) {
	repo := setupRecipeDB(t)

	links, err := repo.Get("Croissant")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("links = %v, want empty map", links)
	}
}

func TestRecipeSetPreservesUnrelatedLinks(t *testing.T) {
	repo := setupRecipeDB(t)

	if err := repo.Set("Croissant", "Flour", 0.1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set("Croissant", "Butter", 0.05); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set("Cake", "Flour", 0.4); err != nil {
		t.Fatalf("set: %v", err)
	}

	croissant, err := repo.Get("Croissant")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if croissant["Flour"] != 0.1 || croissant["Butter"] != 0.05 {
		t.Errorf("croissant links = %v, want Flour 0.1 and Butter 0.05", croissant)
	}

	cake, err := repo.Get("Cake")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cake["Flour"] != 0.4 {
		t.Errorf("cake links = %v, want Flour 0.4", cake)
	}
}

func TestRecipeSetUpsertsExistingLink(t *testing.T) {
	repo := setupRecipeDB(t)

	if err := repo.Set("Croissant", "Flour", 0.1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set("Croissant", "Flour", 0.2); err != nil {
		t.Fatalf("set: %v", err)
	}

	links, err := repo.Get("Croissant")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if links["Flour"] != 0.2 {
		t.Errorf("Flour usage = %v, want 0.2", links["Flour"])
	}
	if len(links) != 1 {
		t.Errorf("links = %v, want single Flour entry", links)
	}
}
