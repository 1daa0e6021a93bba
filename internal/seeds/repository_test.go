package seeds

import (
	"context"
	"testing"

	"github.com/ipa-digital/safra-backend/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Semente{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestRepositoryListAtivasFiltersInactive(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	rows := []models.Semente{
		{Nome: "Feijão Carioca", Tipo: "GRAO", Cultura: "Feijão", UnidadeMedida: "kg", Ativo: true, EstoqueDisponivel: 30},
		{Nome: "Milho Crioulo", Tipo: "GRAO", Cultura: "Milho", UnidadeMedida: "kg", Ativo: false},
		{Nome: "Palma Forrageira", Tipo: "MUDA", Cultura: "Palma", UnidadeMedida: "unidade", Ativo: true, EstoqueDisponivel: 500},
	}
	for i := range rows {
		if _, err := repo.Create(ctx, &rows[i]); err != nil {
			t.Fatalf("seed insert: %v", err)
		}
	}

	ativas, err := repo.ListAtivas(ctx)
	if err != nil {
		t.Fatalf("list ativas: %v", err)
	}
	if len(ativas) != 2 {
		t.Fatalf("got %d active rows, want 2", len(ativas))
	}
	for _, s := range ativas {
		if !s.Ativo {
			t.Fatalf("inactive seed %q leaked into ativas", s.Nome)
		}
	}

	mudas, err := repo.ListByTipo(ctx, "MUDA")
	if err != nil {
		t.Fatalf("list by tipo: %v", err)
	}
	if len(mudas) != 1 || mudas[0].Nome != "Palma Forrageira" {
		t.Fatalf("unexpected tipo filter result: %+v", mudas)
	}
}
