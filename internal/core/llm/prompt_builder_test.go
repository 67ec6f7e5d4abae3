package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleKnowledge() *KnowledgeBase {
	return &KnowledgeBase{
		BusinessName: "Corte & Arte",
		Address:      "Rua das Flores, 10",
		Hours: []WeekdayHours{
			{Day: time.Monday, Open: true, Start: "09:00", End: "19:00"},
			{Day: time.Sunday},
		},
		Services: []CatalogItem{
			{Name: "Corte", Price: 35, DurationMinutes: 30, Description: "Corte masculino"},
			{Name: "Barba", Price: 25.5, DurationMinutes: 20},
		},
		OccupiedSlots: []Slot{{Date: "2026-03-12", Time: "15:00"}},
		Today:         time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildSystemPrompt_Sections(t *testing.T) {
	prompt := BuildSystemPrompt(sampleKnowledge())

	assert.Contains(t, prompt, "Corte & Arte")
	assert.Contains(t, prompt, "Hoje é terça-feira, 10/03/2026 (2026-03-10).")
	assert.Contains(t, prompt, "Endereço: Rua das Flores, 10")
	assert.Contains(t, prompt, "Telefone: não informado")
	assert.Contains(t, prompt, "Segunda-feira: 09:00 às 19:00")
	assert.Contains(t, prompt, "Domingo: Fechado")
	assert.Contains(t, prompt, "- Corte: R$ 35,00 (30 min) Corte masculino")
	assert.Contains(t, prompt, "- Barba: R$ 25,50 (20 min)")
	assert.Contains(t, prompt, "- 2026-03-12 às 15:00")
	assert.Contains(t, prompt, "[AGENDAR:<nome do serviço>|<AAAA-MM-DD>|<HH:MM>]")
	assert.NotContains(t, prompt, "NASCIMENTO")

	order := []string{"=== DADOS DA EMPRESA ===", "=== HORÁRIO DE FUNCIONAMENTO ===", "=== SERVIÇOS ===", "=== HORÁRIOS JÁ OCUPADOS (NUNCA OFEREÇA) ===", "=== REGRAS ==="}
	last := -1
	for _, header := range order {
		idx := strings.Index(prompt, header)
		assert.Greater(t, idx, last, header)
		last = idx
	}
}

func TestBuildSystemPrompt_EmptyCatalog(t *testing.T) {
	prompt := BuildSystemPrompt(&KnowledgeBase{})

	assert.Contains(t, prompt, "Nome: não informado")
	assert.Contains(t, prompt, "Nenhum serviço cadastrado")
	assert.Contains(t, prompt, "Nenhum horário ocupado.")
	assert.NotContains(t, prompt, "Hoje é")
}

func TestBuildSystemPrompt_BirthDateRequest(t *testing.T) {
	kb := sampleKnowledge()
	kb.NeedsBirthDate = true

	prompt := BuildSystemPrompt(kb)
	assert.Contains(t, prompt, "=== DATA DE NASCIMENTO ===")
	assert.Contains(t, prompt, "[NASCIMENTO:DD/MM/AAAA]")
}

func TestBuildSystemPrompt_Deterministic(t *testing.T) {
	assert.Equal(t, BuildSystemPrompt(sampleKnowledge()), BuildSystemPrompt(sampleKnowledge()))
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0,00"},
		{35, "35,00"},
		{25.5, "25,50"},
		{1234.5, "1.234,50"},
		{1000000, "1.000.000,00"},
		{-12.3, "-12,30"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.in))
	}
}
