package llm

import (
	"fmt"
	"strings"
	"time"
)

const notInformed = "não informado"

// KnowledgeBase is everything the booking assistant is allowed to know about
// a tenant for one turn.
type KnowledgeBase struct {
	BusinessName string
	Address      string
	Phone        string
	Email        string
	Instagram    string

	// Hours in display order, one entry per weekday.
	Hours         []WeekdayHours
	Services      []CatalogItem
	OccupiedSlots []Slot

	// NeedsBirthDate asks the assistant to collect the contact's birth date.
	NeedsBirthDate bool

	// Today is the tenant-local current date.
	Today time.Time
}

type WeekdayHours struct {
	Day   time.Weekday
	Open  bool
	Start string
	End   string
}

// CatalogItem is one bookable service as shown to the assistant.
type CatalogItem struct {
	Name            string
	Description     string
	Price           float64
	DurationMinutes int
}

// Slot is a booked (date, time) pair, "YYYY-MM-DD" and "HH:MM".
type Slot struct {
	Date string
	Time string
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
}

// WeekdayName returns the Portuguese name of a weekday.
func WeekdayName(day time.Weekday) string {
	return weekdayNames[day]
}

// BuildSystemPrompt renders the system prompt for a knowledge base. The
// output is a deterministic function of kb.
func BuildSystemPrompt(kb *KnowledgeBase) string {
	var sb strings.Builder

	name := orPlaceholder(kb.BusinessName)
	sb.WriteString(fmt.Sprintf("Você é o assistente virtual de agendamentos de %s, atendendo clientes pelo WhatsApp.\n", name))
	if !kb.Today.IsZero() {
		sb.WriteString(fmt.Sprintf("Hoje é %s, %s (%s).\n", strings.ToLower(WeekdayName(kb.Today.Weekday())), kb.Today.Format("02/01/2006"), kb.Today.Format("2006-01-02")))
	}
	sb.WriteString("\n")

	sb.WriteString("=== DADOS DA EMPRESA ===\n")
	sb.WriteString(fmt.Sprintf("Nome: %s\n", name))
	sb.WriteString(fmt.Sprintf("Endereço: %s\n", orPlaceholder(kb.Address)))
	sb.WriteString(fmt.Sprintf("Telefone: %s\n", orPlaceholder(kb.Phone)))
	sb.WriteString(fmt.Sprintf("E-mail: %s\n", orPlaceholder(kb.Email)))
	sb.WriteString(fmt.Sprintf("Instagram: %s\n\n", orPlaceholder(kb.Instagram)))

	sb.WriteString("=== HORÁRIO DE FUNCIONAMENTO ===\n")
	for _, h := range kb.Hours {
		if h.Open && h.Start != "" && h.End != "" {
			sb.WriteString(fmt.Sprintf("%s: %s às %s\n", WeekdayName(h.Day), h.Start, h.End))
		} else {
			sb.WriteString(fmt.Sprintf("%s: Fechado\n", WeekdayName(h.Day)))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("=== SERVIÇOS ===\n")
	if len(kb.Services) == 0 {
		sb.WriteString("Nenhum serviço cadastrado. Não invente serviços nem preços.\n")
	}
	for _, s := range kb.Services {
		line := fmt.Sprintf("- %s: R$ %s (%d min)", s.Name, FormatPrice(s.Price), s.DurationMinutes)
		if s.Description != "" {
			line += " " + s.Description
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("=== HORÁRIOS JÁ OCUPADOS (NUNCA OFEREÇA) ===\n")
	if len(kb.OccupiedSlots) == 0 {
		sb.WriteString("Nenhum horário ocupado.\n")
	}
	for _, slot := range kb.OccupiedSlots {
		sb.WriteString(fmt.Sprintf("- %s às %s\n", slot.Date, slot.Time))
	}
	sb.WriteString("\n")

	sb.WriteString("=== REGRAS ===\n")
	sb.WriteString("1. Só finalize um agendamento depois de confirmar com o cliente o serviço, a data e o horário.\n")
	sb.WriteString("2. Quando o cliente confirmar, inclua UMA ÚNICA VEZ, em uma linha separada, a marcação exata:\n")
	sb.WriteString("[AGENDAR:<nome do serviço>|<AAAA-MM-DD>|<HH:MM>]\n")
	sb.WriteString("   Use o nome do serviço exatamente como aparece na lista. Nunca repita a marcação em mensagens seguintes.\n")
	sb.WriteString("3. Nunca ofereça horários já ocupados, fora do horário de funcionamento ou em dias fechados.\n")
	sb.WriteString("4. Nunca mostre, explique ou mencione as marcações entre colchetes ao cliente.\n")
	sb.WriteString("5. Responda de forma curta, cordial e em português do Brasil.\n")
	sb.WriteString("6. Use somente as informações acima. Se não souber algo, diga que vai verificar com a equipe.\n")

	if kb.NeedsBirthDate {
		sb.WriteString("\n=== DATA DE NASCIMENTO ===\n")
		sb.WriteString("Ainda não sabemos a data de nascimento deste cliente.\n")
		sb.WriteString("Antes de finalizar o primeiro agendamento, pergunte a data de nascimento apenas uma vez.\n")
		sb.WriteString("Quando o cliente informar, inclua a marcação [NASCIMENTO:DD/MM/AAAA].\n")
		sb.WriteString("Se o cliente não quiser informar, siga com o atendimento normalmente.\n")
	}

	return sb.String()
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return notInformed
	}
	return value
}

// FormatPrice formats a value as Brazilian currency without the symbol
// (1234.5 -> "1.234,50").
func FormatPrice(amount float64) string {
	cents := int64(amount*100 + 0.5)
	if amount < 0 {
		cents = int64(amount*100 - 0.5)
	}
	negative := cents < 0
	if negative {
		cents = -cents
	}

	intPart := fmt.Sprintf("%d", cents/100)
	var result strings.Builder
	for i, char := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteString(".")
		}
		result.WriteRune(char)
	}

	out := fmt.Sprintf("%s,%02d", result.String(), cents%100)
	if negative {
		out = "-" + out
	}
	return out
}
