package pdf

import (
	"bytes"
	"testing"

	"github.com/pbaptista/orcamentos/internal/models"
)

func TestBudgetRendersPDF(t *testing.T) {
	b := &models.Budget{
		ID:          7,
		ClientName:  "João da Silva",
		Phone:       "(11) 9 8765-4321",
		Email:       "joao@example.com",
		CreatedDate: "15/03/2026",
		GrandTotal:  436.5,
		Items: []models.BudgetItem{
			{Description: "Pintura", Quantity: 2, UnitPrice: 150, LineTotal: 300},
			{Description: "Material", Note: "tinta acrílica", Quantity: 3, UnitPrice: 45.5, LineTotal: 136.5},
		},
	}
	s := &models.Settings{
		CompanyName: "Obra Prima Reformas",
		CNPJ:        "12.345.678/9012-34",
		FooterText:  "Validade: 15 dias",
		PaymentPix:  true,
		PaymentCash: true,
	}
	data, err := Budget(b, s)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF (starts with %q)", data[:8])
	}
}

func TestBudgetNilSettings(t *testing.T) {
	b := &models.Budget{
		ID:         1,
		ClientName: "Ana",
		Items:      []models.BudgetItem{{Description: "Serviço", Quantity: 1, UnitPrice: 10, LineTotal: 10}},
		GrandTotal: 10,
	}
	if _, err := Budget(b, nil); err != nil {
		t.Fatalf("render without settings: %v", err)
	}
}

func TestTrimFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{2, "2"},
		{2.5, "2.5"},
		{2.25, "2.25"},
		{0, "0"},
	}
	for _, c := range cases {
		if got := trimFloat(c.in); got != c.want {
			t.Errorf("trimFloat(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
