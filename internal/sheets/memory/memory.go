// Package memory is an in-memory RowFetcher for tests and local
// development without Google credentials.
package memory

import (
	"context"
	"sync"

	"remape/internal/core"
	"remape/internal/sheets"
)

type Store struct {
	mu     sync.RWMutex
	tables map[string]core.Table
}

var _ sheets.RowFetcher = (*Store)(nil)

func New() *Store {
	return &Store{tables: make(map[string]core.Table)}
}

// Seed registers a worksheet under a spreadsheet id.
func (s *Store) Seed(spreadsheetID, worksheet string, t core.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[key(spreadsheetID, worksheet)] = t
}

func (s *Store) FetchRows(_ context.Context, spreadsheetID, worksheet string) (core.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[key(spreadsheetID, worksheet)]
	if !ok {
		return core.Table{}, &sheets.FetchError{
			SpreadsheetID: spreadsheetID,
			Worksheet:     worksheet,
			Err:           sheets.ErrWorksheetNotFound,
		}
	}
	// Hand out copies so callers can never mutate the seeded data.
	out := core.Table{Columns: append([]string(nil), t.Columns...), Rows: make([]core.Row, 0, len(t.Rows))}
	for _, r := range t.Rows {
		nr := make(core.Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows = append(out.Rows, nr)
	}
	return out, nil
}

func key(spreadsheetID, worksheet string) string {
	return spreadsheetID + "!" + worksheet
}

// NewWithSamples seeds a store with a small dataset for every default
// worksheet, so the dashboard is browsable out of the box.
func NewWithSamples(mainID, salesID string) *Store {
	s := New()
	s.Seed(mainID, "VISITAS", core.NewTable([][]string{
		{"DATA", "VENDEDOR", "CLIENTE", "INDÚSTRIA", "PERCEPÇÃO MERCADO", "OBS"},
		{"01/12/2023 13:44:40", "ana@remape.com", "Auto Peças Silva", "ZEN", "Aquecido", ""},
		{"05/12/2023 09:10:00", "bruno@remape.com", "Oficina Central", "MOBENSANI", "Estável", "Retornar em janeiro"},
	}))
	s.Seed(mainID, "PROSPECÇÃO", core.NewTable([][]string{
		{"DATA", "VENDEDOR", "NOME DA EMPRESA", "ENDEREÇO", "CNPJ", "RESPONSÁVEL", "TELEFONE", "E-MAIL", "OBSERVAÇÕES", "ID INSTAGRAM"},
		{"03/12/2023 15:30:00", "ana@remape.com", "Distribuidora Norte", "Av. Brasil 100", "00.000.000/0001-00", "Carlos", "(11) 99999-0000", "contato@norte.com", "", "@distnorte"},
	}))
	s.Seed(mainID, "DESPESAS", core.NewTable([][]string{
		{"DATA", "VENDEDOR", "KM INICIAL", "KM FINAL", "ESTACIONAMENTO", "PEDÁGIO", "OUTRAS DESPESAS", "DESCRIÇÃO DE OUTRAS DESPESAS", "KM TOTAL"},
		{"01/12/2023", "ana@remape.com", "1000", "1120", "R$ 12,00", "R$ 7,50", "", "", "120"},
		{"05/12/2023", "bruno@remape.com", "2000", "2080", "R$ 8,00", "", "R$ 30,00", "Almoço com cliente", "80"},
	}))
	s.Seed(mainID, "QUESTIONÁRIO", core.NewTable([][]string{
		{"VENDEDOR", "DATA", "NOME", "ENDEREÇO", "TELEFONE", "RAMO DE ATUAÇÃO"},
		{"ana@remape.com", "02/12/2023 11:00:00", "Auto Center Leste", "Rua das Palmeiras 5", "(11) 98888-0000", "Mecânica"},
	}))
	s.Seed(salesID, "", core.NewTable([][]string{
		{"DATA", "VENDEDOR", "CLIENTE", "VALOR", "INDÚSTRIA", "GRUPO"},
		{"19/12/2024", "Ana", "Auto Peças Silva", "R$ 100,00", "ZEN", "VAREJO"},
		{"07/08/23", "Ana", "Oficina Central", "R$ 300,00", "MOBENSANI", "ATACADO"},
		{"10/01/2024", "Bruno", "Distribuidora Norte", "R$ 250,00", "TARANTO", "VAREJO"},
	}))
	return s
}
