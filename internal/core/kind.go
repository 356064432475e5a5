// Package core holds the domain model of the reporting dashboard:
// sheet kinds, row tables, date and money parsing, the row filter
// pipeline and the aggregation engine.
package core

// VendorMatch selects how the vendor restriction compares the vendor
// column against the requesting identity.
type VendorMatch int

const (
	// MatchLogin compares the vendor cell against the identity login, exact match.
	MatchLogin VendorMatch = iota
	// MatchDisplayName compares against the identity display name, case-insensitive.
	MatchDisplayName
)

// AggregateMode selects which summary a sheet kind produces.
type AggregateMode int

const (
	AggregateCount AggregateMode = iota
	AggregateExpenses
	AggregateSales
)

// Kind identifies one of the fixed tabular data sources.
type Kind int

const (
	KindVisits Kind = iota
	KindProspecting
	KindExpenses
	KindQuestionnaire
	KindSales
)

// Descriptor declares, per sheet kind, everything the filter pipeline and
// the aggregation engine need: date handling, the projection column list,
// the vendor restriction mode and the aggregation mode.
type Descriptor struct {
	// Name is the canonical worksheet name and the URL path segment.
	Name string
	// Label names one record of this kind in summaries ("visitas", "vendas", ...).
	Label string

	DateColumn  string
	DateLayouts []string

	// Columns is the ordered projection list. Empty means keep every column.
	Columns []string

	VendorColumn string
	VendorMatch  VendorMatch

	Aggregate AggregateMode
}

const (
	colDate   = "DATA"
	colVendor = "VENDEDOR"
)

// Date layouts per sheet family. Day-first, as the sheets are filled in
// Brazilian format.
var (
	layoutsTimestamp = []string{"02/01/2006 15:04:05"}
	layoutsDateOnly  = []string{"02/01/2006"}
	layoutsSales     = []string{"02/01/2006", "02/01/06"}
)

var descriptors = map[Kind]Descriptor{
	KindVisits: {
		Name:        "VISITAS",
		Label:       "visitas",
		DateColumn:  colDate,
		DateLayouts: layoutsTimestamp,
		Columns: []string{
			"DATA", "VENDEDOR", "CLIENTE", "INDÚSTRIA", "PERCEPÇÃO MERCADO", "OBS",
		},
		VendorColumn: colVendor,
		VendorMatch:  MatchLogin,
		Aggregate:    AggregateCount,
	},
	KindProspecting: {
		Name:        "PROSPECÇÃO",
		Label:       "prospecções",
		DateColumn:  colDate,
		DateLayouts: layoutsTimestamp,
		Columns: []string{
			"DATA", "VENDEDOR", "NOME DA EMPRESA", "ENDEREÇO", "CNPJ", "RESPONSÁVEL",
			"TELEFONE", "E-MAIL", "OBSERVAÇÕES", "ID INSTAGRAM",
		},
		VendorColumn: colVendor,
		VendorMatch:  MatchLogin,
		Aggregate:    AggregateCount,
	},
	KindExpenses: {
		Name:        "DESPESAS",
		Label:       "despesas",
		DateColumn:  colDate,
		DateLayouts: layoutsDateOnly,
		Columns: []string{
			"DATA", "VENDEDOR", "KM INICIAL", "KM FINAL", "ESTACIONAMENTO",
			"PEDÁGIO", "OUTRAS DESPESAS", "DESCRIÇÃO DE OUTRAS DESPESAS", "KM TOTAL",
		},
		VendorColumn: colVendor,
		VendorMatch:  MatchLogin,
		Aggregate:    AggregateExpenses,
	},
	KindQuestionnaire: {
		Name:        "QUESTIONÁRIO",
		Label:       "questionários",
		DateColumn:  colDate,
		DateLayouts: layoutsTimestamp,
		Columns: []string{
			"VENDEDOR", "DATA", "NOME", "ENDEREÇO", "TELEFONE", "RAMO DE ATUAÇÃO",
			"MÉDIA DIÁRIA DE CLIENTES", "PRINCIPAIS DISTRIBUIDORES/LOJAS", "PRINCIPAL DISTRIBUIDOR/LOJA",
			"% UTILIZADO DRW", "MARCAS UTILIZADAS DRW", "PRINCIPAL MARCA DRW", "DRW NÃO COMPRA/NÃO É A PRINCIPAL?",
			"% UTILIZADO IKS", "MARCAS UTILIZADAS IKS", "PRINCIPAL MARCA IKS", "IKS NÃO COMPRA/NÃO É A PRINCIPAL?",
			"% UTILIZADO MOB", "MARCAS UTILIZADAS MOB", "PRINCIPAL MARCA MOB", "MOB NÃO COMPRA/NÃO É A PRINCIPAL?",
			"% UTILIZADO TAR", "MARCAS UTILIZADAS TAR", "PRINCIPAL MARCA TAR", "TAR NÃO COMPRA/NÃO É A PRINCIPAL?",
			"% UTILIZADO ZEN", "MARCAS UTILIZADAS ZEN", "PRINCIPAL MARCA ZEN", "ZEN NÃO COMPRA/NÃO É A PRINCIPAL?",
			"ID INSTAGRAM",
		},
		VendorColumn: colVendor,
		VendorMatch:  MatchLogin,
		Aggregate:    AggregateCount,
	},
	KindSales: {
		Name:        "VENDAS",
		Label:       "vendas",
		DateColumn:  colDate,
		DateLayouts: layoutsSales,
		// The sales sheet is rendered with every column it carries.
		Columns:      nil,
		VendorColumn: colVendor,
		VendorMatch:  MatchDisplayName,
		Aggregate:    AggregateSales,
	},
}

// kindOrder fixes the presentation order of the sheet kinds.
var kindOrder = []Kind{KindVisits, KindProspecting, KindExpenses, KindQuestionnaire, KindSales}

// Kinds returns all sheet kinds in presentation order.
func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// Descriptor returns the declarative descriptor for the kind.
// Unknown kinds get a zero descriptor; callers validate with Valid first.
func (k Kind) Descriptor() Descriptor {
	return descriptors[k]
}

// Valid reports whether k is a member of the closed kind set.
func (k Kind) Valid() bool {
	_, ok := descriptors[k]
	return ok
}

// Name returns the canonical worksheet name of the kind.
func (k Kind) Name() string {
	return descriptors[k].Name
}

func (k Kind) String() string { return k.Name() }

// ParseKind resolves a worksheet name ("VISITAS", "VENDAS", ...) to its kind.
func ParseKind(name string) (Kind, bool) {
	for _, k := range kindOrder {
		if descriptors[k].Name == name {
			return k, true
		}
	}
	return 0, false
}
