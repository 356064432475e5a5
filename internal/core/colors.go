package core

import "strings"

// namedIndustryColors pins chart colors for the industries the team tracks
// closely. Matching is case-insensitive and accepts the name as a
// substring, so "ZEN DO BRASIL" still maps to the ZEN color.
var namedIndustryColors = []struct {
	Name  string
	Color string
}{
	{"MOBENSANI", "#FF0000"},
	{"TARANTO", "#0000FF"},
	{"IKS", "#FF69B4"},
	{"ZEN", "#FFA500"},
	{"DRIVEWAY", "#FFFF00"},
}

// industryFallback colors unnamed industries, cycling in output order.
var industryFallback = []string{
	"#4CAF50", "#81C784", "#A5D6A7", "#C8E6C9", "#E8F5E9",
	"#2E7D32", "#388E3C", "#43A047", "#66BB6A", "#009688",
	"#26A69A", "#4DB6AC", "#80CBC4", "#B2DFDB", "#E0F2F1",
}

// groupPalette colors the group breakdown, cycling in output order.
var groupPalette = []string{
	"#1976D2", "#2196F3", "#42A5F5", "#64B5F6", "#90CAF9",
	"#0D47A1", "#1565C0", "#1976D2", "#1E88E5", "#2196F3",
}

func industryColor(label string, pos int) string {
	upper := strings.ToUpper(label)
	for _, named := range namedIndustryColors {
		if named.Name == upper {
			return named.Color
		}
	}
	for _, named := range namedIndustryColors {
		if strings.Contains(upper, named.Name) {
			return named.Color
		}
	}
	return industryFallback[pos%len(industryFallback)]
}

func groupColor(_ string, pos int) string {
	return groupPalette[pos%len(groupPalette)]
}
