package catalog

import "fmt"

// Construct is a latent agency-theory dimension measured by survey items.
type Construct string

const (
	Control       Construct = "Control"
	Info          Construct = "Info"
	Verifiability Construct = "Verifiability"
	Externality   Construct = "Externality"
	Capacity      Construct = "Capacity"
	Incentives    Construct = "Incentives"
)

// Tier identifies one of the two principal-agent relationships.
type Tier int

const (
	// Tier1 is public authority <-> private delivery vehicle (BU/SPV).
	Tier1 Tier = 1
	// Tier2 is delivery vehicle <-> subcontracted EPC/O&M party.
	Tier2 Tier = 2
)

func (t Tier) String() string {
	return fmt.Sprintf("tier%d", int(t))
}

// Item is a single Likert questionnaire statement.
type Item struct {
	Code      string    `json:"code" yaml:"code"`
	Text      string    `json:"text" yaml:"text"`
	Construct Construct `json:"construct" yaml:"construct"`
	Reverse   bool      `json:"reverse,omitempty" yaml:"reverse,omitempty"`
}

var tier1Items = []Item{
	{Code: "PAT1-01", Text: "Keputusan teknis BU/SPV berpengaruh langsung mengurangi risiko.", Construct: Control},
	{Code: "PAT1-02", Text: "Kewenangan BU/SPV memadai untuk mengelola risiko.", Construct: Control},
	{Code: "PAT1-03", Text: "Informasi lebih lengkap di BU/SPV dibanding publik.", Construct: Info},
	{Code: "PAT1-04", Text: "Pengalaman lapangan BU/SPV lebih mampu merespons risiko.", Construct: Info},
	{Code: "PAT1-05", Text: "Kinerja dapat diukur dengan indikator yang jelas.", Construct: Verifiability},
	{Code: "PAT1-06", Text: "Biaya pemantauan kinerja masih wajar.", Construct: Verifiability},
	{Code: "PAT1-07", Text: "Risiko terutama ditentukan faktor eksternal.", Construct: Externality, Reverse: true},
	{Code: "PAT1-08", Text: "Perubahan risiko lebih dipengaruhi kebijakan/regulasi.", Construct: Externality, Reverse: true},
	{Code: "PAT1-09", Text: "BU/SPV punya kemampuan finansial memadai.", Construct: Capacity},
	{Code: "PAT1-10", Text: "BU/SPV punya kapasitas teknis memadai.", Construct: Capacity},
	{Code: "PAT1-11", Text: "Kontrak mengatur KPI/SLA yang jelas.", Construct: Incentives},
	{Code: "PAT1-12", Text: "Mekanisme pembayaran/penalti cukup jelas.", Construct: Incentives},
}

var tier2Items = []Item{
	{Code: "PAT2-01", Text: "EPC/O&M memiliki pengaruh langsung terhadap faktor teknis.", Construct: Control},
	{Code: "PAT2-02", Text: "Ruang lingkup kerja EPC/O&M memberi kendali cukup.", Construct: Control},
	{Code: "PAT2-03", Text: "Kinerja EPC/O&M dapat diukur objektif.", Construct: Verifiability},
	{Code: "PAT2-04", Text: "Hubungan kualitas kerja dan outcome dapat ditelusuri.", Construct: Verifiability},
	{Code: "PAT2-05", Text: "Kontrak memungkinkan pengalihan risiko via harga/LD.", Construct: Incentives},
	{Code: "PAT2-06", Text: "Ada mekanisme asuransi/perlindungan kontraktual.", Construct: Incentives},
	{Code: "PAT2-07", Text: "EPC/O&M punya kapasitas finansial memadai.", Construct: Capacity},
	{Code: "PAT2-08", Text: "EPC/O&M punya rekam jejak teknis relevan.", Construct: Capacity},
}

var itemIndex = map[Tier]map[string]Item{
	Tier1: indexItems(tier1Items),
	Tier2: indexItems(tier2Items),
}

func indexItems(items []Item) map[string]Item {
	m := make(map[string]Item, len(items))
	for _, it := range items {
		m[it.Code] = it
	}
	return m
}

// Items returns the item catalog for a tier in questionnaire order.
func Items(t Tier) []Item {
	var src []Item
	switch t {
	case Tier1:
		src = tier1Items
	case Tier2:
		src = tier2Items
	}
	out := make([]Item, len(src))
	copy(out, src)
	return out
}

// LookupItem finds an item by code within a tier's catalog.
func LookupItem(t Tier, code string) (Item, error) {
	it, ok := itemIndex[t][code]
	if !ok {
		return Item{}, fmt.Errorf("%w: %q in %s", ErrUnknownItem, code, t)
	}
	return it, nil
}
