package domain

// Palette は、選択可能なカラープリセットを表します
type Palette struct {
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"`
}

// Hairstyle は、選択可能なヘアスタイルプリセットを表します
type Hairstyle struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Catalog は、現在選択可能なプリセットの一覧です
type Catalog struct {
	Palettes   []Palette   `yaml:"palettes" json:"palettes"`
	Hairstyles []Hairstyle `yaml:"hairstyles" json:"hairstyles"`
}

// defaultPalettes は組み込みのカラープリセットを定義します
var defaultPalettes = []Palette{
	{"Icy Platinum", "#E1E8EB"},
	{"Electric Purple", "#8A2BE2"},
	{"Copper Balayage", "#B87333"},
	{"Midnight Rose", "#800020"},
	{"Golden Honey", "#E3A857"},
	{"Smoky Charcoal", "#36454F"},
}

// defaultHairstyles は組み込みのヘアスタイルプリセットを定義します
var defaultHairstyles = []Hairstyle{
	{"wolf", "Wolf Cut", "Edgy shaggy layers with volume."},
	{"butterfly", "Butterfly Cut", "Long layers with face-framing feathers."},
	{"pixie", "Tapered Pixie", "Sharp, short, and sophisticated."},
	{"bob", "Blunt Bob", "Razor-straight chin-length edge."},
	{"curtain", "Curtain Bangs", "Soft 70s inspired framing."},
	{"waves", "Beach Waves", "Effortless luxury texture."},
	{"sleek", "Sleek Straight", "High-shine glass hair finish."},
	{"afro", "Afro Curls", "Defined, high-volume natural curls."},
	{"french", "French Bob", "Classic chic with a modern twist."},
}

// DefaultCatalog は、組み込みのプリセットカタログを返します
func DefaultCatalog() Catalog {
	return Catalog{
		Palettes:   append([]Palette(nil), defaultPalettes...),
		Hairstyles: append([]Hairstyle(nil), defaultHairstyles...),
	}
}

// IsEmpty は、カタログにプリセットが1つもないかを判定します
func (c Catalog) IsEmpty() bool {
	return len(c.Palettes) == 0 || len(c.Hairstyles) == 0
}

// PaletteByName は、表示名が一致するカラープリセットを返します
func (c Catalog) PaletteByName(name string) (Palette, bool) {
	for _, p := range c.Palettes {
		if p.Name == name {
			return p, true
		}
	}
	return Palette{}, false
}

// HairstyleByName は、表示名が一致するヘアスタイルプリセットを返します
func (c Catalog) HairstyleByName(name string) (Hairstyle, bool) {
	for _, s := range c.Hairstyles {
		if s.Name == name {
			return s, true
		}
	}
	return Hairstyle{}, false
}

// HairstyleByID は、IDが一致するヘアスタイルプリセットを返します
func (c Catalog) HairstyleByID(id string) (Hairstyle, bool) {
	for _, s := range c.Hairstyles {
		if s.ID == id {
			return s, true
		}
	}
	return Hairstyle{}, false
}
