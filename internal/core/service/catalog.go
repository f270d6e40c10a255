package service

import "slices"

// TeaCategory is a catalog entry as served to clients. The client adds
// the image and the user's rating.
type TeaCategory struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DefaultCatalog returns the standard tea categories, in id order.
func DefaultCatalog() []TeaCategory {
	return []TeaCategory{
		{1, "Green", "Green teas have the oxidation process stopped very early on, leaving them with a very subtle flavor and complex undertones."},
		{2, "Black", "A fully oxidized tea, black teas have a dark color and a full robust and pronounced flavor."},
		{3, "Herbal", "Herbal infusions are not actually \"tea\" but are more accurately characterized as infused beverages consisting of various dried herbs, spices, and fruits."},
		{4, "Oolong", "Oolong teas are partially oxidized, giving them a flavor that is not as robust as black teas but also not as subtle as green teas."},
		{5, "Dark", "From the Hunan and Sichuan provinces of China, dark teas are flavorful aged probiotic teas that steep up very smooth with slightly sweet notes."},
		{6, "Puer", "An aged black tea from china. Puer teas have a strong rich flavor that could be described as 'woody' or 'peaty.'"},
		{7, "White", "White tea is produced using very young shoots with no oxidation process. White tea has an extremely delicate flavor that is sweet and fragrant."},
		{8, "Yellow", "A rare tea from China, yellow tea goes through a similar shortened oxidation process like green teas. Yellow teas, however, do not have the grassy flavor that green teas tend to have."},
	}
}

// CatalogService serves a fixed list of tea categories.
type CatalogService struct {
	teas []TeaCategory
}

// NewCatalogService creates a catalog. A nil list uses DefaultCatalog.
func NewCatalogService(teas []TeaCategory) *CatalogService {
	if teas == nil {
		teas = DefaultCatalog()
	}
	return &CatalogService{teas: teas}
}

// Categories returns a copy of the catalog.
func (s *CatalogService) Categories() []TeaCategory {
	return slices.Clone(s.teas)
}

// Has reports whether id is a known category.
func (s *CatalogService) Has(id int) bool {
	return slices.ContainsFunc(s.teas, func(t TeaCategory) bool { return t.ID == id })
}
