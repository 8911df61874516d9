package seed

import (
	"fmt"

	"implantstock/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	demoDiameters = []string{"3.5", "4.0", "4.5", "5.0", "6.0"}
	demoLengths   = []string{"7", "8.5", "10", "11.5", "13"}
)

// maxDemoAttempts bounds the search for unused (size, brand) pairs.
const maxDemoAttempts = 20

// DemoCatalog builds up to n implants with distinct (size, brand) pairs.
// Most rows use the common brands; roughly one in five gets an invented
// manufacturer so the brand filter has something unusual to show.
func DemoCatalog(n int, seed int64) *Catalog {
	faker := gofakeit.New(seed)
	catalog := &Catalog{}
	seen := make(map[string]struct{}, n)

	for attempts := 0; len(catalog.Implants) < n && attempts < n*maxDemoAttempts; attempts++ {
		brand := faker.RandomString(models.CommonBrands)
		if faker.IntRange(1, 5) == 1 {
			brand = faker.Company()
		}
		size := fmt.Sprintf("%sx%s", faker.RandomString(demoDiameters), faker.RandomString(demoLengths))

		key := size + "\x00" + brand
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		minStock := faker.IntRange(1, 4)
		catalog.Implants = append(catalog.Implants, CatalogEntry{
			Size:     size,
			Brand:    brand,
			Stock:    faker.IntRange(0, 12),
			MinStock: minStock,
		})
	}
	return catalog
}
