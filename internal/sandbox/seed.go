package sandbox

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/kingrea/researchmatch/internal/domain"
)

// Demo account created on every seeded sandbox.
const (
	DemoEmail    = "demo@researchmatch.test"
	DemoPassword = "demo1234"
	// SeedPassword is the password of every generated researcher.
	SeedPassword = "sandbox123"
)

var researchAreas = []string{
	"Machine Learning", "Genomics", "Neuroscience", "Cardiology", "Oncology",
	"Public Health", "Biostatistics", "Robotics", "Epidemiology", "Immunology",
	"Psychology", "Materials Science", "Bioinformatics", "Nutrition", "Ethics",
}

var topics = []string{
	"imaging", "sequencing", "clinical trials", "wearable sensors", "survey design",
	"microscopy", "statistical modeling", "deep learning", "mass spectrometry",
	"patient cohorts", "grant writing", "field data", "lab equipment", "mentoring students",
	"data sharing", "cell culture", "signal processing", "natural language processing",
}

var customResourceTypes = []string{"compute time", "lab space", "biobank samples", "survey panel"}

// Seed fills store with a demo account and n generated researchers. A
// non-zero seed always produces the same researchers; zero picks a random
// one.
func Seed(store *Store, n int, seed int64) error {
	faker := gofakeit.New(seed)
	demo := domain.Registration{
		Email:        DemoEmail,
		Password:     DemoPassword,
		Name:         "Demo Researcher",
		Organization: domain.DefaultOrganizations[1],
		SeekShare:    domain.IntentSeek,
		ResourceType: domain.EncodeResourceTypes([]string{domain.ResourceTypeCollaboration, domain.ResourceTypeData}, ""),
		Description:  "Looking for collaborators with imaging and deep learning experience for a cardiology study.",
		ResearchArea: "Cardiology, Machine Learning",
	}
	if _, err := store.Register(demo); err != nil {
		return fmt.Errorf("sandbox: seed demo account: %w", err)
	}
	organizations := append(append([]string{}, domain.DefaultOrganizations...), "Radford University", "Roanoke College")
	for i := 0; i < n; i++ {
		reg := domain.Registration{
			Email:        fmt.Sprintf("%d.%s", i+1, faker.Email()),
			Password:     SeedPassword,
			Name:         faker.Name(),
			Organization: pick(faker, organizations),
			SeekShare:    pick(faker, domain.Intents),
			ResourceType: seedResourceTypes(faker),
			ResearchArea: seedAreas(faker),
		}
		reg.Description = fmt.Sprintf("%s work on %s and %s. %s",
			strings.Split(reg.ResearchArea, ", ")[0], pick(faker, topics), pick(faker, topics), faker.Sentence(8))
		if _, err := store.Register(reg); err != nil {
			return fmt.Errorf("sandbox: seed researcher %d: %w", i+1, err)
		}
	}
	return nil
}

func pick(faker *gofakeit.Faker, options []string) string {
	return options[faker.Number(0, len(options)-1)]
}

func seedAreas(faker *gofakeit.Faker) string {
	count := faker.Number(1, 3)
	seen := map[string]bool{}
	var areas []string
	for len(areas) < count {
		area := pick(faker, researchAreas)
		if seen[area] {
			continue
		}
		seen[area] = true
		areas = append(areas, area)
	}
	return strings.Join(areas, ", ")
}

func seedResourceTypes(faker *gofakeit.Faker) string {
	count := faker.Number(1, 2)
	seen := map[string]bool{}
	var types []string
	for len(types) < count {
		t := pick(faker, domain.StandardResourceTypes)
		if seen[t] {
			continue
		}
		seen[t] = true
		types = append(types, t)
	}
	custom := ""
	if faker.Number(0, 4) == 0 {
		types = append(types, domain.ResourceTypeOther)
		custom = pick(faker, customResourceTypes)
	}
	return domain.EncodeResourceTypes(types, custom)
}
