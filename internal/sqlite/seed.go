package sqlite

import "fmt"

// seedPerson describes one demonstration person.
type seedPerson struct {
	title  string
	body   string
	traits []string
	attrs  map[string]any
}

// seedPeople is the demonstration dataset: a few people, a company,
// and the relations between them.
var seedPeople = []seedPerson{
	{
		title:  "Alice Johnson",
		body:   "Software engineer with 5 years experience",
		traits: []string{"Employee"},
		attrs:  map[string]any{"age": 28},
	},
	{
		title:  "Bob Smith",
		body:   "Product manager and amateur chef",
		traits: []string{"Employee", "Manager"},
		attrs:  map[string]any{"age": 35},
	},
	{
		title: "Carol Nguyen",
		body:  "Freelance illustrator",
	},
}

// Seed loads the demonstration dataset. A store that already holds
// models is left untouched, so Seed is safe to call on every startup.
func (s *Store) Seed() error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM models").Scan(&count); err != nil {
		return fmt.Errorf("checking for existing models: %w", err)
	}
	if count > 0 {
		return nil
	}

	personIDs := make(map[string]int64, len(seedPeople))
	for _, p := range seedPeople {
		row, err := s.AddModel("Person", p.title, p.body)
		if err != nil {
			return fmt.Errorf("seeding %q: %w", p.title, err)
		}
		id := row["id"].(int64)
		personIDs[p.title] = id
		for _, trait := range p.traits {
			if err := s.AssignTrait(id, trait); err != nil {
				return fmt.Errorf("seeding trait %q on %q: %w", trait, p.title, err)
			}
		}
		for key, value := range p.attrs {
			if err := s.SetAttribute(id, key, value); err != nil {
				return fmt.Errorf("seeding attribute %q on %q: %w", key, p.title, err)
			}
		}
	}

	company, err := s.AddModel("Company", "Acme Corporation", "Leading technology company")
	if err != nil {
		return fmt.Errorf("seeding company: %w", err)
	}
	companyID := company["id"].(int64)

	for _, title := range []string{"Alice Johnson", "Bob Smith"} {
		if _, err := s.AddRelation(personIDs[title], companyID, "works_for"); err != nil {
			return fmt.Errorf("seeding relation for %q: %w", title, err)
		}
	}
	if _, err := s.AddRelation(personIDs["Bob Smith"], personIDs["Alice Johnson"], "manages"); err != nil {
		return fmt.Errorf("seeding manages relation: %w", err)
	}
	return nil
}
