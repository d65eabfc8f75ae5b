package survey

import (
	"log"
	"strings"

	"github.com/siwei-li/bible-bot/pkg/models"
)

// Domain is a named, ordered question set
type Domain struct {
	Name      string
	Questions []models.Question
}

// First returns the domain's first question
func (d *Domain) First() models.Question {
	return d.Questions[0]
}

// Catalog is the read-only question bank, grouped by domain.
// It is built once at startup and never mutated afterwards.
type Catalog struct {
	domains map[string]*Domain // keyed by lowercase domain name
	order   []string           // domain names in first-seen row order
}

// questionSource supplies the catalog rows
type questionSource interface {
	GetAll() ([]models.Question, error)
}

// LoadCatalog fetches all question rows and groups them by domain,
// preserving row order as the in-domain survey order. On fetch failure it
// reports the error and returns an empty catalog: domains become
// unavailable, but the bot still starts.
func LoadCatalog(source questionSource) *Catalog {
	catalog := &Catalog{domains: make(map[string]*Domain)}

	rows, err := source.GetAll()
	if err != nil {
		log.Printf("Error loading question catalog: %v", err)
		return catalog
	}

	for _, question := range rows {
		catalog.add(question)
	}
	return catalog
}

func (c *Catalog) add(question models.Question) {
	key := strings.ToLower(question.Domain)
	domain, exists := c.domains[key]
	if !exists {
		domain = &Domain{Name: question.Domain}
		c.domains[key] = domain
		c.order = append(c.order, question.Domain)
	}
	domain.Questions = append(domain.Questions, question)
}

// Domain looks up a domain by name, case-insensitively
func (c *Catalog) Domain(name string) (*Domain, bool) {
	domain, ok := c.domains[strings.ToLower(strings.TrimSpace(name))]
	return domain, ok
}

// DomainNames returns the known domain names in catalog order
func (c *Catalog) DomainNames() []string {
	return append([]string(nil), c.order...)
}

// Empty reports whether the catalog holds no domains
func (c *Catalog) Empty() bool {
	return len(c.order) == 0
}

// Remaining returns the questions of the user's domain that are not yet in
// the answered set, in survey order. An unknown domain yields nothing.
func (c *Catalog) Remaining(progress *models.UserProgress) []models.Question {
	domain, ok := c.Domain(progress.Domain)
	if !ok {
		return nil
	}

	var remaining []models.Question
	for _, question := range domain.Questions {
		if !progress.HasAnswered(question.ID) {
			remaining = append(remaining, question)
		}
	}
	return remaining
}
