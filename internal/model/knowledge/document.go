package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document holds the static company information used for retrieval.
// It is loaded once at startup and read-only afterwards.
type Document struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	About       string            `json:"about"`
	SiteURL     string            `json:"site_url"`
	Contact     ContactInfo       `json:"contact_info"`
	Products    []Product         `json:"products"`
	Sections    map[string]string `json:"sections"`
	FAQs        []FAQ             `json:"faqs"`
}

// ContactInfo lists the ways to reach the company.
type ContactInfo struct {
	Email   []string `json:"email"`
	Phone   []string `json:"phone"`
	Address []string `json:"address"`
}

// Empty reports whether no contact field is populated.
func (c ContactInfo) Empty() bool {
	return len(c.Email) == 0 && len(c.Phone) == 0 && len(c.Address) == 0
}

// Product describes one offered product or service.
type Product struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// FAQ is a single question/answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Load reads a knowledge document from the JSON file at path. On a missing
// file or parse failure it returns an empty document alongside the error, so
// the caller can log once and keep serving without knowledge context. The
// document is never partially loaded.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read knowledge file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse knowledge file: %w", err)
	}
	return doc, nil
}
